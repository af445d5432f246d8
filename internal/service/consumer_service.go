package service

import (
	"context"
	"encoding/json"
	"strings"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SeedTaskMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Invalid payloads never succeed on retry.
		msg.Ack()
		return
	}
	if payload.UserId == 0 || strings.TrimSpace(payload.Title) == "" {
		cs.logger.Warn("CONSUMER", "Skipping incomplete seed task", map[string]interface{}{"message_id": msg.UUID})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to look up user", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if user == nil {
		cs.logger.Warn("CONSUMER", "Seed user does not exist", map[string]interface{}{"user_id": payload.UserId})
		msg.Ack()
		return
	}

	task, err := createTask(ctx, uow, payload.UserId, payload.Title, payload.Description)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to create seed task", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("CONSUMER", "Seed task created", map[string]interface{}{
		"task_id": task.Id,
		"user_id": payload.UserId,
	})
	publish(ctx, cs.eventPublisher, cs.logger, events.NewTaskCreated(task.Id, payload.UserId, task.Title))
	msg.Ack()
}
