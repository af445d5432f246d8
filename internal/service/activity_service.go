package service

import (
	"context"

	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/events"
	pktNats "ai-taskmanager-be/pkg/nats"
)

const activityDurable = "activity-log"

// EventSubscriber is implemented by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IActivityService interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type activityService struct {
	subscriber  EventSubscriber
	activityLog logger.ILogger
}

func NewActivityService(subscriber EventSubscriber, activityLog logger.ILogger) IActivityService {
	return &activityService{
		subscriber:  subscriber,
		activityLog: activityLog,
	}
}

// Start subscribes to every domain event. Without a subscriber it does nothing.
func (s *activityService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPattern, activityDurable, s.Handle)
}

func (s *activityService) Handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()
	s.activityLog.Info("ACTIVITY", event.EventType(), details)
	return nil
}
