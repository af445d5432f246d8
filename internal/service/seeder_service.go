package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/logger"
)

var errNoSeedUsers = errors.New("seeder: no user ids configured")

// sampleTasks are the titles the seeder draws from.
var sampleTasks = []dto.SeedTaskMessage{
	{Title: "Проверить почту", Description: "Разобрать входящие письма"},
	{Title: "Сделать зарядку", Description: "15 минут утренней разминки"},
	{Title: "Купить продукты", Description: "Молоко, хлеб, яйца"},
	{Title: "Прочитать статью", Description: "Статья о новых технологиях"},
	{Title: "Позвонить маме", Description: "Узнать как дела"},
	{Title: "Подготовить отчёт", Description: "Еженедельный отчёт для команды"},
	{Title: "Полить цветы", Description: "Все цветы на подоконнике"},
	{Title: "Оплатить счета", Description: "Коммунальные услуги и интернет"},
	{Title: "Запланировать встречу", Description: "Созвон с коллегами на неделе"},
	{Title: "Сделать резервную копию", Description: "Скопировать важные файлы"},
}

type ISeederService interface {
	// Run publishes a random task every interval until ctx is done.
	Run(ctx context.Context)
	SeedOnce(ctx context.Context) (*dto.SeedTaskMessage, error)
}

type seederService struct {
	publisher IPublisherService
	userIds   []uint
	interval  time.Duration
	logger    logger.ILogger
	pick      func(n int) int
}

func NewSeederService(publisher IPublisherService, userIds []uint, interval time.Duration, logger logger.ILogger) ISeederService {
	return &seederService{
		publisher: publisher,
		userIds:   userIds,
		interval:  interval,
		logger:    logger,
		pick:      rand.IntN,
	}
}

func (s *seederService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("SEEDER", "Seeder started", map[string]interface{}{"interval": s.interval.String()})
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SEEDER", "Seeder stopped", nil)
			return
		case <-ticker.C:
			if _, err := s.SeedOnce(ctx); err != nil {
				s.logger.Error("SEEDER", "Failed to publish seed task", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func (s *seederService) SeedOnce(ctx context.Context) (*dto.SeedTaskMessage, error) {
	if len(s.userIds) == 0 {
		return nil, errNoSeedUsers
	}

	msg := sampleTasks[s.pick(len(sampleTasks))]
	msg.UserId = s.userIds[s.pick(len(s.userIds))]

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		return nil, err
	}
	return &msg, nil
}
