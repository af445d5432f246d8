package service

import (
	"context"
	"strings"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/apperror"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/agent"
	"ai-taskmanager-be/pkg/agent/history"
	"ai-taskmanager-be/pkg/events"
)

var (
	ErrEmptyQuestion = apperror.BadRequest("Вопрос не может быть пустым")
	ErrNoEntryAgent  = apperror.Internal("Агент по умолчанию не настроен")
)

const (
	historyClearedMsg = "История чата очищена"
	historyEmptyMsg   = "История чата уже пуста"
)

// InteractionSource exposes the coordinator's run log.
type InteractionSource interface {
	Interactions() []agent.Interaction
}

type IAgenticService interface {
	Ask(ctx context.Context, userId uint, documentId, question string) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, userId uint, documentId string) (*dto.HistoryResponse, error)
	ClearHistory(ctx context.Context, userId uint, documentId string) (*dto.ClearHistoryResponse, error)
	ListStrategies() []agent.Info
	Interactions(limit int) []agent.Interaction
	Health() *dto.HealthResponse
}

type agenticService struct {
	registry       *agent.Registry
	interactions   InteractionSource
	documents      DocumentSource
	history        history.Store
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

func NewAgenticService(
	registry *agent.Registry,
	interactions InteractionSource,
	documents DocumentSource,
	historyStore history.Store,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IAgenticService {
	return &agenticService{
		registry:       registry,
		interactions:   interactions,
		documents:      documents,
		history:        historyStore,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *agenticService) Ask(ctx context.Context, userId uint, documentId, question string) (*dto.AskResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	doc, err := s.documents.GetContent(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}

	entry, ok := s.registry.Default()
	if !ok {
		return nil, ErrNoEntryAgent
	}

	// History is keyed by the stored id so any accepted spelling of it lands on one conversation.
	documentId = doc.Document.Id.String()

	started := s.now()
	answer := entry.Process(ctx, agent.Input{
		Content:  doc.Text,
		Question: question,
		Filename: doc.Document.OriginalName,
	})
	finished := s.now()

	key := history.Key{UserId: userId, DocumentId: documentId}
	exchange := history.Exchange{
		Timestamp: finished,
		Question:  question,
		Answer:    answer,
		Strategy:  entry.Name(),
	}
	if err := s.history.Append(ctx, key, exchange); err != nil {
		s.logger.Warn("AGENTIC", "Failed to save history", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
	}

	s.logger.Info("AGENTIC", "Question answered", map[string]interface{}{
		"document_id": documentId,
		"user_id":     userId,
		"agent_type":  entry.Name(),
		"elapsed_ms":  finished.Sub(started).Milliseconds(),
	})
	publish(ctx, s.eventPublisher, s.logger, events.NewQuestionAnswered(documentId, userId, entry.Name(), finished.Sub(started)))

	return &dto.AskResponse{
		DocumentId:   documentId,
		Question:     question,
		Answer:       answer,
		ResponseTime: finished,
		AgentType:    entry.Name(),
		FileInfo: dto.FileInfo{
			Filename:    doc.Document.OriginalName,
			FileSize:    doc.Document.Size,
			ContentType: doc.Document.ContentType,
		},
	}, nil
}

func (s *agenticService) GetHistory(ctx context.Context, userId uint, documentId string) (*dto.HistoryResponse, error) {
	info, err := s.documents.GetInfo(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}
	documentId = info.Id.String()
	entries, err := s.history.List(ctx, history.Key{UserId: userId, DocumentId: documentId})
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{DocumentId: documentId, History: entries}, nil
}

func (s *agenticService) ClearHistory(ctx context.Context, userId uint, documentId string) (*dto.ClearHistoryResponse, error) {
	info, err := s.documents.GetInfo(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}
	cleared, err := s.history.Clear(ctx, history.Key{UserId: userId, DocumentId: info.Id.String()})
	if err != nil {
		return nil, err
	}
	msg := historyEmptyMsg
	if cleared {
		msg = historyClearedMsg
	}
	return &dto.ClearHistoryResponse{Cleared: cleared, Message: msg}, nil
}

func (s *agenticService) ListStrategies() []agent.Info {
	return s.registry.List()
}

// Interactions returns the newest limit runs, oldest first. limit <= 0 means all.
func (s *agenticService) Interactions(limit int) []agent.Interaction {
	if s.interactions == nil {
		return []agent.Interaction{}
	}
	all := s.interactions.Interactions()
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all
}

func (s *agenticService) Health() *dto.HealthResponse {
	infos := s.registry.List()
	active := 0
	for _, info := range infos {
		if info.Status == agent.StatusActive {
			active++
		}
	}
	return &dto.HealthResponse{
		Status:           "healthy",
		StrategiesTotal:  len(infos),
		StrategiesActive: active,
	}
}
