package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/agent"
	"ai-taskmanager-be/pkg/agent/history"
	"ai-taskmanager-be/pkg/events"
	"ai-taskmanager-be/pkg/filestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDocuments serves fixed texts owned by user 1.
type stubDocuments struct {
	texts map[string]string
}

func (s stubDocuments) lookup(userId uint, documentId string) (*entity.Document, string, error) {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return nil, "", ErrDocumentNotFound
	}
	text, ok := s.texts[id.String()]
	if !ok || userId != 1 {
		return nil, "", ErrDocumentNotFound
	}
	return &entity.Document{
		Id:           id,
		UserId:       1,
		OriginalName: "report.txt",
		ContentType:  "text/plain",
		Size:         int64(len(text)),
	}, text, nil
}

func (s stubDocuments) GetInfo(ctx context.Context, userId uint, documentId string) (*dto.DocumentResponse, error) {
	doc, _, err := s.lookup(userId, documentId)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s stubDocuments) GetContent(ctx context.Context, userId uint, documentId string) (*DocumentContent, error) {
	doc, text, err := s.lookup(userId, documentId)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrDocumentUnreadable
	}
	return &DocumentContent{Document: doc, Text: text}, nil
}

type agenticFixture struct {
	svc   IAgenticService
	pub   *recordingPublisher
	docId string
	empty string
}

func newAgenticFixture(t *testing.T) agenticFixture {
	t.Helper()
	log := logger.NewNopLogger()
	coordinator := agent.NewCoordinator(log,
		agent.NewHeuristic(),
		agent.NewConciseStrategy(nil, log),
		agent.NewDetailedStrategy(nil, log),
	)
	registry := agent.NewDefaultRegistry(coordinator)

	docId := uuid.NewString()
	empty := uuid.NewString()
	docs := stubDocuments{texts: map[string]string{
		docId: "первая строка\nвторая строка\nтретья строка",
		empty: "",
	}}

	pub := &recordingPublisher{}
	svc := NewAgenticService(registry, coordinator, docs, history.NewMemoryStore(0), pub, log)
	return agenticFixture{svc: svc, pub: pub, docId: docId, empty: empty}
}

func TestAgenticServiceAsk(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	res, err := f.svc.Ask(ctx, 1, f.docId, "Сколько строк в файле?")
	require.NoError(t, err)
	assert.Equal(t, agent.CoordinatorName, res.AgentType)
	assert.Equal(t, f.docId, res.DocumentId)
	assert.Equal(t, "report.txt", res.FileInfo.Filename)
	assert.Contains(t, res.Answer, "3")
	assert.WithinDuration(t, time.Now(), res.ResponseTime, time.Minute)
	assert.Equal(t, []string{events.QuestionAnswered}, f.pub.types())

	hist, err := f.svc.GetHistory(ctx, 1, f.docId)
	require.NoError(t, err)
	require.Len(t, hist.History, 1)
	assert.Equal(t, res.Answer, hist.History[0].Answer)
	assert.Equal(t, agent.CoordinatorName, hist.History[0].Strategy)

	assert.Len(t, f.svc.Interactions(0), 1)
}

func TestAgenticServiceAskErrors(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	tests := []struct {
		name     string
		userId   uint
		docId    string
		question string
		want     error
	}{
		{"blank question", 1, f.docId, "  \t", ErrEmptyQuestion},
		{"unknown document", 1, uuid.NewString(), "что?", ErrDocumentNotFound},
		{"foreign document", 2, f.docId, "что?", ErrDocumentNotFound},
		{"empty content", 1, f.empty, "что?", ErrDocumentUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Ask(ctx, tt.userId, tt.docId, tt.question)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.pub.types())
}

func TestAgenticServiceHistoryBound(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	for i := 0; i < history.MaxEntries+3; i++ {
		_, err := f.svc.Ask(ctx, 1, f.docId, fmt.Sprintf("вопрос %d", i))
		require.NoError(t, err)
	}

	hist, err := f.svc.GetHistory(ctx, 1, f.docId)
	require.NoError(t, err)
	require.Len(t, hist.History, history.MaxEntries)
	assert.Equal(t, "вопрос 3", hist.History[0].Question)

	_, err = f.svc.GetHistory(ctx, 2, f.docId)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAgenticServiceClearHistory(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	_, err := f.svc.Ask(ctx, 1, f.docId, "о чём файл?")
	require.NoError(t, err)

	res, err := f.svc.ClearHistory(ctx, 1, f.docId)
	require.NoError(t, err)
	assert.True(t, res.Cleared)
	assert.Equal(t, "История чата очищена", res.Message)

	res, err = f.svc.ClearHistory(ctx, 1, f.docId)
	require.NoError(t, err)
	assert.False(t, res.Cleared)
	assert.Equal(t, "История чата уже пуста", res.Message)
}

func TestAgenticServiceStrategiesAndHealth(t *testing.T) {
	f := newAgenticFixture(t)

	infos := f.svc.ListStrategies()
	require.Len(t, infos, 4)

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.Id)
	}
	assert.Equal(t, []string{agent.HeuristicName, agent.ConciseName, agent.DetailedName, agent.CoordinatorName}, ids)
	assert.Equal(t, agent.StatusInactive, infos[1].Status)

	health := f.svc.Health()
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 4, health.StrategiesTotal)
	assert.Equal(t, 2, health.StrategiesActive)
}

func TestAgenticServiceInteractionsLimit(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	for _, q := range []string{"раз", "два", "три"} {
		_, err := f.svc.Ask(ctx, 1, f.docId, q)
		require.NoError(t, err)
	}

	last := f.svc.Interactions(2)
	require.Len(t, last, 2)
	assert.Equal(t, "два", last[0].Question)
	assert.Equal(t, "три", last[1].Question)
}

func TestAgenticServiceHistoryUsesStoredDocumentId(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	store, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	hist := history.NewMemoryStore(0)
	docs := NewDocumentService(newFakeDB(), store, hist, nil, log, DocumentServiceConfig{
		AllowedMimeTypes: []string{"text/plain"},
	})
	coordinator := agent.NewCoordinator(log, agent.NewHeuristic())
	svc := NewAgenticService(agent.NewDefaultRegistry(coordinator), coordinator, docs, hist, nil, log)

	doc, err := docs.Upload(ctx, 1, &dto.UploadDocumentRequest{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("первая\nвторая"),
	})
	require.NoError(t, err)
	canonical := doc.Id.String()

	for _, spelling := range []string{strings.ToUpper(canonical), "{" + canonical + "}", "urn:uuid:" + canonical} {
		res, err := svc.Ask(ctx, 1, spelling, "сколько строк")
		require.NoError(t, err)
		assert.Equal(t, canonical, res.DocumentId)
	}

	byCanonical, err := svc.GetHistory(ctx, 1, canonical)
	require.NoError(t, err)
	assert.Len(t, byCanonical.History, 3)
	assert.Equal(t, canonical, byCanonical.DocumentId)

	byUpper, err := svc.GetHistory(ctx, 1, strings.ToUpper(canonical))
	require.NoError(t, err)
	assert.Len(t, byUpper.History, 3)

	require.NoError(t, docs.Delete(ctx, 1, canonical))
	left, err := hist.List(ctx, history.Key{UserId: 1, DocumentId: canonical})
	require.NoError(t, err)
	assert.Empty(t, left)
	left, err = hist.List(ctx, history.Key{UserId: 1, DocumentId: strings.ToUpper(canonical)})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestAgenticServiceClearHistoryAcceptsAnySpelling(t *testing.T) {
	ctx := context.Background()
	f := newAgenticFixture(t)

	_, err := f.svc.Ask(ctx, 1, f.docId, "сколько строк")
	require.NoError(t, err)

	res, err := f.svc.ClearHistory(ctx, 1, "urn:uuid:"+f.docId)
	require.NoError(t, err)
	assert.True(t, res.Cleared)
}
