package agent

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-taskmanager-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStrategy returns a fixed answer and records the inputs it saw.
type stubStrategy struct {
	name   string
	answer string
	panics bool

	mu   sync.Mutex
	seen []Input
}

func (s *stubStrategy) Name() string        { return s.name }
func (s *stubStrategy) Description() string { return "stub " + s.name }
func (s *stubStrategy) Available() bool     { return true }

func (s *stubStrategy) Process(_ context.Context, in Input) string {
	if s.panics {
		panic("strategy exploded")
	}
	s.mu.Lock()
	s.seen = append(s.seen, in)
	s.mu.Unlock()
	return s.answer
}

func (s *stubStrategy) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("слово ", n))
}

func newStubs(primaryAnswer string) (*stubStrategy, *stubStrategy, *stubStrategy) {
	return &stubStrategy{name: HeuristicName, answer: primaryAnswer},
		&stubStrategy{name: ConciseName, answer: "concise answer"},
		&stubStrategy{name: DetailedName, answer: "detailed answer"}
}

func TestSecondaryTriggerWordBoundary(t *testing.T) {
	tests := []struct {
		name          string
		primaryWords  int
		wantSecondary bool
	}{
		{name: "49 words", primaryWords: 49, wantSecondary: true},
		{name: "50 words", primaryWords: 50, wantSecondary: false},
		{name: "51 words", primaryWords: 51, wantSecondary: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, concise, detailed := newStubs(words(tt.primaryWords))
			c := NewCoordinator(logger.NewNopLogger(), h, concise, detailed)

			got := c.Process(context.Background(), Input{Content: "doc", Question: "обычный вопрос"})

			assert.Equal(t, 1, h.calls())
			if tt.wantSecondary {
				assert.Equal(t, 1, concise.calls())
				assert.Equal(t, MergeAnswers(words(tt.primaryWords), "concise answer"), got)
			} else {
				assert.Zero(t, concise.calls())
				assert.Equal(t, words(tt.primaryWords), got)
			}
			assert.Zero(t, detailed.calls())
		})
	}
}

func TestComplexKeywordForcesSecondary(t *testing.T) {
	long := words(200)
	h, concise, detailed := newStubs(long)
	c := NewCoordinator(logger.NewNopLogger(), h, concise, detailed)

	got := c.Process(context.Background(), Input{Content: "doc", Question: "Сравни первую и вторую часть"})

	assert.Equal(t, MergeAnswers(long, "concise answer"), got)
	require.Equal(t, 1, concise.calls())
	assert.Equal(t, "doc", concise.seen[0].Content)
	assert.Equal(t, SecondaryQuestion("Сравни первую и вторую часть", long), concise.seen[0].Question)
	assert.Zero(t, detailed.calls())
}

func TestPrimarySelection(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{question: "Покажи статистика по данным", want: ConciseName},
		{question: "основное в двух словах", want: HeuristicName},
		{question: "Расскажи подробно", want: DetailedName},
		{question: "привет", want: HeuristicName},
		// analysis keywords are checked before summary keywords
		{question: "анализ и резюме", want: ConciseName},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			h, concise, detailed := newStubs("x")
			c := NewCoordinator(logger.NewNopLogger(), h, concise, detailed)
			assert.Equal(t, tt.want, c.selectPrimary(strings.ToLower(tt.question)).Name())
		})
	}
}

func TestPrimaryFallsBackToFirstWhenPreferredMissing(t *testing.T) {
	only := &stubStrategy{name: "custom", answer: words(60)}
	c := NewCoordinator(logger.NewNopLogger(), only)

	assert.Equal(t, "custom", c.selectPrimary("статистика").Name())
}

func TestSingleStrategyIsItsOwnSecondary(t *testing.T) {
	only := &stubStrategy{name: HeuristicName, answer: "short"}
	c := NewCoordinator(logger.NewNopLogger(), only)

	got := c.Process(context.Background(), Input{Content: "doc", Question: "q"})

	assert.Equal(t, 2, only.calls())
	assert.Equal(t, MergeAnswers("short", "short"), got)
}

func TestSecondaryIsSecondRegisteredEvenWhenPrimary(t *testing.T) {
	h, concise, detailed := newStubs("x")
	concise.answer = "short"
	c := NewCoordinator(logger.NewNopLogger(), h, concise, detailed)

	c.Process(context.Background(), Input{Content: "doc", Question: "статистика"})

	assert.Zero(t, h.calls())
	assert.Equal(t, 2, concise.calls())
}

func TestInteractionLog(t *testing.T) {
	h, concise, detailed := newStubs(words(60))
	c := NewCoordinator(logger.NewNopLogger(), h, concise, detailed)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	c.Process(context.Background(), Input{Content: "doc", Question: "обычный"})
	c.Process(context.Background(), Input{Content: "doc", Question: "сравни"})

	log := c.Interactions()
	require.Len(t, log, 2)

	assert.Equal(t, HeuristicName, log[0].PrimaryStrategy)
	assert.Empty(t, log[0].SecondaryStrategy)
	assert.Equal(t, log[0].PrimaryAnswer, log[0].FinalAnswer)
	assert.Equal(t, fixed, log[0].Timestamp)

	assert.Equal(t, ConciseName, log[1].SecondaryStrategy)
	assert.Equal(t, "concise answer", log[1].SecondaryAnswer)
	assert.Equal(t, MergeAnswers(words(60), "concise answer"), log[1].FinalAnswer)

	c.ClearInteractions()
	assert.Empty(t, c.Interactions())
}

func TestInteractionLogIsBounded(t *testing.T) {
	h := &stubStrategy{name: HeuristicName, answer: words(60)}
	c := NewCoordinator(logger.NewNopLogger(), h)
	c.limit = 3

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		c.Process(context.Background(), Input{Content: "doc", Question: q})
	}

	log := c.Interactions()
	require.Len(t, log, 3)
	assert.Equal(t, "c", log[0].Question)
	assert.Equal(t, "e", log[2].Question)
}

func TestCoordinatorNeverPanics(t *testing.T) {
	t.Run("no strategies", func(t *testing.T) {
		c := NewCoordinator(logger.NewNopLogger())
		got := c.Process(context.Background(), Input{Content: "doc", Question: "q"})
		assert.Equal(t, "Ошибка координатора: "+ErrNoStrategies.Error(), got)
	})

	t.Run("strategy panics", func(t *testing.T) {
		c := NewCoordinator(logger.NewNopLogger(), &stubStrategy{name: HeuristicName, panics: true})
		got := c.Process(context.Background(), Input{Content: "doc", Question: "q"})
		assert.Equal(t, "Ошибка координатора: strategy exploded", got)
		assert.Empty(t, c.Interactions())
	})
}

func TestCoordinatorWithRealStrategies(t *testing.T) {
	c := NewCoordinator(logger.NewNopLogger(),
		NewHeuristic(),
		NewConciseStrategy(nil, logger.NewNopLogger()),
		NewDetailedStrategy(nil, logger.NewNopLogger()),
	)

	got := c.Process(context.Background(), Input{Content: "line1\nline2\nline3", Question: "сколько строк"})

	assert.True(t, strings.HasPrefix(got, "🤖 **Комплексный ответ от агентной системы:**"))
	assert.Contains(t, got, "**Основной анализ:**\nВ файле 3 строк.")
	assert.True(t, strings.HasSuffix(got, "*Ответ подготовлен с использованием Agent-To-Agent архитектуры*"))
}

func TestDuplicateStrategyNamesIgnored(t *testing.T) {
	first := &stubStrategy{name: HeuristicName, answer: "first"}
	second := &stubStrategy{name: HeuristicName, answer: "second"}
	c := NewCoordinator(logger.NewNopLogger(), first, second)

	assert.Len(t, c.Strategies(), 1)
}
