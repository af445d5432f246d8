package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-taskmanager-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	CoordinatorName = "coordinator"

	// An answer shorter than this many words gets a second opinion.
	minPrimaryAnswerWords = 50

	defaultInteractionLimit = 1000
)

var ErrNoStrategies = errors.New("нет зарегистрированных агентов")

// primaryRoutes maps question keywords to the preferred strategy name. An empty
// result means "first registered".
var primaryRoutes = classifier[string]{
	rules: []rule[string]{
		{keywords: []string{"анализ", "структура", "данные", "статистика"}, result: ConciseName},
		{keywords: []string{"резюме", "краткое", "суть", "основное"}, result: HeuristicName},
		{keywords: []string{"детально", "подробно", "глубокий"}, result: DetailedName},
	},
}

var complexKeywords = []string{"сравни", "проанализируй", "детально", "всесторонне", "комплексно"}

// Interaction is one coordinator run. Secondary fields are empty when only the
// primary strategy answered.
type Interaction struct {
	Question          string    `json:"question"`
	PrimaryStrategy   string    `json:"primary_agent"`
	PrimaryAnswer     string    `json:"primary_response"`
	SecondaryStrategy string    `json:"secondary_agent,omitempty"`
	SecondaryAnswer   string    `json:"secondary_response,omitempty"`
	FinalAnswer       string    `json:"final_response"`
	Timestamp         time.Time `json:"timestamp"`
}

// Coordinator picks a primary strategy, optionally asks a second one to
// elaborate, and merges both answers.
type Coordinator struct {
	strategies []Strategy
	byName     map[string]Strategy
	logger     logger.ILogger
	tracer     trace.Tracer
	now        func() time.Time

	mu           sync.Mutex
	interactions []Interaction
	limit        int
}

// NewCoordinator keeps strategies in the given order; later duplicates of a name are ignored.
func NewCoordinator(log logger.ILogger, strategies ...Strategy) *Coordinator {
	c := &Coordinator{
		byName: make(map[string]Strategy, len(strategies)),
		logger: log,
		tracer: otel.Tracer("ai-taskmanager-be/pkg/agent"),
		now:    time.Now,
		limit:  defaultInteractionLimit,
	}
	for _, s := range strategies {
		if _, dup := c.byName[s.Name()]; dup {
			continue
		}
		c.byName[s.Name()] = s
		c.strategies = append(c.strategies, s)
	}
	return c
}

func (c *Coordinator) Name() string { return CoordinatorName }

func (c *Coordinator) Description() string {
	return "Агент-координатор для управления Agent-To-Agent взаимодействием"
}

func (c *Coordinator) Available() bool { return true }

func (c *Coordinator) Capabilities() []string {
	return []string{"Координация агентов", "Комбинирование ответов", "Agent-To-Agent взаимодействие"}
}

// Process never returns an error; failures become a "Ошибка координатора" answer.
func (c *Coordinator) Process(ctx context.Context, in Input) (answer string) {
	ctx, span := c.tracer.Start(ctx, "coordinator.process")
	defer func() {
		if r := recover(); r != nil {
			answer = c.failure(span, fmt.Errorf("%v", r))
		}
		span.End()
	}()

	answer, err := c.process(ctx, in)
	if err != nil {
		return c.failure(span, err)
	}
	return answer
}

func (c *Coordinator) failure(span trace.Span, err error) string {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error("COORDINATOR", "Coordinator failed", map[string]interface{}{"error": err.Error()})
	return "Ошибка координатора: " + err.Error()
}

func (c *Coordinator) process(ctx context.Context, in Input) (string, error) {
	if len(c.strategies) == 0 {
		return "", ErrNoStrategies
	}

	question := strings.ToLower(in.Question)

	primary := c.selectPrimary(question)
	primaryAnswer := c.run(ctx, primary, in)

	interaction := Interaction{
		Question:        in.Question,
		PrimaryStrategy: primary.Name(),
		PrimaryAnswer:   primaryAnswer,
		FinalAnswer:     primaryAnswer,
	}

	if NeedsSecondary(question, primaryAnswer) {
		secondary := c.selectSecondary()
		followUp := in
		followUp.Question = SecondaryQuestion(in.Question, primaryAnswer)
		secondaryAnswer := c.run(ctx, secondary, followUp)

		interaction.SecondaryStrategy = secondary.Name()
		interaction.SecondaryAnswer = secondaryAnswer
		interaction.FinalAnswer = MergeAnswers(primaryAnswer, secondaryAnswer)
	}

	interaction.Timestamp = c.now()
	c.record(interaction)

	c.logger.Info("COORDINATOR", "Question answered", map[string]interface{}{
		"primary":   interaction.PrimaryStrategy,
		"secondary": interaction.SecondaryStrategy,
	})
	return interaction.FinalAnswer, nil
}

func (c *Coordinator) run(ctx context.Context, s Strategy, in Input) string {
	ctx, span := c.tracer.Start(ctx, "strategy."+s.Name(), trace.WithAttributes(
		attribute.Bool("strategy.available", s.Available()),
	))
	defer span.End()
	return s.Process(ctx, in)
}

func (c *Coordinator) selectPrimary(question string) Strategy {
	if preferred := primaryRoutes.classify(question); preferred != "" {
		if s, ok := c.byName[preferred]; ok {
			return s
		}
	}
	return c.strategies[0]
}

// selectSecondary returns the second registered strategy, or the only one.
// It may coincide with the primary.
func (c *Coordinator) selectSecondary() Strategy {
	if len(c.strategies) > 1 {
		return c.strategies[1]
	}
	return c.strategies[0]
}

// NeedsSecondary reports whether the lowercased question or a short primary
// answer calls for a second strategy.
func NeedsSecondary(question, primaryAnswer string) bool {
	if containsAny(question, complexKeywords) {
		return true
	}
	return len(strings.Fields(primaryAnswer)) < minPrimaryAnswerWords
}

func SecondaryQuestion(question, primaryAnswer string) string {
	return fmt.Sprintf("Дополни и улучши следующий ответ на вопрос: \"%s\"\n\nПервичный ответ: %s\n\nДобавь дополнительные детали, контекст или альтернативные точки зрения.",
		question, primaryAnswer)
}

func MergeAnswers(primary, secondary string) string {
	return "🤖 **Комплексный ответ от агентной системы:**\n\n" +
		"**Основной анализ:**\n" + primary + "\n\n" +
		"**Дополнительная детализация:**\n" + secondary + "\n\n" +
		"---\n*Ответ подготовлен с использованием Agent-To-Agent архитектуры*"
}

func (c *Coordinator) record(i Interaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactions = append(c.interactions, i)
	if over := len(c.interactions) - c.limit; over > 0 {
		c.interactions = append([]Interaction(nil), c.interactions[over:]...)
	}
}

// Interactions returns a copy of the log, oldest first.
func (c *Coordinator) Interactions() []Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Interaction, len(c.interactions))
	copy(out, c.interactions)
	return out
}

func (c *Coordinator) ClearInteractions() {
	c.mu.Lock()
	c.interactions = nil
	c.mu.Unlock()
}

// Strategies returns the composed strategies in registration order.
func (c *Coordinator) Strategies() []Strategy {
	out := make([]Strategy, len(c.strategies))
	copy(out, c.strategies)
	return out
}
