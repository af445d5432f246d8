package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/llm"
)

const (
	ConciseName  = "concise"
	DetailedName = "detailed"

	truncationMarker = "...\n[Содержимое обрезано]"
)

var errEmptyCompletion = errors.New("empty completion")

// LLMStrategyConfig describes one model-backed strategy.
type LLMStrategyConfig struct {
	Name            string
	Description     string
	Capabilities    []string
	MaxContentChars int
	SystemPrompt    string
	Instruction     string
	Temperature     *float64
}

// LLMStrategy asks a language model and falls back to HeuristicAnswer when the
// provider is missing or the call fails.
type LLMStrategy struct {
	cfg       LLMStrategyConfig
	provider  llm.LLMProvider
	available bool
	logger    logger.ILogger
}

// NewLLMStrategy marks the strategy available only when provider is non-nil.
func NewLLMStrategy(cfg LLMStrategyConfig, provider llm.LLMProvider, log logger.ILogger) *LLMStrategy {
	return &LLMStrategy{
		cfg:       cfg,
		provider:  provider,
		available: provider != nil,
		logger:    log,
	}
}

func NewConciseStrategy(provider llm.LLMProvider, log logger.ILogger) *LLMStrategy {
	return NewLLMStrategy(LLMStrategyConfig{
		Name:            ConciseName,
		Description:     "Краткие структурированные ответы с помощью языковой модели",
		Capabilities:    []string{"Анализ структуры", "Статистика данных", "Краткие ответы"},
		MaxContentChars: 3000,
		SystemPrompt: "Ты - помощник для анализа файлов. Используй предоставленное содержимое файла для ответа на вопросы пользователя. " +
			"Отвечай на русском языке кратко и по существу. Если информации нет в файле, так и скажи.",
		Instruction: "Дай краткий и точный ответ на основе содержимого файла. Если в файле нет информации для ответа, так и скажи.",
	}, provider, log)
}

func NewDetailedStrategy(provider llm.LLMProvider, log logger.ILogger) *LLMStrategy {
	zero := 0.0
	return NewLLMStrategy(LLMStrategyConfig{
		Name:            DetailedName,
		Description:     "Подробный анализ содержимого с помощью языковой модели",
		Capabilities:    []string{"Подробный анализ", "Поиск по содержимому", "Подсчёт элементов"},
		MaxContentChars: 2000,
		Instruction: "Проанализируй содержимое, найди нужную информацию и посчитай элементы, если это требуется, " +
			"затем ответь на вопрос пользователя на основе содержимого файла.",
		Temperature: &zero,
	}, provider, log)
}

func (s *LLMStrategy) Name() string { return s.cfg.Name }

func (s *LLMStrategy) Description() string { return s.cfg.Description }

func (s *LLMStrategy) Available() bool { return s.available }

func (s *LLMStrategy) Capabilities() []string { return s.cfg.Capabilities }

func (s *LLMStrategy) Process(ctx context.Context, in Input) string {
	if !s.available {
		return HeuristicAnswer(in.Content, in.Question)
	}
	if in.Content == "" {
		return EmptyDocumentAnswer
	}

	answer, err := s.complete(ctx, in)
	if err != nil {
		s.logger.Warn("AGENT", "LLM call failed, using heuristic answer", map[string]interface{}{
			"strategy": s.cfg.Name,
			"error":    err.Error(),
		})
		return HeuristicAnswer(in.Content, in.Question)
	}
	return answer
}

func (s *LLMStrategy) complete(ctx context.Context, in Input) (string, error) {
	var messages []llm.Message
	if s.cfg.SystemPrompt != "" {
		messages = append(messages, llm.Message{Role: "system", Content: s.cfg.SystemPrompt})
	}
	messages = append(messages, llm.Message{Role: "user", Content: s.buildPrompt(in)})

	var opts []llm.Option
	if s.cfg.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*s.cfg.Temperature))
	}

	answer, err := s.provider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errEmptyCompletion
	}
	return answer, nil
}

func (s *LLMStrategy) buildPrompt(in Input) string {
	return fmt.Sprintf("Анализируй содержимое файла \"%s\" и ответь на вопрос пользователя.\n\nСОДЕРЖИМОЕ ФАЙЛА:\n%s\n\nВОПРОС ПОЛЬЗОВАТЕЛЯ: %s\n\n%s",
		in.filename(),
		truncateRunes(in.Content, s.cfg.MaxContentChars),
		in.Question,
		s.cfg.Instruction,
	)
}

// truncateRunes cuts content to limit characters and appends the truncation marker.
func truncateRunes(content string, limit int) string {
	if limit <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + truncationMarker
}
