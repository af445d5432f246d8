package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/agent"
	"ai-taskmanager-be/pkg/llm"
	"ai-taskmanager-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ollamaDefaultModel = "gemma:2b"

func ollamaOrSkip(t *testing.T) *ollama.OllamaProvider {
	t.Helper()
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping ollama test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_TEST_MODEL")
	if model == "" {
		model = ollamaDefaultModel
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/api/tags")
	if err != nil {
		t.Skipf("Skipping ollama test: server not reachable: %v", err)
	}
	resp.Body.Close()

	return ollama.NewOllamaProvider(baseURL, model)
}

func TestOllamaChat(t *testing.T) {
	provider := ollamaOrSkip(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answer, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Answer with one word."},
		{Role: "user", Content: "What color is the sky on a clear day?"},
	}, llm.WithTemperature(0), llm.WithMaxTokens(20))
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(answer))
}

func TestOllamaBackedStrategies(t *testing.T) {
	provider := ollamaOrSkip(t)
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	in := agent.Input{
		Filename: "plan.txt",
		Content:  "Запуск проекта назначен на 15 марта. Ответственный: Иван Петров. Бюджет: 2 млн рублей.",
		Question: "Кто ответственный?",
	}

	for _, s := range []*agent.LLMStrategy{
		agent.NewConciseStrategy(provider, logger.NewNopLogger()),
		agent.NewDetailedStrategy(provider, logger.NewNopLogger()),
	} {
		t.Run(s.Name(), func(t *testing.T) {
			require.True(t, s.Available())
			answer := s.Process(ctx, in)
			assert.NotEmpty(t, answer)
			t.Logf("%s: %s", s.Name(), answer)
		})
	}
}
