package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-taskmanager-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletions records each request body and answers with reply.
func fakeCompletions(t *testing.T, reply string, bodies *[]map[string]interface{}) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*bodies = append(*bodies, body)

		w.Header().Set("Content-Type", "application/json")
		choices := []map[string]interface{}{}
		if reply != "" {
			choices = append(choices, map[string]interface{}{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   body["model"],
			"choices": choices,
		})
	}))
	t.Cleanup(srv.Close)

	cfg := goopenai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return newProvider(cfg, "gpt-3.5-turbo")
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "gpt-4o-mini")
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
}

func TestChatTemperature(t *testing.T) {
	tests := []struct {
		name  string
		opts  []llm.Option
		check func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "zero is sent",
			opts: []llm.Option{llm.WithTemperature(0)},
			check: func(t *testing.T, body map[string]interface{}) {
				temp, ok := body["temperature"].(float64)
				require.True(t, ok, "temperature missing from request")
				assert.Greater(t, temp, 0.0)
				assert.Less(t, temp, 1e-6)
			},
		},
		{
			name: "explicit value",
			opts: []llm.Option{llm.WithTemperature(0.5)},
			check: func(t *testing.T, body map[string]interface{}) {
				assert.InDelta(t, 0.5, body["temperature"], 1e-6)
			},
		},
		{
			name: "unset stays default",
			check: func(t *testing.T, body map[string]interface{}) {
				assert.NotContains(t, body, "temperature")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bodies []map[string]interface{}
			p := fakeCompletions(t, "ok", &bodies)

			out, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, "ok", out)
			require.Len(t, bodies, 1)
			tt.check(t, bodies[0])
		})
	}
}

func TestChatMapsRolesAndOptions(t *testing.T) {
	var bodies []map[string]interface{}
	p := fakeCompletions(t, "готово", &bodies)

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "кратко"},
		{Role: "model", Content: "прежний ответ"},
		{Role: "user", Content: "вопрос"},
	}, llm.WithModel("gpt-4o-mini"), llm.WithMaxTokens(64))
	require.NoError(t, err)
	assert.Equal(t, "готово", out)

	body := bodies[0]
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 64, body["max_tokens"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 3)
	assert.Equal(t, "assistant", messages[1].(map[string]interface{})["role"])
}

func TestChatWithoutChoices(t *testing.T) {
	var bodies []map[string]interface{}
	p := fakeCompletions(t, "", &bodies)

	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "no choices")
}
