package factory

import (
	"context"
	"fmt"

	"ai-taskmanager-be/pkg/llm"
	"ai-taskmanager-be/pkg/llm/gemini"
	"ai-taskmanager-be/pkg/llm/ollama"
	"ai-taskmanager-be/pkg/llm/openai"
)

// Credentials bundles whatever a provider may need; unused fields are ignored.
type Credentials struct {
	OpenAIKey     string
	GeminiKey     string
	OllamaBaseURL string
}

func NewLLMProvider(ctx context.Context, providerType, modelName string, creds Credentials) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		p, err := openai.NewOpenAIProvider(creds.OpenAIKey, modelName)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "gemini":
		p, err := gemini.NewGeminiProvider(ctx, creds.GeminiKey, modelName)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		baseURL := creds.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
