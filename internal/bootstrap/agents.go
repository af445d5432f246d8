package bootstrap

import (
	"context"
	"io"

	"ai-taskmanager-be/internal/config"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/agent"
	"ai-taskmanager-be/pkg/llm"
	"ai-taskmanager-be/pkg/llm/factory"
)

// AgentStack is the coordinator over the base strategies plus the registry
// that lists all of them.
type AgentStack struct {
	Coordinator *agent.Coordinator
	Registry    *agent.Registry

	// Closers release provider clients that hold connections.
	Closers []func()
}

// NewAgentStack registers heuristic, concise and detailed in that order and a
// coordinator over them as the default entry. A strategy whose provider cannot
// be built stays registered as inactive and answers heuristically.
func NewAgentStack(ctx context.Context, cfg *config.Config, log logger.ILogger) *AgentStack {
	creds := factory.Credentials{
		OpenAIKey:     cfg.Keys.OpenAI,
		GeminiKey:     cfg.Keys.GoogleGemini,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
	}

	stack := &AgentStack{}
	conciseProvider := newProvider(ctx, log, agent.ConciseName, cfg.Ai.Concise, creds)
	detailedProvider := newProvider(ctx, log, agent.DetailedName, cfg.Ai.Detailed, creds)
	stack.track(log, conciseProvider)
	stack.track(log, detailedProvider)

	concise := agent.NewConciseStrategy(conciseProvider, log)
	detailed := agent.NewDetailedStrategy(detailedProvider, log)

	coordinator := agent.NewCoordinator(log, agent.NewHeuristic(), concise, detailed)
	registry := agent.NewDefaultRegistry(coordinator)

	for _, info := range registry.List() {
		log.Info("AGENT", "Strategy registered", map[string]interface{}{
			"id":     info.Id,
			"status": info.Status,
		})
	}

	stack.Coordinator = coordinator
	stack.Registry = registry
	return stack
}

func (s *AgentStack) track(log logger.ILogger, provider llm.LLMProvider) {
	closer, ok := provider.(io.Closer)
	if !ok {
		return
	}
	s.Closers = append(s.Closers, func() {
		if err := closer.Close(); err != nil {
			log.Warn("AGENT", "Failed to close LLM provider", map[string]interface{}{"error": err.Error()})
		}
	})
}

func newProvider(ctx context.Context, log logger.ILogger, strategy string, sc config.StrategyConfig, creds factory.Credentials) llm.LLMProvider {
	provider, err := factory.NewLLMProvider(ctx, sc.Provider, sc.Model, creds)
	if err != nil {
		log.Warn("AGENT", "LLM provider unavailable, falling back to heuristic answers", map[string]interface{}{
			"strategy": strategy,
			"provider": sc.Provider,
			"error":    err.Error(),
		})
		return nil
	}
	log.Info("AGENT", "LLM provider ready", map[string]interface{}{
		"strategy": strategy,
		"provider": sc.Provider,
		"model":    sc.Model,
	})
	return provider
}
