package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ai-taskmanager-be/internal/bootstrap"
	"ai-taskmanager-be/internal/config"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/agent/history"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	defer llmLogger.Sync()

	stack := bootstrap.NewAgentStack(ctx, cfg, llmLogger)
	c := newChat(stack.Registry, history.NewMemoryStore(0), os.Stdin, os.Stdout)
	if err := c.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
