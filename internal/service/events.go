package service

import (
	"context"
	"time"

	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/events"
)

const publishTimeout = 3 * time.Second

// publish sends event best effort; bus failures never fail the request.
func publish(ctx context.Context, publisher events.Publisher, log logger.ILogger, event events.Event) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
