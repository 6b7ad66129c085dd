package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/user-service/internal/domain"
	"go.uber.org/zap"
)

// JSONPublisher is satisfied by messaging.Publisher
type JSONPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

type brokerStatusPublisher struct {
	publisher JSONPublisher
}

// NewBrokerStatusPublisher publishes status change events to a message broker
func NewBrokerStatusPublisher(publisher JSONPublisher) StatusPublisher {
	return &brokerStatusPublisher{publisher: publisher}
}

func (p *brokerStatusPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	if err := p.publisher.PublishJSON(ctx, event); err != nil {
		return fmt.Errorf("failed to publish status change for user %d: %w", event.UserID, err)
	}
	return nil
}

type logStatusPublisher struct {
	logger *zap.Logger
}

// NewLogStatusPublisher only logs events. Used when no broker is configured.
func NewLogStatusPublisher(logger *zap.Logger) StatusPublisher {
	return &logStatusPublisher{logger: logger}
}

func (p *logStatusPublisher) PublishStatusChanged(_ context.Context, event domain.StatusChangedEvent) error {
	p.logger.Info("User status changed",
		zap.Int64("user_id", event.UserID),
		zap.Bool("new_status", event.NewStatus),
		zap.Time("timestamp", event.Timestamp),
		zap.String("action", event.Action),
	)
	return nil
}
