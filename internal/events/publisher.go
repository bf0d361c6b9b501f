package events

import (
	"context"
	"time"

	"nichelens-be/internal/pkg/logger"
	pkgEvents "nichelens-be/pkg/events"

	"github.com/google/uuid"
)

const (
	HistoryCreated = "history.created"
	HistoryDeleted = "history.deleted"
	HistoryCleared = "history.cleared"
	UserSignedIn   = "user.signed_in"
)

// EventSink is the transport the publisher hands events to.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// Publisher abstracts domain event publishing for history and identity.
type Publisher interface {
	PublishHistoryCreated(ctx context.Context, userId, historyId uuid.UUID, mode string)
	PublishHistoryDeleted(ctx context.Context, userId, historyId uuid.UUID)
	PublishHistoryCleared(ctx context.Context, userId uuid.UUID, deleted int64)
	PublishUserSignedIn(ctx context.Context, userId uuid.UUID, provider string, created bool)
}

// NatsPublisher implements Publisher on top of an EventSink, normally the
// NATS JetStream publisher. Failures are logged and swallowed.
type NatsPublisher struct {
	sink   EventSink
	logger logger.ILogger
	now    func() time.Time
}

func NewNatsPublisher(sink EventSink, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

func (p *NatsPublisher) PublishHistoryCreated(ctx context.Context, userId, historyId uuid.UUID, mode string) {
	p.publish(ctx, HistoryCreated, map[string]interface{}{
		"user_id":    userId,
		"history_id": historyId,
		"type":       mode,
	})
}

func (p *NatsPublisher) PublishHistoryDeleted(ctx context.Context, userId, historyId uuid.UUID) {
	p.publish(ctx, HistoryDeleted, map[string]interface{}{
		"user_id":    userId,
		"history_id": historyId,
	})
}

func (p *NatsPublisher) PublishHistoryCleared(ctx context.Context, userId uuid.UUID, deleted int64) {
	p.publish(ctx, HistoryCleared, map[string]interface{}{
		"user_id": userId,
		"deleted": deleted,
	})
}

func (p *NatsPublisher) PublishUserSignedIn(ctx context.Context, userId uuid.UUID, provider string, created bool) {
	p.publish(ctx, UserSignedIn, map[string]interface{}{
		"user_id":  userId,
		"provider": provider,
		"created":  created,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p == nil || p.sink == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: p.now(),
	}

	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}
