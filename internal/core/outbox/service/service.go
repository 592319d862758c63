package outboxapp

import (
	"context"
	"encoding/json"

	"snapgram/internal/core/outbox"
	outboxPort "snapgram/internal/ports/outbox"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Recorder stores events in the outbox table for the worker to publish.
type Recorder struct {
	OutboxRepository outboxPort.OutboxRepository
	Logger           *zap.Logger
}

func NewRecorder(repo outboxPort.OutboxRepository, logger *zap.Logger) *Recorder {
	return &Recorder{OutboxRepository: repo, Logger: logger}
}

// Record never fails the caller: the mutation already happened, a lost event is only logged.
func (r *Recorder) Record(ctx context.Context, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		r.Logger.Warn("⚠️ could not encode outbox event", zap.String("type", eventType), zap.Error(err))
		return
	}

	event := &outbox.Event{
		ID:      uuid.Must(uuid.NewV4()),
		Type:    eventType,
		Payload: string(body),
		Status:  outbox.StatusPending,
	}
	if _, err := r.OutboxRepository.Create(ctx, event); err != nil {
		r.Logger.Warn("⚠️ could not add event to outbox", zap.String("type", eventType), zap.Error(err))
		return
	}
	r.Logger.Debug("event recorded", zap.String("type", eventType), zap.String("id", event.ID.String()))
}
