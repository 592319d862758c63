package workers

import (
	"context"
	"time"

	"snapgram/internal/core/outbox"
	"snapgram/internal/metrics"
	outboxPort "snapgram/internal/ports/outbox"

	"go.uber.org/zap"
)

// OutboxWorker publishes recorded domain events to the broker.
type OutboxWorker struct {
	OutboxRepo   outboxPort.OutboxRepository
	Publisher    outboxPort.Publisher
	BatchSize    int
	MaxAttempts  int
	PollInterval time.Duration
	Logger       *zap.Logger
}

func NewOutboxWorker(
	outboxRepo outboxPort.OutboxRepository,
	publisher outboxPort.Publisher,
	batchSize int,
	maxAttempts int,
	logger *zap.Logger,
) *OutboxWorker {
	return &OutboxWorker{
		OutboxRepo:   outboxRepo,
		Publisher:    publisher,
		BatchSize:    batchSize,
		MaxAttempts:  maxAttempts,
		PollInterval: time.Second,
		Logger:       logger,
	}
}

// Run polls the outbox until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 OutboxWorker started")
	for {
		if n := w.ProcessBatch(ctx); n > 0 {
			w.Logger.Debug("outbox batch processed", zap.Int("count", n))
		}

		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Outbox worker stopped")
			return
		case <-time.After(w.PollInterval):
		}
	}
}

// ProcessBatch handles one batch of pending events and returns how many it looked at.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) int {
	pending, err := w.OutboxRepo.GetPending(ctx, int64(w.BatchSize))
	if err != nil {
		w.Logger.Error("❌ Error fetching pending events", zap.Error(err))
		return 0
	}

	for _, event := range pending {
		if ctx.Err() != nil {
			break
		}
		w.process(ctx, event)
	}
	return len(pending)
}

func (w *OutboxWorker) process(ctx context.Context, event *outbox.Event) {
	err := w.Publisher.Publish(ctx, event.Type, []byte(event.Payload))
	if err == nil {
		metrics.OutboxPublished.WithLabelValues("published").Inc()
		if err := w.OutboxRepo.MarkDone(ctx, event.ID); err != nil {
			w.Logger.Warn("⚠️ could not mark event done", zap.String("id", event.ID.String()), zap.Error(err))
		}
		return
	}

	giveUp := event.Attempts+1 >= w.MaxAttempts
	w.Logger.Warn("⚠️ Error publishing event",
		zap.String("id", event.ID.String()),
		zap.String("type", event.Type),
		zap.Int("attempt", event.Attempts+1),
		zap.Bool("giveUp", giveUp),
		zap.Error(err),
	)
	result := "retry"
	if giveUp {
		result = "failed"
	}
	metrics.OutboxPublished.WithLabelValues(result).Inc()

	if err := w.OutboxRepo.MarkAttemptFailed(ctx, event.ID, giveUp); err != nil {
		w.Logger.Warn("⚠️ could not record failed attempt", zap.String("id", event.ID.String()), zap.Error(err))
	}
}
