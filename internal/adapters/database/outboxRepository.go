package database

import (
	"context"
	"time"

	"snapgram/internal/core/outbox"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type OutboxRepositoryDatabase struct {
	db *gorm.DB
}

func NewOutboxRepositoryDatabase(db *gorm.DB) *OutboxRepositoryDatabase {
	return &OutboxRepositoryDatabase{db: db}
}

func (repo *OutboxRepositoryDatabase) Create(ctx context.Context, event *outbox.Event) (*outbox.Event, error) {
	if err := repo.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (repo *OutboxRepositoryDatabase) GetPending(ctx context.Context, limit int64) ([]*outbox.Event, error) {
	var events []*outbox.Event
	if err := repo.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(int(limit)).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *OutboxRepositoryDatabase) MarkDone(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return repo.db.WithContext(ctx).Model(&outbox.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": outbox.StatusDone, "processed_at": &now}).Error
}

func (repo *OutboxRepositoryDatabase) MarkAttemptFailed(ctx context.Context, id uuid.UUID, giveUp bool) error {
	updates := map[string]interface{}{"attempts": gorm.Expr("attempts + ?", 1)}
	if giveUp {
		now := time.Now()
		updates["status"] = outbox.StatusFailed
		updates["processed_at"] = &now
	}
	return repo.db.WithContext(ctx).Model(&outbox.Event{}).Where("id = ?", id).Updates(updates).Error
}
