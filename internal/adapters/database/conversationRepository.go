package database

import (
	"context"
	"errors"

	"snapgram/internal/core/conversation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepositoryDatabase ConversationRepository backed by gorm
type ConversationRepositoryDatabase struct {
	db *gorm.DB
}

func NewConversationRepositoryDatabase(db *gorm.DB) *ConversationRepositoryDatabase {
	return &ConversationRepositoryDatabase{db: db}
}

func (repo *ConversationRepositoryDatabase) AppendMessage(ctx context.Context, msg *conversation.Message) (*conversation.Message, error) {
	a, b := conversation.Pair(msg.SenderID, msg.ReceiverID)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// create the conversation unless the pair already has one
		fresh := &conversation.Conversation{
			ID:           uuid.Must(uuid.NewV4()),
			ParticipantA: a,
			ParticipantB: b,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
			return err
		}

		var conv conversation.Conversation
		if err := tx.Where("participant_a = ? AND participant_b = ?", a, b).First(&conv).Error; err != nil {
			return err
		}

		// the row lock taken here orders concurrent senders of the same pair
		if err := tx.Model(&conversation.Conversation{}).
			Where("id = ?", conv.ID).
			UpdateColumn("message_count", gorm.Expr("message_count + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Select("message_count").Where("id = ?", conv.ID).First(&conv).Error; err != nil {
			return err
		}

		if msg.ID == uuid.Nil {
			msg.ID = uuid.Must(uuid.NewV4())
		}
		msg.ConversationID = conv.ID
		msg.Seq = conv.MessageCount
		return tx.Create(msg).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (repo *ConversationRepositoryDatabase) ListMessages(ctx context.Context, x, y string) ([]*conversation.Message, error) {
	a, b := conversation.Pair(uuid.FromStringOrNil(x), uuid.FromStringOrNil(y))

	var conv conversation.Conversation
	err := repo.db.WithContext(ctx).Where("participant_a = ? AND participant_b = ?", a, b).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*conversation.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	messages := []*conversation.Message{}
	if err := repo.db.WithContext(ctx).Where("conversation_id = ?", conv.ID).Order("seq ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
