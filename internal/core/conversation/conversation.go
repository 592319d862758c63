package conversation

import (
	"time"

	"github.com/gofrs/uuid"
)

// Conversation between exactly two users. ParticipantA is always the lexically smaller id,
// so the unique index holds one row per unordered pair.
type Conversation struct {
	ID           uuid.UUID `gorm:"primary_key;type:char(36)"`
	ParticipantA uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_conversation_pair"`
	ParticipantB uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_conversation_pair"`
	MessageCount int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Message struct {
	ID             uuid.UUID `gorm:"primary_key;type:char(36)"`
	ConversationID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_conversation_seq"`
	Seq            int64     `gorm:"not null;uniqueIndex:uniq_conversation_seq"`
	SenderID       uuid.UUID `gorm:"type:char(36);not null"`
	ReceiverID     uuid.UUID `gorm:"type:char(36);not null"`
	Body           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Pair orders two participant ids canonically.
func Pair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}
