package outbox

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Event types recorded by the use cases.
const (
	UserFollowed   = "user.followed"
	UserUnfollowed = "user.unfollowed"
	PostCreated    = "post.created"
	PostLiked      = "post.liked"
	PostCommented  = "post.commented"
	MessageSent    = "message.sent"
)

// Event is a domain event waiting to be published to the broker.
type Event struct {
	ID          uuid.UUID  `gorm:"primary_key;type:char(36)"`
	Type        string     `gorm:"type:varchar(64);not null"`
	Payload     string     `gorm:"type:text;not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"` // pending, done, failed
	Attempts    int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	ProcessedAt *time.Time `gorm:"index"`
}
