package follower

import (
	"time"

	"github.com/gofrs/uuid"
)

// Follower is one follow edge: FollowerID follows UserID.
// The same row is the entry in the follower's following set and in the followee's followers set.
type Follower struct {
	ID         uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_pair;index"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_pair"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
