package comment

import (
	"time"

	"snapgram/internal/core/user"

	"github.com/gofrs/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uuid.UUID `gorm:"type:char(36);not null"`
	Author    user.User `gorm:"foreignKey:AuthorID"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
