package post

import (
	"time"

	"snapgram/internal/core/comment"
	"snapgram/internal/core/user"

	"github.com/gofrs/uuid"
)

type Post struct {
	ID        uuid.UUID         `gorm:"primary_key;type:char(36)"`
	Image     string            `gorm:"type:varchar(512);not null"`
	Caption   string            `gorm:"type:text"`
	AuthorID  uuid.UUID         `gorm:"type:char(36);not null;index"`
	Author    user.User         `gorm:"foreignKey:AuthorID"`
	Likes     []Like            `gorm:"foreignKey:PostID"`
	Comments  []comment.Comment `gorm:"foreignKey:PostID"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

// Like membership of UserID in the post's liker set.
type Like struct {
	PostID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
