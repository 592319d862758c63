package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username       string    `gorm:"type:varchar(64);not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password       string    `gorm:"not null"`
	Bio            string    `gorm:"type:varchar(512)"`
	Gender         string    `gorm:"type:varchar(16)"`
	ProfilePicture string    `gorm:"type:varchar(512)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Bookmark a post saved by a user; the composite key keeps it a set.
type Bookmark struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	PostID    uuid.UUID `gorm:"primaryKey;type:char(36);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
