package database

import (
	"snapgram/internal/core/comment"
	"snapgram/internal/core/conversation"
	"snapgram/internal/core/follower"
	"snapgram/internal/core/outbox"
	"snapgram/internal/core/post"
	"snapgram/internal/core/user"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&user.Bookmark{},
		&follower.Follower{},
		&post.Post{},
		&post.Like{},
		&comment.Comment{},
		&conversation.Conversation{},
		&conversation.Message{},
		&outbox.Event{},
	)
}
