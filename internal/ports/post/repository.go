package post

import (
	"context"

	"snapgram/internal/core/comment"
	"snapgram/internal/core/post"
	userPort "snapgram/internal/ports/user"
)

// PostRepository port for posts, their likes and comments.
// Posts are returned with Author, Likes and Comments (with their Author) loaded.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	FindByAuthorID(ctx context.Context, authorID string) ([]*post.Post, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*comment.Comment, error)
	// Delete removes the post together with its comments, likes and bookmarks.
	Delete(ctx context.Context, id string) error
}

// DTOs for the use cases

type PostDTO struct {
	ID        string                   `json:"id"`
	Image     string                   `json:"image"`
	Caption   string                   `json:"caption"`
	Author    *userPort.UserSummaryDTO `json:"author,omitempty"`
	Likes     []string                 `json:"likes"`
	Comments  []*CommentDTO            `json:"comments"`
	CreatedAt string                   `json:"createdAt"`
}

type CommentDTO struct {
	ID        string                   `json:"id"`
	Text      string                   `json:"text"`
	PostID    string                   `json:"post"`
	Author    *userPort.UserSummaryDTO `json:"author,omitempty"`
	CreatedAt string                   `json:"createdAt"`
}
