package user

import (
	"context"
	"io"

	"snapgram/internal/core/user"
)

// UserRepository persistence port for identities and their bookmarks.
// Lookups that find nothing return an error wrapping apperr.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	ListExcept(ctx context.Context, id string) ([]*user.User, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*user.User, error)
	PostIDs(ctx context.Context, id string) ([]string, error)
	BookmarkIDs(ctx context.Context, id string) ([]string, error)
	ToggleBookmark(ctx context.Context, userID, postID string) (bool, error)
}

// ProfileChanges nil fields are left untouched.
type ProfileChanges struct {
	Bio            *string
	Gender         *string
	ProfilePicture *string
}

func (c ProfileChanges) Empty() bool {
	return c.Bio == nil && c.Gender == nil && c.ProfilePicture == nil
}

// DTOs for the use cases

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	User      *UserDTO `json:"user"`
}

type UserDTO struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Bio            string   `json:"bio"`
	Gender         string   `json:"gender,omitempty"`
	ProfilePicture string   `json:"profilePicture"`
	Posts          []string `json:"posts"`
	Followers      []string `json:"followers"`
	Following      []string `json:"following"`
	Bookmarks      []string `json:"bookmarks"`
	CreatedAt      string   `json:"createdAt"`
}

// UserSummaryDTO is what posts, comments and suggestions embed about a user.
type UserSummaryDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio,omitempty"`
}

func Summary(u *user.User) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{
		ID:             u.ID.String(),
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}

// EditProfileInput nil fields keep their current value.
type EditProfileInput struct {
	Bio            *string
	Gender         *string
	ProfilePicture io.Reader
}
