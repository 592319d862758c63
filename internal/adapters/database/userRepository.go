package database

import (
	"context"

	"snapgram/internal/core/post"
	"snapgram/internal/core/user"
	userPort "snapgram/internal/ports/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase UserRepository backed by gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, user *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, "User not found!")
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "User not found!")
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) ListExcept(ctx context.Context, id string) ([]*user.User, error) {
	var users []*user.User
	if err := repo.db.WithContext(ctx).Where("id <> ?", id).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) UpdateProfile(ctx context.Context, id string, changes userPort.ProfileChanges) (*user.User, error) {
	u, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return u, nil
	}

	updates := map[string]interface{}{}
	if changes.Bio != nil {
		updates["bio"] = *changes.Bio
	}
	if changes.Gender != nil {
		updates["gender"] = *changes.Gender
	}
	if changes.ProfilePicture != nil {
		updates["profile_picture"] = *changes.ProfilePicture
	}

	if err := repo.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

// PostIDs ids of the user's posts, newest first
func (repo *UserRepositoryDatabase) PostIDs(ctx context.Context, id string) ([]string, error) {
	ids := []string{}
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).
		Where("author_id = ?", id).
		Order("created_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (repo *UserRepositoryDatabase) BookmarkIDs(ctx context.Context, id string) ([]string, error) {
	ids := []string{}
	if err := repo.db.WithContext(ctx).Model(&user.Bookmark{}).
		Where("user_id = ?", id).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleBookmark removes the bookmark when present, adds it otherwise. Returns true when the post is saved afterwards.
func (repo *UserRepositoryDatabase) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	saved := false
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&user.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		b := &user.Bookmark{
			UserID: uuid.FromStringOrNil(userID),
			PostID: uuid.FromStringOrNil(postID),
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}
