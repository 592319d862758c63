package database

import (
	"context"

	"snapgram/internal/core/follower"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// FollowerRepositoryDatabase FollowerRepository backed by gorm
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

func (repo *FollowerRepositoryDatabase) Toggle(ctx context.Context, followerID, followeeID string) (bool, error) {
	following := false
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND user_id = ?", followerID, followeeID).Delete(&follower.Follower{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		edge := &follower.Follower{
			ID:         uuid.Must(uuid.NewV4()),
			UserID:     uuid.FromStringOrNil(followeeID),
			FollowerID: uuid.FromStringOrNil(followerID),
		}
		if err := tx.Create(edge).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

func (repo *FollowerRepositoryDatabase) GetFollowersByUserID(ctx context.Context, userID string) ([]*follower.Follower, error) {
	var followers []*follower.Follower
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&followers).Error; err != nil {
		return nil, err
	}
	return followers, nil
}

func (repo *FollowerRepositoryDatabase) GetFollowingByUserID(ctx context.Context, followerID string) ([]*follower.Follower, error) {
	var following []*follower.Follower
	if err := repo.db.WithContext(ctx).Where("follower_id = ?", followerID).Order("created_at ASC").Find(&following).Error; err != nil {
		return nil, err
	}
	return following, nil
}
