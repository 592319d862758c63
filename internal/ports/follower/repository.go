package follower

import (
	"context"

	"snapgram/internal/core/follower"
)

// FollowerRepository port for follow edges.
type FollowerRepository interface {
	// Toggle deletes the edge followerID -> followeeID when present and creates it otherwise,
	// inside one transaction. It reports whether the edge exists afterwards.
	Toggle(ctx context.Context, followerID, followeeID string) (bool, error)
	GetFollowersByUserID(ctx context.Context, userID string) ([]*follower.Follower, error)
	GetFollowingByUserID(ctx context.Context, followerID string) ([]*follower.Follower, error)
}
