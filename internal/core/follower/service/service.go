package followerapp

import (
	"context"
	"fmt"

	"snapgram/internal/core/apperr"
	"snapgram/internal/core/outbox"
	followerPort "snapgram/internal/ports/follower"
	outboxPort "snapgram/internal/ports/outbox"
	userPort "snapgram/internal/ports/user"

	"go.uber.org/zap"
)

// FollowerService the relationship engine
type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Events             outboxPort.Recorder
	Logger             *zap.Logger
}

func NewFollowerService(
	repo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	events outboxPort.Recorder,
	logger *zap.Logger,
) *FollowerService {
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     userRepo,
		Events:             events,
		Logger:             logger,
	}
}

// ToggleFollow follows targetID when actorID does not follow it yet and unfollows it otherwise.
// It reports whether actorID follows targetID afterwards.
// The self check runs on the resolved ids, so two spellings of one uuid count as the same user.
func (s *FollowerService) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error) {
	actor, err := s.UserRepository.FindByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	target, err := s.UserRepository.FindByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	if actor.ID == target.ID {
		s.Logger.Warn("⚠️ Cannot follow yourself", zap.String("userID", actor.ID.String()))
		return false, apperr.New(apperr.ErrInvalidArgument, "You cannot follow/unfollow yourself!")
	}

	following, err := s.FollowerRepository.Toggle(ctx, actor.ID.String(), target.ID.String())
	if err != nil {
		return false, fmt.Errorf("toggle follow: %w", err)
	}

	eventType := outbox.UserUnfollowed
	if following {
		eventType = outbox.UserFollowed
	}
	s.Events.Record(ctx, eventType, outboxPort.FollowPayload{ActorID: actor.ID.String(), TargetID: target.ID.String()})

	return following, nil
}

// Followers ids of the users following userID.
func (s *FollowerService) Followers(ctx context.Context, userID string) ([]string, error) {
	if _, err := s.UserRepository.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	followers, err := s.FollowerRepository.GetFollowersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get followers: %w", err)
	}

	ids := make([]string, 0, len(followers))
	for _, f := range followers {
		ids = append(ids, f.FollowerID.String())
	}
	return ids, nil
}

// Following ids of the users userID follows.
func (s *FollowerService) Following(ctx context.Context, userID string) ([]string, error) {
	if _, err := s.UserRepository.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	following, err := s.FollowerRepository.GetFollowingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get following: %w", err)
	}

	ids := make([]string, 0, len(following))
	for _, f := range following {
		ids = append(ids, f.UserID.String())
	}
	return ids, nil
}
