package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snapgram/internal/core/apperr"
	"snapgram/internal/core/session"
	userEntity "snapgram/internal/core/user"
	followerPort "snapgram/internal/ports/follower"
	mediaPort "snapgram/internal/ports/media"
	userPort "snapgram/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const profileFolder = "profiles"

var errBadCredentials = apperr.New(apperr.ErrUnauthorized, "Incorrect email or password!")

// UserService identity use cases
type UserService struct {
	UserRepository     userPort.UserRepository
	FollowerRepository followerPort.FollowerRepository
	Images             mediaPort.ImageStore
	Sessions           *session.Manager
	Logger             *zap.Logger
}

func NewUserService(
	repo userPort.UserRepository,
	followerRepo followerPort.FollowerRepository,
	images mediaPort.ImageStore,
	sessions *session.Manager,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		UserRepository:     repo,
		FollowerRepository: followerRepo,
		Images:             images,
		Sessions:           sessions,
		Logger:             logger,
	}
}

// RegisterUser creates an identity with a bcrypt-hashed password.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*userPort.UserDTO, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.ErrInvalidArgument, "All fields are required!")
	}

	_, err := s.UserRepository.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.New(apperr.ErrConflict, "User already exists!")
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.Info("user registered", zap.String("userID", u.ID.String()))
	return s.profile(ctx, u)
}

// LoginUser answers the same error for an unknown email and a wrong password.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrInvalidArgument, "All fields are required!")
	}

	u, err := s.UserRepository.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	token, expiresAt, err := s.Sessions.Issue(u.ID.String())
	if err != nil {
		return nil, err
	}

	dto, err := s.profile(ctx, u)
	if err != nil {
		return nil, err
	}
	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      dto,
	}, nil
}

// LogoutUser revokes the token when there is one.
func (s *UserService) LogoutUser(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u)
}

// EditProfile uploads the new picture first so a failed upload changes nothing.
func (s *UserService) EditProfile(ctx context.Context, id string, in userPort.EditProfileInput) (*userPort.UserDTO, error) {
	changes := userPort.ProfileChanges{Bio: in.Bio, Gender: in.Gender}

	if in.ProfilePicture != nil {
		url, err := s.Images.StoreImage(ctx, in.ProfilePicture, profileFolder)
		if err != nil {
			return nil, fmt.Errorf("store profile picture: %w", err)
		}
		changes.ProfilePicture = &url
	}

	u, err := s.UserRepository.UpdateProfile(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u)
}

// ListSuggested every other user, as summaries.
func (s *UserService) ListSuggested(ctx context.Context, id string) ([]*userPort.UserSummaryDTO, error) {
	users, err := s.UserRepository.ListExcept(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	summaries := make([]*userPort.UserSummaryDTO, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, userPort.Summary(u))
	}
	return summaries, nil
}

// profile builds the full DTO including the derived id lists.
func (s *UserService) profile(ctx context.Context, u *userEntity.User) (*userPort.UserDTO, error) {
	id := u.ID.String()

	posts, err := s.UserRepository.PostIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load post ids: %w", err)
	}
	bookmarks, err := s.UserRepository.BookmarkIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load bookmark ids: %w", err)
	}
	followers, err := s.FollowerRepository.GetFollowersByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load followers: %w", err)
	}
	following, err := s.FollowerRepository.GetFollowingByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}

	dto := &userPort.UserDTO{
		ID:             id,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
		Posts:          posts,
		Bookmarks:      bookmarks,
		Followers:      make([]string, 0, len(followers)),
		Following:      make([]string, 0, len(following)),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
	for _, f := range followers {
		dto.Followers = append(dto.Followers, f.FollowerID.String())
	}
	for _, f := range following {
		dto.Following = append(dto.Following, f.UserID.String())
	}
	return dto, nil
}
