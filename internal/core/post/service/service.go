package postapp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"snapgram/internal/core/apperr"
	commentEntity "snapgram/internal/core/comment"
	"snapgram/internal/core/outbox"
	postEntity "snapgram/internal/core/post"
	mediaPort "snapgram/internal/ports/media"
	outboxPort "snapgram/internal/ports/outbox"
	postPort "snapgram/internal/ports/post"
	userPort "snapgram/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const postFolder = "posts"

type PostService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	Images         mediaPort.ImageStore
	Events         outboxPort.Recorder
	Logger         *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	images mediaPort.ImageStore,
	events outboxPort.Recorder,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		Images:         images,
		Events:         events,
		Logger:         logger,
	}
}

// CreatePost stores the optimized image and then the post pointing at it.
func (s *PostService) CreatePost(ctx context.Context, authorID string, image io.Reader, caption string) (*postPort.PostDTO, error) {
	if image == nil {
		return nil, apperr.New(apperr.ErrInvalidArgument, "Image is required")
	}

	author, err := s.UserRepository.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	url, err := s.Images.StoreImage(ctx, image, postFolder)
	if err != nil {
		return nil, fmt.Errorf("store post image: %w", err)
	}

	created, err := s.PostRepository.Create(ctx, &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		Image:    url,
		Caption:  caption,
		AuthorID: author.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.Logger.Info("✅ Created post", zap.String("postID", created.ID.String()), zap.String("authorID", authorID))
	s.Events.Record(ctx, outbox.PostCreated, outboxPort.PostPayload{PostID: created.ID.String(), AuthorID: authorID})
	return toPostDTO(created), nil
}

// ListPosts every post, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return toPostDTOs(posts), nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID string) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindByAuthorID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return toPostDTOs(posts), nil
}

// LikePost adds actorID to the liker set; liking twice changes nothing.
func (s *PostService) LikePost(ctx context.Context, actorID, postID string) error {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.PostRepository.AddLike(ctx, postID, actorID); err != nil {
		return fmt.Errorf("like post: %w", err)
	}

	s.Events.Record(ctx, outbox.PostLiked, outboxPort.PostPayload{PostID: postID, AuthorID: p.AuthorID.String(), ActorID: actorID})
	return nil
}

func (s *PostService) DislikePost(ctx context.Context, actorID, postID string) error {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return err
	}
	if err := s.PostRepository.RemoveLike(ctx, postID, actorID); err != nil {
		return fmt.Errorf("dislike post: %w", err)
	}
	return nil
}

func (s *PostService) AddComment(ctx context.Context, actorID, postID, text string) (*postPort.CommentDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.ErrInvalidArgument, "Text is required")
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	c, err := s.PostRepository.AddComment(ctx, &commentEntity.Comment{
		ID:       uuid.Must(uuid.NewV4()),
		Text:     text,
		AuthorID: uuid.FromStringOrNil(actorID),
		PostID:   p.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.Events.Record(ctx, outbox.PostCommented, outboxPort.PostPayload{PostID: postID, AuthorID: p.AuthorID.String(), ActorID: actorID})
	return toCommentDTO(c), nil
}

// ListComments the post's comments, newest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]*postPort.CommentDTO, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.PostRepository.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	dtos := make([]*postPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, toCommentDTO(c))
	}
	return dtos, nil
}

// DeletePost only the author may delete; comments, likes and bookmarks go with the post.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID.String() != actorID {
		return apperr.New(apperr.ErrForbidden, "Unauthorized")
	}

	if err := s.PostRepository.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.Logger.Info("post deleted", zap.String("postID", postID), zap.String("authorID", actorID))
	return nil
}

// ToggleBookmark saves or unsaves the post for actorID. Returns true when it is saved afterwards.
func (s *PostService) ToggleBookmark(ctx context.Context, actorID, postID string) (bool, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return false, err
	}
	saved, err := s.UserRepository.ToggleBookmark(ctx, actorID, postID)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	return saved, nil
}

func toPostDTOs(posts []*postEntity.Post) []*postPort.PostDTO {
	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, toPostDTO(p))
	}
	return dtos
}

func toPostDTO(p *postEntity.Post) *postPort.PostDTO {
	dto := &postPort.PostDTO{
		ID:        p.ID.String(),
		Image:     p.Image,
		Caption:   p.Caption,
		Author:    userPort.Summary(&p.Author),
		Likes:     make([]string, 0, len(p.Likes)),
		Comments:  make([]*postPort.CommentDTO, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	for _, l := range p.Likes {
		dto.Likes = append(dto.Likes, l.UserID.String())
	}
	for i := range p.Comments {
		dto.Comments = append(dto.Comments, toCommentDTO(&p.Comments[i]))
	}
	return dto
}

func toCommentDTO(c *commentEntity.Comment) *postPort.CommentDTO {
	return &postPort.CommentDTO{
		ID:        c.ID.String(),
		Text:      c.Text,
		PostID:    c.PostID.String(),
		Author:    userPort.Summary(&c.Author),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
