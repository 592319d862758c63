package database

import (
	"context"

	"snapgram/internal/core/comment"
	"snapgram/internal/core/post"
	"snapgram/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase PostRepository backed by gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

// withRelations loads everything a PostDTO shows.
func (repo *PostRepositoryDatabase) withRelations(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments.Author")
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, p.ID.String())
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.withRelations(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "Post not found!")
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.withRelations(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByAuthorID(ctx context.Context, authorID string) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.withRelations(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AddLike is a no-op when the user already likes the post.
func (repo *PostRepositoryDatabase) AddLike(ctx context.Context, postID, userID string) error {
	like := &post.Like{
		PostID: uuid.FromStringOrNil(postID),
		UserID: uuid.FromStringOrNil(userID),
	}
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

func (repo *PostRepositoryDatabase) RemoveLike(ctx context.Context, postID, userID string) error {
	return repo.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&post.Like{}).Error
}

func (repo *PostRepositoryDatabase) AddComment(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, err
	}
	var created comment.Comment
	if err := repo.db.WithContext(ctx).Preload("Author").Where("id = ?", c.ID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (repo *PostRepositoryDatabase) ListComments(ctx context.Context, postID string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&user.Bookmark{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&post.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "Post not found!")
		}
		return nil
	})
}
