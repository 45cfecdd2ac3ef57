package repository

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "Comment", comment.PostID)
	}
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

// ListByPost returns a post's comments newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order(newestFirst).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
