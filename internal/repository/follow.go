package repository

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// Create inserts the (user, author) pair unless it exists and reports whether a row was added.
	Create(ctx context.Context, userID, authorID uint) (bool, error)
	Delete(ctx context.Context, userID, authorID uint) (bool, error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	ListAuthorIDs(ctx context.Context, userID uint) ([]uint, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if res.Error != nil {
		return false, translate(res.Error, "Follow", authorID)
	}
	if res.RowsAffected > 0 {
		r.log.LogCreate(ctx, map[string]any{"user_id": userID, "author_id": authorID})
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]any{"user_id": userID, "author_id": authorID})
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

func (r *followRepository) ListAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id").
		Pluck("author_id", &ids).Error
	return ids, err
}
