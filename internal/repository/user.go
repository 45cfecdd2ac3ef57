package repository

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetAdmin(ctx context.Context, id uint, admin bool) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "User", user.Username)
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) SetAdmin(ctx context.Context, id uint, admin bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_admin", admin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// Delete removes a user together with their follows, comments, posts and the
// comments on those posts.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, id).Error; err != nil {
			return translate(err, "User", id)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		authored := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR post_id IN (?)", id, authored).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}
