package repository

import (
	"context"

	"scribe/internal/cache"
	"scribe/internal/models"
	"scribe/internal/observability"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db, log: observability.NewRepoLogger("groups")}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return translate(err, "Group", group.Slug)
	}
	r.log.LogCreate(ctx, map[string]any{"group_id": group.ID, "slug": group.Slug})
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err, "Group", id)
	}
	return &group, nil
}

// GetBySlug is served from the Redis entity cache when one is configured.
func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, "group", cache.GroupKey(slug), &group, cache.GroupTTL, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	})
	if err != nil {
		return nil, translate(err, "Group", slug)
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	var previous models.Group
	if err := r.db.WithContext(ctx).First(&previous, group.ID).Error; err != nil {
		return translate(err, "Group", group.ID)
	}
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return translate(err, "Group", group.Slug)
	}
	cache.InvalidateGroup(ctx, previous.Slug)
	cache.InvalidateGroup(ctx, group.Slug)
	r.log.LogUpdate(ctx, map[string]any{"group_id": group.ID})
	return nil
}

// Delete removes a group. Its posts are kept with their group cleared.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	var group models.Group
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&group, id).Error; err != nil {
			return translate(err, "Group", id)
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, group.Slug)
	r.log.LogDelete(ctx, map[string]any{"group_id": id, "slug": group.Slug})
	return nil
}
