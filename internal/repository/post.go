package repository

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	UpdateFields(ctx context.Context, id uint, fields PostFields) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)

	All() pagination.Source[models.Post]
	ByAuthor(authorID uint) pagination.Source[models.Post]
	ByGroup(groupID uint) pagination.Source[models.Post]
	FollowedBy(userID uint) pagination.Source[models.Post]
}

// PostFields is the mutable part of a post. Nil members are left unchanged;
// SetGroup with a nil GroupID clears the group.
type PostFields struct {
	Text     *string
	SetGroup bool
	GroupID  *uint
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "Post", post.ID)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

// UpdateFields applies text and group changes in a single UPDATE.
func (r *postRepository) UpdateFields(ctx context.Context, id uint, fields PostFields) error {
	updates := map[string]any{}
	if fields.Text != nil {
		updates["text"] = *fields.Text
	}
	if fields.SetGroup {
		updates["group_id"] = fields.GroupID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogUpdate(ctx, map[string]any{"post_id": id})
	return nil
}

// Delete removes a post and its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.ByAuthor(authorID).Count(ctx)
}

func (r *postRepository) All() pagination.Source[models.Post] {
	return &postSource{db: r.db, name: "all"}
}

func (r *postRepository) ByAuthor(authorID uint) pagination.Source[models.Post] {
	return &postSource{db: r.db, name: "by_author", scope: func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id = ?", authorID)
	}}
}

func (r *postRepository) ByGroup(groupID uint) pagination.Source[models.Post] {
	return &postSource{db: r.db, name: "by_group", scope: func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.group_id = ?", groupID)
	}}
}

// FollowedBy selects posts whose author userID follows, as one inner join.
func (r *postRepository) FollowedBy(userID uint) pagination.Source[models.Post] {
	return &postSource{db: r.db, name: "followed", scope: func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", userID)
	}}
}

// postSource is a lazily evaluated, newest-first post query.
type postSource struct {
	db    *gorm.DB
	name  string
	scope func(*gorm.DB) *gorm.DB
}

func (s *postSource) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if s.scope != nil {
		q = s.scope(q)
	}
	return q
}

func (s *postSource) Count(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("count_"+s.name, "posts")()

	var n int64
	err := s.query(ctx).Count(&n).Error
	return n, err
}

func (s *postSource) Fetch(ctx context.Context, offset, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("fetch_"+s.name, "posts")()

	var posts []models.Post
	err := s.query(ctx).
		Select("posts.*").
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
