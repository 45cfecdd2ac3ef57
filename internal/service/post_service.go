// Package service holds the feed composer and mutation handlers that sit
// between HTTP handlers and repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"
)

const requiredField = "This field is required."

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStore
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *UploadImageInput
}

// EditPostInput changes a post's text and/or group. Text nil leaves the text
// unchanged; SetGroup with a nil GroupID clears the group.
type EditPostInput struct {
	UserID   uint
	PostID   uint
	Text     *string
	SetGroup bool
	GroupID  *uint
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, images ImageStore) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "CreatePost",
		observability.IDAttr("user.id", in.AuthorID))
	post, err := s.createPost(ctx, in)
	observability.EndSpan(span, err)
	return post, err
}

func (s *PostService) createPost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewFieldValidationError("text", requiredField)
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}

	if in.Image != nil {
		if s.images == nil {
			return nil, models.NewFieldValidationError("image", "Image uploads are not enabled")
		}
		ref, err := s.images.Validate(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = ref
	}

	// The file is written only once the row exists; a failed write removes the row.
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if _, err := s.images.Store(ctx, *in.Image); err != nil {
			if delErr := s.postRepo.Delete(ctx, post.ID); delErr != nil {
				middleware.Logger.ErrorContext(ctx, "failed to remove post after image write error",
					slog.Uint64("post_id", uint64(post.ID)), slog.String("error", delErr.Error()))
			}
			return nil, err
		}
	}
	observability.PostsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Uint64("author_id", uint64(post.AuthorID)),
	)

	return s.postRepo.GetByID(ctx, post.ID)
}

// EditPost applies in to a post owned by in.UserID. Checks run in order:
// the post must exist, the caller must be its author, then the input must be valid.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "EditPost",
		observability.IDAttr("user.id", in.UserID), observability.IDAttr("post.id", in.PostID))
	post, err := s.editPost(ctx, in)
	observability.EndSpan(span, err)
	return post, err
}

func (s *PostService) editPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if in.UserID == 0 || post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return nil, models.NewFieldValidationError("text", requiredField)
	}
	if in.SetGroup {
		if err := s.checkGroup(ctx, in.GroupID); err != nil {
			return nil, err
		}
	}

	fields := repository.PostFields{Text: in.Text, SetGroup: in.SetGroup, GroupID: in.GroupID}
	if err := s.postRepo.UpdateFields(ctx, post.ID, fields); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.IsNotFound(err) {
			return models.NewFieldValidationError("group", "Select a valid choice.")
		}
		return err
	}
	return nil
}
