package service

import (
	"context"
	"strings"

	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	Text     string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment adds a comment by in.AuthorID to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "CreateComment",
		observability.IDAttr("user.id", in.AuthorID), observability.IDAttr("post.id", in.PostID))
	comment, err := s.createComment(ctx, in)
	observability.EndSpan(span, err)
	return comment, err
}

func (s *CommentService) createComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewFieldValidationError("text", requiredField)
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil
}
