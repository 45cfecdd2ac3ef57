package service

import (
	"context"
	"errors"

	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"

	"gorm.io/gorm"
)

type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowService {
	return &FollowService{userRepo: userRepo, followRepo: followRepo}
}

// Follow makes userID follow the author named username and returns that author.
// Following yourself is ignored and following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Follow", observability.IDAttr("user.id", userID))
	author, err := s.follow(ctx, userID, username)
	observability.EndSpan(span, err)
	return author, err
}

func (s *FollowService) follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == userID {
		observability.FollowEvents.WithLabelValues("follow", "self").Inc()
		return author, nil
	}

	inserted, err := s.followRepo.Create(ctx, userID, author.ID)
	switch {
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		// A concurrent request inserted the same pair first.
		observability.FollowConflictsRecovered.Inc()
		observability.FollowEvents.WithLabelValues("follow", "existing").Inc()
	case err != nil:
		return nil, err
	case inserted:
		observability.FollowEvents.WithLabelValues("follow", "created").Inc()
	default:
		observability.FollowEvents.WithLabelValues("follow", "existing").Inc()
	}
	return author, nil
}

// Unfollow removes the follow of username by userID if present and returns the author.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Unfollow", observability.IDAttr("user.id", userID))
	author, err := s.unfollow(ctx, userID, username)
	observability.EndSpan(span, err)
	return author, err
}

func (s *FollowService) unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Delete(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	outcome := "absent"
	if removed {
		outcome = "removed"
	}
	observability.FollowEvents.WithLabelValues("unfollow", outcome).Inc()
	return author, nil
}
