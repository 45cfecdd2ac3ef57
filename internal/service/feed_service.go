package service

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/pagination"
	"scribe/internal/repository"
)

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 10

type PostPage = pagination.Page[models.Post]

// GroupFeed is a group and one page of its posts.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Page  *PostPage     `json:"page"`
}

// ProfileFeed is an author, one page of their posts, and whether the viewer
// follows them. Following is nil for anonymous viewers.
type ProfileFeed struct {
	Author    *models.User `json:"author"`
	PostCount int64        `json:"post_count"`
	Following *bool        `json:"following,omitempty"`
	Page      *PostPage    `json:"page"`
}

// PostDetail is a post with its comments, newest first.
type PostDetail struct {
	Post            *models.Post     `json:"post"`
	Comments        []models.Comment `json:"comments"`
	AuthorPostCount int64            `json:"author_post_count"`
}

type FeedService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	pageSize    int
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		pageSize:    pageSize,
	}
}

func (s *FeedService) HomeFeed(ctx context.Context, page string) (*PostPage, error) {
	return pagination.Paginate(ctx, s.postRepo.All(), s.pageSize, page)
}

// GroupFeed returns NOT_FOUND for an unknown slug; a group without posts yields an empty page.
func (s *FeedService) GroupFeed(ctx context.Context, slug, page string) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p, err := pagination.Paginate(ctx, s.postRepo.ByGroup(group.ID), s.pageSize, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: p}, nil
}

func (s *FeedService) ProfileFeed(ctx context.Context, viewerID uint, username, page string) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p, err := pagination.Paginate(ctx, s.postRepo.ByAuthor(author.ID), s.pageSize, page)
	if err != nil {
		return nil, err
	}

	feed := &ProfileFeed{Author: author, PostCount: p.Total, Page: p}
	if viewerID != 0 {
		following, err := s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
		feed.Following = &following
	}
	return feed, nil
}

// FollowedFeed returns posts by authors the viewer follows.
func (s *FeedService) FollowedFeed(ctx context.Context, viewerID uint, page string) (*PostPage, error) {
	if viewerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return pagination.Paginate(ctx, s.postRepo.FollowedBy(viewerID), s.pageSize, page)
}

func (s *FeedService) PostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

// Groups lists every group by title.
func (s *FeedService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}
