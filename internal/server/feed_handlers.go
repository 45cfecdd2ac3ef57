package server

import (
	"scribe/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary Home feed
// @Description All posts, newest first, one page at a time
// @Tags posts
// @Produce json
// @Param page query string false "Page number"
// @Success 200 {object} service.PostPage
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.feedService.HomeFeed(c.UserContext(), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
// @Summary Post detail
// @Description A post with its comments, newest first
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.feedService.PostDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// GetGroups handles GET /api/groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups [get]
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.feedService.Groups(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:slug
// @Summary Group feed
// @Description A group and one page of its posts
// @Tags groups
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query string false "Page number"
// @Success 200 {object} service.GroupFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug} [get]
func (s *Server) GetGroup(c *fiber.Ctx) error {
	feed, err := s.feedService.GroupFeed(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetProfile handles GET /api/profile/:username
// @Summary Profile feed
// @Description An author, their posts, and whether the caller follows them
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Param page query string false "Page number"
// @Success 200 {object} service.ProfileFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	viewerID := middleware.UserID(c)
	feed, err := s.feedService.ProfileFeed(c.UserContext(), viewerID, c.Params("username"), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	if viewerID != 0 {
		noStore(c)
	}
	return c.JSON(feed)
}

// GetFollowedFeed handles GET /api/follow
// @Summary Followed authors feed
// @Description Posts by every author the caller follows
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param page query string false "Page number"
// @Success 200 {object} service.PostPage
// @Failure 302 {string} string "Redirect to login"
// @Router /follow [get]
func (s *Server) GetFollowedFeed(c *fiber.Ctx) error {
	noStore(c)
	page, err := s.feedService.FollowedFeed(c.UserContext(), middleware.UserID(c), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
