package server

import (
	"scribe/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// FollowAuthor handles POST /api/profile/:username/follow
// @Summary Follow author
// @Description Following yourself or an author you already follow changes nothing.
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Author username"
// @Success 303 {object} object{following=bool} "Location points to the profile"
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/follow [post]
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	author, err := s.followService.Follow(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	noStore(c)
	return seeOther(c, profileURL(author.Username), fiber.Map{
		"author":    author,
		"following": author.ID != userID,
	})
}

// UnfollowAuthor handles POST /api/profile/:username/unfollow
// @Summary Unfollow author
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Author username"
// @Success 303 {object} object{following=bool} "Location points to the profile"
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/unfollow [post]
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	noStore(c)
	return seeOther(c, profileURL(author.Username), fiber.Map{
		"author":    author,
		"following": false,
	})
}
