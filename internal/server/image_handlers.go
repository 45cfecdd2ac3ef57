package server

import (
	"regexp"

	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// storedImageName matches the file names ImageService writes.
var storedImageName = regexp.MustCompile(`^[0-9a-f]{64}\.(jpg|png|gif|webp)$`)

// ServeImage handles GET /media/posts/:name
func (s *Server) ServeImage(c *fiber.Ctx) error {
	name := c.Params("name")
	if !storedImageName.MatchString(name) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image", name))
	}

	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	if err := c.SendFile(s.imageService.Path("posts/" + name)); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image", name))
	}
	return nil
}
