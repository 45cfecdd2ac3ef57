package server

import (
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 404 JSON response and returns errResponseWritten,
// since a malformed id can never name an existing record.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Resource", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError writes err with the status its error code maps to. Errors
// without a code are logged and reported as internal errors.
func respondError(c *fiber.Ctx, err error) error {
	if models.ErrorCode(err) == "" {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// seeOther answers a successful mutation with 303 and the location of the
// page the client should load next. body is returned as JSON for API clients.
func seeOther(c *fiber.Ctx, location string, body any) error {
	c.Location(location)
	return c.Status(fiber.StatusSeeOther).JSON(body)
}

// noStore marks a response as viewer-specific.
func noStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "private, no-store")
}

func postURL(id uint) string {
	return "/api/posts/" + strconv.FormatUint(uint64(id), 10)
}

func profileURL(username string) string {
	return "/api/profile/" + url.PathEscape(username)
}
