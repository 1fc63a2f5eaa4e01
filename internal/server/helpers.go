package server

import (
	"errors"
	"strings"
	"unicode"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten means a helper already wrote the error response; the
// handler returns nil so the ErrorHandler leaves it alone.
var errResponseWritten = errors.New("response already written")

// parseID reads a positive integer route param. Otherwise it writes
// 400 "Invalid <label>" and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into out. Typed decoding errors raised by
// the input types themselves (such as a non-string category) are reported
// as-is; anything else is a generic 400.
func (s *Server) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			appErr = models.NewValidationError("Invalid request body")
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		return errResponseWritten
	}
	return nil
}

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// actorID returns the authenticated user, or 0 on public routes.
func actorID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// humanizeParam labels a route param for error messages:
// "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	base, ok := strings.CutSuffix(param, "Id")
	if !ok || base == "" {
		return param
	}
	var b strings.Builder
	for i, r := range base {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String() + " ID"
}
