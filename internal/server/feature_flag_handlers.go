package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags handles GET /users/features
// @Summary Feature flags for the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{features=map[string]bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/features [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"features": s.featureFlags.Snapshot(actorID(c))})
}
