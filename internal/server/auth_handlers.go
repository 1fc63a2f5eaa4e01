package server

import (
	"errors"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /auth/register
// @Summary Register
// @Description Create an account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Account details"
// @Success 201 {object} object{token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.identityService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

// Login handles POST /auth/login
// @Summary Login
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.identityService.Authenticate(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("tokenClaims").(*middleware.TokenClaims)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("authentication required"))
	}

	if err := s.tokens.Revoke(c.UserContext(), claims); err != nil {
		if errors.Is(err, middleware.ErrRevocationUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "logout is unavailable",
			})
		}
		middleware.Logger.ErrorContext(c.UserContext(), "token revocation failed", slog.String("error", err.Error()))
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"message": "logged out successfully"})
}
