package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /users/
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} object{users=[]models.UserSummaryView}
// @Router /users/ [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUser handles GET /users/:id
// @Summary Get a user profile
// @Description Profile with followers, likes and post titles
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserDetailView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /users/posts/:id
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{blog_posts=[]models.UserPostView}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/posts/{id} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.userService.UserPosts(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blog_posts": posts})
}

// GetUserComments handles GET /users/comments/:id
// @Summary List a user's comments
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{comments=[]models.UserCommentView}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/comments/{id} [get]
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.userService.UserComments(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetUserLikes handles GET /users/likes/:id
// @Summary List a user's likes
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{likes=[]models.LikeRef}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/likes/{id} [get]
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.userService.UserLikes(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes})
}

// UpdateUser handles PUT /users/
// @Summary Update your account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateAccountInput true "Fields to change"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/ [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req service.UpdateAccountInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.identityService.UpdateAccount(c.UserContext(), actorID(c), req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "updated user details"})
}

// DeleteUser handles DELETE /users/
// @Summary Delete your account
// @Description Removes the account with its posts, comments, likes and follows
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/ [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.identityService.DeleteAccount(c.UserContext(), actorID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user deleted successfully"})
}
