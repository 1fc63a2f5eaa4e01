package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddCategory handles POST /category/:postId
// @Summary Tag a post
// @Description Only the post's author may add categories
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body service.CategoryInput true "Category"
// @Success 201 {object} object{message=string,post_id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /category/{postId} [post]
func (s *Server) AddCategory(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req service.CategoryInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.categoryService.AddCategory(c.UserContext(), actorID(c), postID, req); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "New category added successfully.",
		"post_id": postID,
	})
}

// RemoveCategory handles DELETE /category/:postId
// @Summary Untag a post
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body service.CategoryInput true "Category"
// @Success 200 {object} object{message=string,post_id=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /category/{postId} [delete]
func (s *Server) RemoveCategory(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req service.CategoryInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.categoryService.RemoveCategory(c.UserContext(), actorID(c), postID, req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "category deleted successfully",
		"post_id": postID,
	})
}
