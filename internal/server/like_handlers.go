package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// targetFunc builds the like target addressed by a route.
type targetFunc func(id uint) models.LikeTarget

// GetLikers handles GET /likes/post/:id and GET /likes/comment/:id
// @Summary List likers
// @Description Who liked the post or comment, oldest first. A missing target yields an empty list.
// @Tags likes
// @Produce json
// @Param id path int true "Post or comment ID"
// @Success 200 {object} object{likers=[]models.LikerView}
// @Router /likes/post/{id} [get]
// @Router /likes/comment/{id} [get]
func (s *Server) GetLikers(target targetFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}

		likers, err := s.likeService.Likers(c.UserContext(), target(id))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"likers": likers})
	}
}

// CreateLike handles POST /likes/post/:id and POST /likes/comment/:id
// @Summary Like a post or comment
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post or comment ID"
// @Success 201 {object} object{message=string,like_id=int}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /likes/post/{id} [post]
// @Router /likes/comment/{id} [post]
func (s *Server) CreateLike(target targetFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}

		like, err := s.likeService.Like(c.UserContext(), actorID(c), target(id))
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "New like created successfully.",
			"like_id": like.ID,
		})
	}
}

// DeleteLike handles DELETE /likes/post/:id and DELETE /likes/comment/:id
// @Summary Remove your like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post or comment ID"
// @Success 200 {object} object{message=string,like_id=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /likes/post/{id} [delete]
// @Router /likes/comment/{id} [delete]
func (s *Server) DeleteLike(target targetFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}

		like, err := s.likeService.Unlike(c.UserContext(), actorID(c), target(id))
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"message": "like deleted successfully",
			"like_id": like.ID,
		})
	}
}
