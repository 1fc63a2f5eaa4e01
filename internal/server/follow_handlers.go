package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// GetFollowers handles GET /followers/:userId
// @Summary List followers
// @Tags followers
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{followers=[]models.FollowerView}
// @Router /followers/{userId} [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	followers, err := s.followService.Followers(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"followers": followers})
}

// FollowUser handles POST /followers/:userId
// @Summary Follow a user
// @Tags followers
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User to follow"
// @Success 201 {object} object{message=string,follow_id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /followers/{userId} [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.Follow(c.UserContext(), actorID(c), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   fmt.Sprintf("Followed user %d successfully.", userID),
		"follow_id": follow.ID,
	})
}

// UnfollowUser handles DELETE /followers/:userId
// @Summary Unfollow a user
// @Tags followers
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User to unfollow"
// @Success 200 {object} object{message=string,follow_id=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /followers/{userId} [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.Unfollow(c.UserContext(), actorID(c), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "unfollowed successfully",
		"follow_id": follow.ID,
	})
}
