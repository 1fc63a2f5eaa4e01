package server

import (
	"net/url"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /posts/
// @Summary List posts
// @Description Every post with author, categories, comments and live like counts
// @Tags posts
// @Produce json
// @Success 200 {array} models.PostView
// @Router /posts/ [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetCompactPosts handles GET /posts/compact
// @Summary List post titles
// @Tags posts
// @Produce json
// @Success 200 {array} models.CompactPostView
// @Router /posts/compact [get]
func (s *Server) GetCompactPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListCompact(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetPostsByCategory handles GET /posts/category/:name
// @Summary Find posts by category
// @Description Case-insensitive substring match against category names
// @Tags posts
// @Produce json
// @Param name path string true "Category fragment"
// @Success 200 {array} models.PostView
// @Router /posts/category/{name} [get]
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return respondError(c, models.NewValidationError("Invalid category name"))
	}

	posts, err := s.postService.ListByCategory(c.UserContext(), name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /posts/
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePostInput true "Post"
// @Success 201 {object} object{message=string,post_id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	req.AuthorID = actorID(c)

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "New blog post created successfully.",
		"post_id": post.ID,
	})
}

// UpdatePost handles PUT /posts/:id
// @Summary Update a post
// @Description Only the author may update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.UpdatePostInput true "Fields to change"
// @Success 200 {object} object{message=string,post_id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePostInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), actorID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "post updated successfully",
		"post_id": post.ID,
	})
}

// DeletePost handles DELETE /posts/:id
// @Summary Delete a post
// @Description Removes the post with its comments, categories and likes
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,post_id=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.DeletePost(c.UserContext(), actorID(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "post deleted successfully.",
		"post_id": post.ID,
	})
}
