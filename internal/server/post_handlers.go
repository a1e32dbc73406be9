package server

import (
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Browse publicly visible posts with optional keyword search and category filter
// @Tags posts
// @Produce json
// @Param q query string false "Keyword search in title and content"
// @Param category query string false "Category filter"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{posts=[]models.Post,total=int}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, total, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetSimilarPosts handles GET /api/posts/:id/similar
// @Summary Similar posts
// @Description Published posts in the same category, strongest battle record first
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Param limit query int false "Result cap (max 20)"
// @Success 200 {object} object{posts=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/similar [get]
func (s *Server) GetSimilarPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.SimilarPosts(c.Context(), id, c.QueryInt("limit", 5))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPostBattles handles GET /api/posts/:id/battles
// @Summary Battle record of a post
// @Description Every battle the post has fought, newest first
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{battles=[]models.Battle}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/battles [get]
func (s *Server) GetPostBattles(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	if _, err := s.postService.GetPost(c.Context(), id, viewerID); err != nil {
		return respondServiceError(c, err)
	}

	battles, err := s.battleRepo.ListForPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"battles": battles})
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post fields"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		ImageURL: req.ImageURL,
		Status:   models.PostStatus(req.Status),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Description Authors edit their own posts; in-battle posts are frozen
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body postRequest true "Post fields"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		ImageURL: req.ImageURL,
		Status:   models.PostStatus(req.Status),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Owners (or admins) delete a post; refused while it is in a battle
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.postService.DeletePost(c.Context(), id, userID, admin); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
