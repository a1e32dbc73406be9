package server

import (
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User,posts=[]models.Post}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, posts, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"posts": posts,
	})
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update profile
// @Description Update the authenticated user's bio and avatar
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{bio=string,avatar_url=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Public user profile
// @Description A user's public profile with their recent visible posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user=models.User,posts=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, posts, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"posts": posts,
	})
}

// GetLeaderboard handles GET /api/users
// @Summary Leaderboard
// @Description Users ranked by battle wins, then published posts
// @Tags users
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{users=[]models.User}
// @Router /users [get]
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.Leaderboard(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}
