package server

import (
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateBattle handles POST /api/battles
// @Summary Create a battle
// @Description Pair two published posts into a head-to-head vote
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{post_a=int,post_b=int,category=string,round=int} true "Battle pairing"
// @Success 201 {object} models.Battle
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles [post]
func (s *Server) CreateBattle(c *fiber.Ctx) error {
	var req struct {
		PostA    uint   `json:"post_a"`
		PostB    uint   `json:"post_b"`
		Category string `json:"category"`
		Round    int    `json:"round"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostA == 0 || req.PostB == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_a and post_b are required"))
	}

	battle, err := s.battleService.CreateBattle(c.Context(), service.CreateBattleInput{
		PostAID:  req.PostA,
		PostBID:  req.PostB,
		Category: req.Category,
		Round:    req.Round,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(battle)
}

// GetActiveBattle handles GET /api/battles/active
// @Summary Current arena battle
// @Description The battle currently open for voting. A null battle is the normal empty-arena outcome, not an error. Authenticated callers also get their own choice if they already voted.
// @Tags battles
// @Produce json
// @Success 200 {object} object{battle=models.Battle,voter_choice=int,message=string}
// @Router /battles/active [get]
func (s *Server) GetActiveBattle(c *fiber.Ctx) error {
	voterID, _ := s.optionalUserID(c)

	battle, vote, err := s.battleService.ActiveBattle(c.Context(), voterID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if battle == nil {
		return c.JSON(fiber.Map{
			"battle":       nil,
			"voter_choice": nil,
			"message":      "No battle is running right now. Check back soon.",
		})
	}

	var voterChoice *uint
	if vote != nil {
		voterChoice = &vote.PostID
	}
	return c.JSON(fiber.Map{
		"battle":       battle,
		"voter_choice": voterChoice,
	})
}

// GetBattles handles GET /api/battles
// @Summary List battles
// @Description Battle history, newest first, optionally filtered by status
// @Tags battles
// @Produce json
// @Param status query string false "Status filter" Enums(pending, active, voting_closed, completed, cancelled)
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{battles=[]models.Battle,total=int}
// @Router /battles [get]
func (s *Server) GetBattles(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	battles, total, err := s.battleRepo.List(c.Context(),
		models.BattleStatus(c.Query("status")), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"battles": battles,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// CastVote handles POST /api/battles/:id/vote
// @Summary Cast a vote
// @Description One vote per battle per user, enforced by the ledger
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Param request body object{post_id=int} true "Chosen post"
// @Success 200 {object} models.Battle
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /battles/{id}/vote [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		PostID uint `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	battle, err := s.battleService.CastVote(c.Context(), service.CastVoteInput{
		BattleID:     id,
		VoterID:      currentUserID(c),
		ChosenPostID: req.PostID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(battle)
}

// GetBattleResults handles GET /api/battles/:id/results
// @Summary Battle results
// @Description Battle with tallies and winner, in any status
// @Tags battles
// @Produce json
// @Param id path int true "Battle ID"
// @Success 200 {object} object{battle=models.Battle,voter_choice=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id}/results [get]
func (s *Server) GetBattleResults(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	voterID, _ := s.optionalUserID(c)
	battle, vote, err := s.battleService.Results(c.Context(), id, voterID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var voterChoice *uint
	if vote != nil {
		voterChoice = &vote.PostID
	}
	return c.JSON(fiber.Map{
		"battle":       battle,
		"voter_choice": voterChoice,
	})
}

// ResolveBattle handles POST /api/battles/:id/resolve
// @Summary Resolve a battle
// @Description Admin closes a battle with a winner; posts and author counters cascade atomically
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Param request body object{winner_post_id=int} true "Winning post"
// @Success 200 {object} models.Battle
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id}/resolve [post]
func (s *Server) ResolveBattle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		WinnerPostID uint `json:"winner_post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.WinnerPostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("winner_post_id is required"))
	}

	battle, err := s.battleService.ResolveBattle(c.Context(), id, req.WinnerPostID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(battle)
}

// CancelBattle handles POST /api/battles/:id/cancel
// @Summary Cancel a battle
// @Description Admin abandons a battle; both posts return to the eligible pool without win credit
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 200 {object} models.Battle
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id}/cancel [post]
func (s *Server) CancelBattle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	battle, err := s.battleService.CancelBattle(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(battle)
}
