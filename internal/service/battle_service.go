package service

import (
	"context"
	"errors"
	"time"

	"kalemmeydani/internal/cache"
	"kalemmeydani/internal/middleware"
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/observability"
	"kalemmeydani/internal/repository"

	"gorm.io/gorm"
)

// BattleService owns the battle state machine: pairing posts, accepting
// votes, and the resolution cascade onto posts and authors. Every
// multi-entity mutation runs inside a single transaction so no intermediate
// state is ever observable.
type BattleService struct {
	db         *gorm.DB
	battleRepo repository.BattleRepository
	voteRepo   repository.VoteRepository
	selection  SelectionStrategy
}

// NewBattleService creates a battle service. A nil selection falls back to
// the most-recently-created-active strategy.
func NewBattleService(
	db *gorm.DB,
	battleRepo repository.BattleRepository,
	voteRepo repository.VoteRepository,
	selection SelectionStrategy,
) *BattleService {
	if selection == nil {
		selection = NewMostRecentActiveStrategy(battleRepo)
	}
	return &BattleService{
		db:         db,
		battleRepo: battleRepo,
		voteRepo:   voteRepo,
		selection:  selection,
	}
}

type CreateBattleInput struct {
	PostAID  uint
	PostBID  uint
	Category string
	Round    int
}

type CastVoteInput struct {
	BattleID     uint
	VoterID      uint
	ChosenPostID uint
}

// CreateBattle pairs two published posts into a new active battle and flips
// both posts to in_battle. The flip is guarded on status = published inside
// the transaction, so a concurrent creation naming either post loses the
// race and rolls back instead of double-booking it.
func (s *BattleService) CreateBattle(ctx context.Context, in CreateBattleInput) (*models.Battle, error) {
	if in.PostAID == in.PostBID {
		return nil, models.NewPostsAreSameError()
	}

	var battle models.Battle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint{in.PostAID, in.PostBID}
		var posts []models.Post
		if err := tx.Where("id IN ?", ids).Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}

		byID := make(map[uint]*models.Post, len(posts))
		for i := range posts {
			byID[posts[i].ID] = &posts[i]
		}
		postA, ok := byID[in.PostAID]
		if !ok {
			return models.NewNotFoundError("Post", in.PostAID)
		}
		postB, ok := byID[in.PostBID]
		if !ok {
			return models.NewNotFoundError("Post", in.PostBID)
		}
		for _, p := range []*models.Post{postA, postB} {
			if p.Status != models.PostStatusPublished {
				return models.NewPostNotEligibleError(p.ID)
			}
		}

		category := in.Category
		if category == "" {
			category = postA.Category
		}
		round := in.Round
		if round < 1 {
			round = 1
		}

		battle = models.Battle{
			PostAID:   in.PostAID,
			PostBID:   in.PostBID,
			Category:  category,
			Status:    models.BattleStatusActive,
			Round:     round,
			StartTime: time.Now(),
		}
		if err := tx.Create(&battle).Error; err != nil {
			return models.NewInternalError(err)
		}

		res := tx.Model(&models.Post{}).
			Where("id IN ? AND status = ?", ids, models.PostStatusPublished).
			Updates(map[string]interface{}{
				"status":            models.PostStatusInBattle,
				"current_battle_id": battle.ID,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected != 2 {
			// A concurrent battle claimed one of the posts after our read.
			var stale []uint
			if err := tx.Model(&models.Post{}).
				Where("id IN ? AND status <> ?", ids, models.PostStatusInBattle).
				Pluck("id", &stale).Error; err == nil && len(stale) > 0 {
				return models.NewPostNotEligibleError(stale[0])
			}
			return models.NewPostNotEligibleError(in.PostAID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, in.PostAID)
	cache.InvalidatePost(ctx, in.PostBID)
	cache.Invalidate(ctx, cache.ActiveBattleKey)

	return s.battleRepo.GetByID(ctx, battle.ID)
}

// ActiveBattle returns the battle the arena currently shows, or nil when no
// battle is open. When voterID is set and the voter already has a ballot in
// that battle, the vote is returned too so clients can render results
// instead of a ballot.
func (s *BattleService) ActiveBattle(ctx context.Context, voterID uint) (*models.Battle, *models.Vote, error) {
	battle, err := s.selection.Select(ctx)
	if err != nil || battle == nil {
		return battle, nil, err
	}
	if voterID == 0 {
		return battle, nil, nil
	}
	vote, err := s.voteRepo.GetByBattleAndVoter(ctx, battle.ID, voterID)
	if err != nil {
		return nil, nil, err
	}
	return battle, vote, nil
}

// CastVote records a ballot and bumps the chosen post's tally. Uniqueness is
// enforced by the ledger's (battle_id, voter_id) index, not a read, so
// concurrent duplicate submissions cannot both land; the tally update is an
// atomic counter expression in the same transaction as the insert, and it is
// guarded on status = active so a resolve racing the vote cannot end up with
// a ballot against a settled battle.
func (s *BattleService) CastVote(ctx context.Context, in CastVoteInput) (*models.Battle, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var battle models.Battle
		if err := tx.First(&battle, in.BattleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Battle", in.BattleID)
			}
			return models.NewInternalError(err)
		}
		if battle.Status != models.BattleStatusActive {
			observability.VotesRejected.WithLabelValues("voting_closed").Inc()
			return models.NewVotingClosedError(battle.ID)
		}
		if !battle.HasPost(in.ChosenPostID) {
			observability.VotesRejected.WithLabelValues("invalid_choice").Inc()
			return models.NewInvalidChoiceError()
		}

		res := tx.Exec(
			`INSERT INTO votes (battle_id, voter_id, post_id, created_at)
			 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (battle_id, voter_id) DO NOTHING`,
			in.BattleID, in.VoterID, in.ChosenPostID,
		)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			observability.VotesRejected.WithLabelValues("duplicate").Inc()
			return models.NewDuplicateVoteError()
		}

		column := "votes_a"
		if in.ChosenPostID == battle.PostBID {
			column = "votes_b"
		}
		// The increment re-asserts the status: a resolve that commits
		// between our read and this update leaves zero affected rows, and
		// the rollback takes the ledger insert with it.
		inc := tx.Model(&models.Battle{}).
			Where("id = ? AND status = ?", battle.ID, models.BattleStatusActive).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if inc.Error != nil {
			return models.NewInternalError(inc.Error)
		}
		if inc.RowsAffected == 0 {
			observability.VotesRejected.WithLabelValues("voting_closed").Inc()
			return models.NewVotingClosedError(battle.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.VotesAccepted.Inc()
	cache.InvalidateBattle(ctx, in.BattleID)

	return s.battleRepo.GetByID(ctx, in.BattleID)
}

// ResolveBattle completes a battle with the given winner and applies the
// full cascade in one transaction: both posts return to published, the
// winner post gains a win, the winner's author gains a win and has their
// level recomputed. The status transition is guarded so a second resolve of
// the same battle fails without double-crediting anything.
func (s *BattleService) ResolveBattle(ctx context.Context, battleID, winnerPostID uint) (*models.Battle, error) {
	span, ctx := observability.NewSpan(ctx, "battle.resolve")
	defer span.End()

	var winnerAuthorID uint
	var loserPostID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var battle models.Battle
		if err := tx.First(&battle, battleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Battle", battleID)
			}
			return models.NewInternalError(err)
		}
		if !battle.HasPost(winnerPostID) {
			return models.NewInvalidChoiceError()
		}

		now := time.Now()
		res := tx.Model(&models.Battle{}).
			Where("id = ? AND status IN ?", battle.ID, []models.BattleStatus{
				models.BattleStatusActive,
				models.BattleStatusVotingClosed,
			}).
			Updates(map[string]interface{}{
				"status":         models.BattleStatusCompleted,
				"winner_post_id": winnerPostID,
				"end_time":       now,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewValidationError("Battle is already settled")
		}

		loserPostID = battle.OpponentOf(winnerPostID)
		if err := tx.Model(&models.Post{}).
			Where("id = ?", loserPostID).
			Updates(map[string]interface{}{
				"status":            models.PostStatusPublished,
				"current_battle_id": nil,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ?", winnerPostID).
			Updates(map[string]interface{}{
				"status":            models.PostStatusPublished,
				"current_battle_id": nil,
				"battle_wins":       gorm.Expr("battle_wins + 1"),
			}).Error; err != nil {
			return models.NewInternalError(err)
		}

		var winnerPost models.Post
		if err := tx.First(&winnerPost, winnerPostID).Error; err != nil {
			return models.NewInternalError(err)
		}
		winnerAuthorID = winnerPost.UserID
		return bumpAuthorCounters(tx, winnerAuthorID, 0, 1)
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.BattlesByOutcome.WithLabelValues("completed").Inc()
	middleware.Logger.InfoContext(ctx, "battle resolved",
		"battle_id", battleID,
		"winner_post_id", winnerPostID,
	)

	cache.InvalidateBattle(ctx, battleID)
	cache.InvalidatePost(ctx, winnerPostID)
	cache.InvalidatePost(ctx, loserPostID)
	cache.InvalidateUser(ctx, winnerAuthorID)

	return s.battleRepo.GetByID(ctx, battleID)
}

// CancelBattle abandons a battle and releases both posts back to published
// without crediting a win to anyone.
func (s *BattleService) CancelBattle(ctx context.Context, battleID uint) (*models.Battle, error) {
	var postIDs []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var battle models.Battle
		if err := tx.First(&battle, battleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Battle", battleID)
			}
			return models.NewInternalError(err)
		}

		now := time.Now()
		res := tx.Model(&models.Battle{}).
			Where("id = ? AND status IN ?", battle.ID, []models.BattleStatus{
				models.BattleStatusPending,
				models.BattleStatusActive,
				models.BattleStatusVotingClosed,
			}).
			Updates(map[string]interface{}{
				"status":   models.BattleStatusCancelled,
				"end_time": now,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewValidationError("Battle is already settled")
		}

		postIDs = []uint{battle.PostAID, battle.PostBID}
		if err := tx.Model(&models.Post{}).
			Where("id IN ? AND current_battle_id = ?", postIDs, battle.ID).
			Updates(map[string]interface{}{
				"status":            models.PostStatusPublished,
				"current_battle_id": nil,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.BattlesByOutcome.WithLabelValues("cancelled").Inc()

	cache.InvalidateBattle(ctx, battleID)
	for _, id := range postIDs {
		cache.InvalidatePost(ctx, id)
	}

	return s.battleRepo.GetByID(ctx, battleID)
}

// Results returns a battle in any status, with the voter's own ballot when
// one exists.
func (s *BattleService) Results(ctx context.Context, battleID, voterID uint) (*models.Battle, *models.Vote, error) {
	battle, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return nil, nil, err
	}
	if voterID == 0 {
		return battle, nil, nil
	}
	vote, err := s.voteRepo.GetByBattleAndVoter(ctx, battleID, voterID)
	if err != nil {
		return nil, nil, err
	}
	return battle, vote, nil
}
