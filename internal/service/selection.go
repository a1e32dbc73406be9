package service

import (
	"context"

	"kalemmeydani/internal/cache"
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/repository"
)

// SelectionStrategy decides which battle the voting arena presents. A nil
// battle with a nil error means no battle is currently open, which is a
// normal outcome, not a failure.
type SelectionStrategy interface {
	Select(ctx context.Context) (*models.Battle, error)
}

// MostRecentActiveStrategy serves the newest battle that is open for voting.
type MostRecentActiveStrategy struct {
	battles repository.BattleRepository
}

// NewMostRecentActiveStrategy returns the default arena selection strategy.
func NewMostRecentActiveStrategy(battles repository.BattleRepository) *MostRecentActiveStrategy {
	return &MostRecentActiveStrategy{battles: battles}
}

// activeEnvelope wraps the selected battle so an empty arena is cacheable too.
type activeEnvelope struct {
	Battle *models.Battle `json:"battle"`
}

func (s *MostRecentActiveStrategy) Select(ctx context.Context) (*models.Battle, error) {
	var env activeEnvelope
	err := cache.Aside(ctx, cache.ActiveBattleKey, &env, cache.ActiveBattleTTL, func() error {
		battle, err := s.battles.MostRecentActive(ctx)
		if err != nil {
			return err
		}
		env.Battle = battle
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env.Battle, nil
}
