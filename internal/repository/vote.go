package repository

import (
	"context"
	"errors"

	"kalemmeydani/internal/models"
	"kalemmeydani/internal/observability"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for individual ballots.
type VoteRepository interface {
	Record(ctx context.Context, vote *models.Vote) error
	GetByBattleAndVoter(ctx context.Context, battleID, voterID uint) (*models.Vote, error)
	CountForPost(ctx context.Context, battleID, postID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Record inserts a ballot. The (battle_id, voter_id) unique index decides
// duplicates under concurrency: ON CONFLICT DO NOTHING is atomic, and zero
// rows affected means a vote already existed.
func (r *voteRepository) Record(ctx context.Context, vote *models.Vote) error {
	defer observability.TrackQuery("insert", "votes")()
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (battle_id, voter_id, post_id, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (battle_id, voter_id) DO NOTHING`,
		vote.BattleID, vote.VoterID, vote.PostID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewDuplicateVoteError()
	}
	return nil
}

func (r *voteRepository) GetByBattleAndVoter(ctx context.Context, battleID, voterID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND voter_id = ?", battleID, voterID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

func (r *voteRepository) CountForPost(ctx context.Context, battleID, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("battle_id = ? AND post_id = ?", battleID, postID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
