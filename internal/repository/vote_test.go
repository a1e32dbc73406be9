package repository

import (
	"context"
	"regexp"
	"testing"

	"kalemmeydani/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestVoteRepository_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("First Vote Accepted", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewVoteRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO votes`)).
			WithArgs(uint(7), uint(3), uint(21)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Record(ctx, &models.Vote{BattleID: 7, VoterID: 3, PostID: 21})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict Is Duplicate", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewVoteRepository(db)

		// ON CONFLICT DO NOTHING reports zero affected rows for a repeat voter.
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO votes`)).
			WithArgs(uint(7), uint(3), uint(21)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Record(ctx, &models.Vote{BattleID: 7, VoterID: 3, PostID: 21})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeDuplicateVote, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVoteRepository_GetByBattleAndVoter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "battle_id", "voter_id", "post_id"}).
			AddRow(1, 7, 3, 21)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "votes" WHERE battle_id = $1 AND voter_id = $2`)).
			WithArgs(uint(7), uint(3), 1).
			WillReturnRows(rows)

		vote, err := repo.GetByBattleAndVoter(ctx, 7, 3)
		assert.NoError(t, err)
		require.NotNil(t, vote)
		assert.Equal(t, uint(21), vote.PostID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Voted Yet", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "votes" WHERE battle_id = $1 AND voter_id = $2`)).
			WithArgs(uint(7), uint(4), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		vote, err := repo.GetByBattleAndVoter(ctx, 7, 4)
		assert.NoError(t, err)
		assert.Nil(t, vote)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
