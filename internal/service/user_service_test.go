package service

import (
	"context"
	"strings"
	"testing"

	"kalemmeydani/internal/models"
	"kalemmeydani/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileReturnsVisiblePostsOnly(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "yazar1")
	createTestPost(t, db, author.ID, "Açık yazı", models.PostStatusPublished)
	createTestPost(t, db, author.ID, "Gizli taslak", models.PostStatusDraft)

	user, posts, err := svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "yazar1", user.Username)
	require.Len(t, posts, 1)
	assert.Equal(t, "Açık yazı", posts[0].Title)

	_, _, err = svc.GetProfile(ctx, 999)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	user := createTestUser(t, db, "yazar1")

	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:    user.ID,
		Bio:       "Meydanın eski kalemi.",
		AvatarURL: "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Meydanın eski kalemi.", updated.Bio)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID,
		Bio:    strings.Repeat("a", 201),
	})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestLeaderboardRanksByWins(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	novice := createTestUser(t, db, "acemi")
	veteran := createTestUser(t, db, "usta")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", veteran.ID).
		UpdateColumns(map[string]interface{}{"battle_wins_count": 6, "posts_count": 16}).Error)

	users, err := svc.Leaderboard(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, veteran.ID, users[0].ID)
	assert.Equal(t, novice.ID, users[1].ID)
}
