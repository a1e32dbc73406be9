// Package seed creates demo and test data for the application database.
// It is intended for development environments only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"kalemmeydani/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them. It is a thin helper used
// by Seed and by tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand

	// every seeded account shares one bcrypt hash; hashing per user makes
	// large seeds painfully slow
	passwordHash string
}

// SeedPassword is the plaintext password for every seeded account.
const SeedPassword = "Kalem!Demo2026"

// NewFactory creates a Factory bound to the given database.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// BuildUser constructs an unsaved user with generated profile data.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := strings.ToLower(gofakeit.Username())
	if len(username) < 3 {
		username = username + gofakeit.LetterN(3)
	}
	user := &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Password:  f.passwordHash,
		Bio:       truncate(gofakeit.Sentence(8), 200),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Level:     models.UserLevelNovice,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs an unsaved post for the given author and category.
func (f *Factory) BuildPost(user *models.User, category string, overrides ...func(*models.Post)) *models.Post {
	title := truncate(strings.TrimSuffix(gofakeit.Sentence(6), "."), 100)
	if len([]rune(title)) < 5 {
		title = title + " üzerine"
	}

	post := &models.Post{
		Title:    title,
		Content:  gofakeit.Paragraph(2, 4, 12, "\n\n"),
		Excerpt:  truncate(gofakeit.Sentence(10), 250),
		Category: category,
		UserID:   user.ID,
		Status:   models.PostStatusPublished,
	}

	if f.rand.Float32() < 0.3 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID())
	}

	// spread created_at over the past 90 days so listings look lived-in
	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post, keeping the author's posts_count and
// level consistent with published work.
func (f *Factory) CreatePost(user *models.User, category string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, category, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusDraft {
		if err := f.db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return nil, err
		}
	}
	return post, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
