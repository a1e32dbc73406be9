package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kalemmeydani/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Battle{},
		&models.Vote{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeedPopulatesConsistentData(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(context.Background(), db, Options{
		NumUsers:   8,
		NumPosts:   20,
		NumBattles: 3,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var admin models.User
	if err := db.Where("username = ?", "meydan_admin").First(&admin).Error; err != nil {
		t.Fatalf("expected preset admin account: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatal("preset admin account should have admin rights")
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if postCount < 20 {
		t.Fatalf("expected at least 20 posts, got %d", postCount)
	}

	// The last seeded battle stays live.
	var activeCount int64
	if err := db.Model(&models.Battle{}).
		Where("status = ?", models.BattleStatusActive).Count(&activeCount).Error; err != nil {
		t.Fatalf("count active battles: %v", err)
	}
	if activeCount > 1 {
		t.Fatalf("expected at most one live battle, got %d", activeCount)
	}

	// Every settled battle's tallies must match its vote ledger.
	var completed []models.Battle
	if err := db.Where("status = ?", models.BattleStatusCompleted).Find(&completed).Error; err != nil {
		t.Fatalf("load completed battles: %v", err)
	}
	for _, battle := range completed {
		if battle.WinnerPostID == nil {
			t.Fatalf("completed battle %d has no winner", battle.ID)
		}
		var ledger int64
		if err := db.Model(&models.Vote{}).
			Where("battle_id = ?", battle.ID).Count(&ledger).Error; err != nil {
			t.Fatalf("count votes: %v", err)
		}
		if int(ledger) != battle.VotesA+battle.VotesB {
			t.Fatalf("battle %d: ledger has %d votes, tallies say %d",
				battle.ID, ledger, battle.VotesA+battle.VotesB)
		}
	}
}

func TestSeedCleanWipesPreviousRun(t *testing.T) {
	db := setupSeedTestDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, Options{NumUsers: 3, NumPosts: 5}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(ctx, db, Options{NumUsers: 2, NumPosts: 4, ShouldClean: true}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if postCount != 4 {
		t.Fatalf("expected exactly 4 posts after clean reseed, got %d", postCount)
	}
}

func TestSeedIsRerunnableWithoutClean(t *testing.T) {
	db := setupSeedTestDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, Options{NumUsers: 2, NumPosts: 3}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	// Preset accounts already exist; the second run must reuse them.
	if err := Seed(ctx, db, Options{NumUsers: 2, NumPosts: 3}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var adminCount int64
	if err := db.Model(&models.User{}).
		Where("username = ?", "meydan_admin").Count(&adminCount).Error; err != nil {
		t.Fatalf("count admin: %v", err)
	}
	if adminCount != 1 {
		t.Fatalf("expected one admin account, got %d", adminCount)
	}
}

func TestLoadPreset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "preset.yml")
	content := []byte(`categories:
  - name: felsefe
    description: Felsefe yazıları.
accounts: []
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	preset, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	if len(preset.Categories) != 1 || preset.Categories[0].Name != "felsefe" {
		t.Fatalf("unexpected categories: %+v", preset.Categories)
	}
	// Accounts were omitted, so the defaults fill in.
	if len(preset.Accounts) == 0 {
		t.Fatal("expected default accounts to backfill")
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadPreset("/does/not/exist.yml"); err == nil {
		t.Fatal("expected error for missing preset file")
	}
}

func TestFactoryBuildPostRespectsLimits(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)
	factory := NewFactory(db)
	user, err := factory.CreateUser()
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 0; i < 20; i++ {
		post := factory.BuildPost(user, "deneme")
		if n := len([]rune(post.Title)); n < 5 || n > 100 {
			t.Fatalf("title length %d out of range: %q", n, post.Title)
		}
		if len([]rune(post.Excerpt)) > 250 {
			t.Fatalf("excerpt too long: %q", post.Excerpt)
		}
		if post.Category != "deneme" {
			t.Fatalf("unexpected category %q", post.Category)
		}
	}
}
