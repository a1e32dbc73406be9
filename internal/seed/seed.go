package seed

import (
	"context"
	"fmt"
	"log/slog"

	"kalemmeydani/internal/models"
	"kalemmeydani/internal/repository"
	"kalemmeydani/internal/service"

	"gorm.io/gorm"
)

// Options configures a seed run.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumBattles  int
	ShouldClean bool
	// PresetPath points at a YAML preset; empty uses the built-in preset.
	PresetPath string
}

// Seed populates the database with demo users, posts and settled battles.
// Battles run through the battle service so tallies, win counters and author
// levels come out exactly as they would in production.
func Seed(ctx context.Context, db *gorm.DB, opts Options) error {
	preset := DefaultPreset()
	if opts.PresetPath != "" {
		loaded, err := LoadPreset(opts.PresetPath)
		if err != nil {
			return err
		}
		preset = loaded
	}

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	factory := NewFactory(db)

	users, err := createUsers(db, factory, preset, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	slog.Info("seeded users", "count", len(users))

	posts, err := createPosts(factory, users, preset, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	slog.Info("seeded posts", "count", len(posts))

	battles, err := runBattles(ctx, db, factory, users, opts.NumBattles)
	if err != nil {
		return fmt.Errorf("run battles: %w", err)
	}
	slog.Info("seeded battles", "count", battles)

	return nil
}

// clearData wipes seedable tables in FK order. Plain DELETEs keep it working
// on both Postgres and sqlite.
func clearData(db *gorm.DB) error {
	for _, table := range []string{"votes", "battles", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, factory *Factory, preset Preset, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count+len(preset.Accounts))

	for _, account := range preset.Accounts {
		account := account
		user, err := factory.CreateUser(func(u *models.User) {
			u.Username = account.Username
			u.Email = account.Email
			u.Bio = account.Bio
			u.IsAdmin = account.Admin
		})
		if err != nil {
			// Preset accounts collide on re-runs without cleaning; reuse them.
			var existing models.User
			if findErr := db.Where("username = ?", account.Username).First(&existing).Error; findErr != nil {
				return nil, err
			}
			user = &existing
		}
		users = append(users, user)
	}

	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			// Generated usernames can collide; skip and keep going.
			continue
		}
		users = append(users, user)
	}

	return users, nil
}

func createPosts(factory *Factory, users []*models.User, preset Preset, count int) ([]*models.Post, error) {
	categories := preset.CategoryNames()
	if len(categories) == 0 {
		categories = []string{"deneme"}
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.rand.Intn(len(users))]
		category := categories[factory.rand.Intn(len(categories))]

		post, err := factory.CreatePost(author, category, func(p *models.Post) {
			// a sprinkling of drafts so listings have hidden work too
			if factory.rand.Float32() < 0.1 {
				p.Status = models.PostStatusDraft
			}
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// runBattles pairs published posts, lets seeded users vote, and resolves every
// battle but the last so the arena has one live matchup.
func runBattles(ctx context.Context, db *gorm.DB, factory *Factory, users []*models.User, count int) (int, error) {
	voteRepo := repository.NewVoteRepository(db)
	battleSvc := service.NewBattleService(db,
		repository.NewBattleRepository(db), voteRepo, nil)

	ran := 0
	for i := 0; i < count; i++ {
		var pair []models.Post
		err := db.Where("status = ?", models.PostStatusPublished).
			Order("RANDOM()").Limit(2).Find(&pair).Error
		if err != nil {
			return ran, err
		}
		if len(pair) < 2 {
			break
		}

		battle, err := battleSvc.CreateBattle(ctx, service.CreateBattleInput{
			PostAID: pair[0].ID,
			PostBID: pair[1].ID,
		})
		if err != nil {
			// Posts can already be locked into an earlier battle; move on.
			continue
		}

		numVoters := factory.rand.Intn(len(users)) + 1
		for _, voter := range users[:numVoters] {
			choice := battle.PostAID
			if factory.rand.Float32() < 0.5 {
				choice = battle.PostBID
			}
			if _, err := battleSvc.CastVote(ctx, service.CastVoteInput{
				BattleID:     battle.ID,
				VoterID:      voter.ID,
				ChosenPostID: choice,
			}); err != nil {
				return ran, err
			}
		}

		// leave the final battle live for the arena
		if i < count-1 {
			// pick the winner off the vote ledger, not the cached tallies
			votesA, err := voteRepo.CountForPost(ctx, battle.ID, battle.PostAID)
			if err != nil {
				return ran, err
			}
			votesB, err := voteRepo.CountForPost(ctx, battle.ID, battle.PostBID)
			if err != nil {
				return ran, err
			}
			winner := battle.PostAID
			if votesB > votesA {
				winner = battle.PostBID
			}
			if _, err := battleSvc.ResolveBattle(ctx, battle.ID, winner); err != nil {
				return ran, err
			}
		}
		ran++
	}

	return ran, nil
}
