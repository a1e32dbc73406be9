// Command main runs the database seeder for Kalem Meydanı.
package main

import (
	"context"
	"flag"
	"log"

	"kalemmeydani/internal/bootstrap"
	"kalemmeydani/internal/config"
	"kalemmeydani/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	numBattles := flag.Int("battles", 10, "Number of battles to run")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Path to a YAML seed preset")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, %d battles, clean=%v\n",
		*numUsers, *numPosts, *numBattles, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	err = seed.Seed(context.Background(), db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumBattles:  *numBattles,
		ShouldClean: *shouldClean,
		PresetPath:  *preset,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The arena is populated.")
	log.Printf("Every seeded account logs in with the password: %s", seed.SeedPassword)
}
