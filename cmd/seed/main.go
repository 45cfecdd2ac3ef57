// Command main runs the database seeder for Scribe.
package main

import (
	"context"
	"flag"
	"log"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	numGroups := flag.Int("groups", 5, "Number of groups to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("days", 90, "Spread post timestamps over this many days")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 picks one)")
	dryRun := flag.Bool("dry-run", false, "Build the data without writing it")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d groups, %d posts, clean=%v\n", *numUsers, *numGroups, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:    *numUsers,
		NumGroups:   *numGroups,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		MaxDays:     *maxDays,
		RandSeed:    *randSeed,
		DryRun:      *dryRun,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("Users: %d | Groups: %d | Posts: %d | Comments: %d | Follows: %d",
		sum.Users, sum.Groups, sum.Posts, sum.Comments, sum.Follows)
	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
