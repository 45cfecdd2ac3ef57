// Package main provides admin management utilities for Scribe.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/validation"
)

const usage = `Usage:
  go run ./cmd/admin group-create <slug> <title> [description]  - Create a group
  go run ./cmd/admin group-delete <slug>                         - Delete a group, keeping its posts
  go run ./cmd/admin list-groups                                 - List all groups
  go run ./cmd/admin promote <username>                          - Promote user to admin`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Group writes must drop cached slug lookups.
	if cfg.RedisURL != "" {
		if rdb := cache.InitRedis(cfg.RedisURL); rdb != nil {
			defer func() { _ = rdb.Close() }()
		}
	}

	ctx := context.Background()
	groups := repository.NewGroupRepository(db)
	users := repository.NewUserRepository(db)

	args := os.Args[2:]
	switch os.Args[1] {
	case "group-create":
		if len(args) < 2 {
			fmt.Println("Usage: go run ./cmd/admin group-create <slug> <title> [description]")
			os.Exit(1)
		}
		createGroup(ctx, groups, args[0], args[1], strings.Join(args[2:], " "))

	case "group-delete":
		if len(args) < 1 {
			fmt.Println("Usage: go run ./cmd/admin group-delete <slug>")
			os.Exit(1)
		}
		deleteGroup(ctx, groups, args[0])

	case "list-groups":
		listGroups(ctx, groups)

	case "promote":
		if len(args) < 1 {
			fmt.Println("Usage: go run ./cmd/admin promote <username>")
			os.Exit(1)
		}
		promote(ctx, users, args[0])

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		fmt.Println(usage)
		os.Exit(1)
	}
}

// buildGroup validates the command arguments and returns the group to store.
func buildGroup(slug, title, description string) (*models.Group, error) {
	if err := validation.ValidateGroupSlug(slug); err != nil {
		return nil, err
	}
	if err := validation.ValidateGroupTitle(title); err != nil {
		return nil, err
	}
	return &models.Group{Slug: slug, Title: title, Description: description}, nil
}

func createGroup(ctx context.Context, groups repository.GroupRepository, slug, title, description string) {
	group, err := buildGroup(slug, title, description)
	if err != nil {
		fmt.Printf("Invalid group: %v\n", err)
		os.Exit(1)
	}

	if err := groups.Create(ctx, group); err != nil {
		if models.IsConstraintViolation(err) {
			fmt.Printf("A group with slug %q already exists\n", slug)
			os.Exit(1)
		}
		log.Fatalf("Failed to create group: %v", err)
	}
	fmt.Printf("✅ Created group %s (ID: %d, slug: %s)\n", group.Title, group.ID, group.Slug)
}

func deleteGroup(ctx context.Context, groups repository.GroupRepository, slug string) {
	group, err := groups.GetBySlug(ctx, slug)
	if err != nil {
		if models.IsNotFound(err) {
			fmt.Printf("Group with slug %q not found\n", slug)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}
	if err := groups.Delete(ctx, group.ID); err != nil {
		log.Fatalf("Failed to delete group: %v", err)
	}
	fmt.Printf("✅ Deleted group %s (ID: %d)\n", group.Title, group.ID)
}

func listGroups(ctx context.Context, groups repository.GroupRepository) {
	all, err := groups.List(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch groups: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No groups found")
		return
	}

	fmt.Println("\n📋 Groups:")
	fmt.Println("─────────────────────────────────────")
	for _, g := range all {
		fmt.Printf("ID: %d | Slug: %s | Title: %s\n", g.ID, g.Slug, g.Title)
	}
	fmt.Println("─────────────────────────────────────")
}

func promote(ctx context.Context, users repository.UserRepository, username string) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		if models.IsNotFound(err) {
			fmt.Printf("User %s not found\n", username)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}
	if user.IsAdmin {
		fmt.Printf("User %s (ID: %d) is already an admin\n", user.Username, user.ID)
		return
	}
	if err := users.SetAdmin(ctx, user.ID, true); err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}
	fmt.Printf("✅ Successfully promoted %s (ID: %d) to admin\n", user.Username, user.ID)
}
