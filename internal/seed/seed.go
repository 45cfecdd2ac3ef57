package seed

import (
	"context"
	"fmt"
	"log"

	"scribe/internal/models"
	"scribe/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
	// MaxFollows is the most authors each seeded user follows.
	MaxFollows int
	// RandSeed makes a run reproducible when non-zero.
	RandSeed int64
	DryRun   bool
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seed populates the database with users, groups, posts, comments and follows.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	log.Printf("🌱 Seeding %d users, %d groups, %d posts...", opts.NumUsers, opts.NumGroups, opts.NumPosts)

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearAll(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db.WithContext(ctx), opts)
	sum := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(i)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	log.Printf("✓ %d users created", sum.Users)

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		g, err := f.CreateGroup(i)
		if err != nil {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
		groups = append(groups, g)
	}
	sum.Groups = len(groups)
	log.Printf("✓ %d groups created", sum.Groups)

	if len(users) == 0 {
		return sum, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.r.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts stay outside any group.
		if len(groups) > 0 && f.r.Intn(3) > 0 {
			group = groups[f.r.Intn(len(groups))]
		}
		posts = append(posts, f.BuildPost(author, group))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts = len(posts)
	log.Printf("✓ %d posts created", sum.Posts)

	for _, p := range posts {
		for n := f.r.Intn(4); n > 0; n-- {
			if _, err := f.CreateComment(users[f.r.Intn(len(users))], p); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			sum.Comments++
		}
	}
	log.Printf("✓ %d comments created", sum.Comments)

	if !opts.DryRun {
		follows, err := seedFollows(ctx, f, repository.NewFollowRepository(db), users, opts.MaxFollows)
		if err != nil {
			return nil, err
		}
		sum.Follows = follows
		log.Printf("✓ %d follows created", sum.Follows)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

func seedFollows(ctx context.Context, f *Factory, follows repository.FollowRepository, users []*models.User, maxFollows int) (int, error) {
	if maxFollows <= 0 {
		maxFollows = 3
	}
	created := 0
	for _, u := range users {
		for n := f.r.Intn(maxFollows + 1); n > 0; n-- {
			author := users[f.r.Intn(len(users))]
			if author.ID == u.ID {
				continue
			}
			inserted, err := follows.Create(ctx, u.ID, author.ID)
			if err != nil {
				return created, fmt.Errorf("failed to create follow: %w", err)
			}
			if inserted {
				created++
			}
		}
	}
	return created, nil
}

// ClearAll deletes every row the seeder can create, children first.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
