// Package seed provides helpers to create demo data for development and tests.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"scribe/internal/models"
	"scribe/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
	// passwordHash is computed once; bcrypt per user is too slow for bulk seeding.
	passwordHash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		r:      rand.New(rand.NewSource(seed)), //nolint:gosec // Weak random number generator is fine for seeding
		nextID: 1000,
	}
}

func (f *Factory) hashedPassword() (string, error) {
	if f.passwordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		f.passwordHash = string(hash)
	}
	return f.passwordHash, nil
}

// CreateUser constructs and persists a sample user. n keeps usernames unique.
func (f *Factory) CreateUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.hashedPassword()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), n),
		Password:  hash,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildGroup constructs a group whose slug fits the slug column. n keeps slugs unique.
func (f *Factory) BuildGroup(n int) *models.Group {
	suffix := fmt.Sprintf("%d", n)
	base := strings.ToLower(gofakeit.Noun())
	base = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "group"
	}
	if len(base)+len(suffix) > validation.MaxGroupSlugLen {
		base = base[:validation.MaxGroupSlugLen-len(suffix)]
	}
	noun := gofakeit.Noun()

	return &models.Group{
		Title:       strings.ToUpper(noun[:1]) + noun[1:] + " " + gofakeit.Adjective(),
		Slug:        base + suffix,
		Description: gofakeit.Sentence(12),
	}
}

// CreateGroup persists a sample group.
func (f *Factory) CreateGroup(n int) (*models.Group, error) {
	group := f.BuildGroup(n)
	if f.opts.DryRun {
		f.nextID++
		group.ID = f.nextID
		return group, nil
	}
	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// BuildPost constructs a post by author, optionally in group, with a
// created_at spread over the last MaxDays days. It does not persist it.
func (f *Factory) BuildPost(author *models.User, group *models.Group) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.r.Intn(maxDays))*24*time.Hour +
		time.Duration(f.r.Intn(24))*time.Hour +
		time.Duration(f.r.Intn(60))*time.Minute

	post := &models.Post{
		Text:      gofakeit.Paragraph(1, f.r.Intn(4)+1, 12, "\n"),
		AuthorID:  author.ID,
		CreatedAt: time.Now().Add(-back),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePostsBatch persists multiple posts in batches.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		return nil
	}
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(posts, 100).Error
}

// CreateComment persists a sample comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Text:      gofakeit.Sentence(f.r.Intn(12) + 3),
		CreatedAt: post.CreatedAt.Add(time.Duration(f.r.Intn(72)+1) * time.Hour),
	}
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}
	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
