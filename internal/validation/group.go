// Package validation checks user-supplied identifiers before they are stored.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxGroupSlugLen bounds group slugs; it matches the groups.slug column.
const MaxGroupSlugLen = 10

// MaxGroupTitleLen bounds group titles; it matches the groups.title column.
const MaxGroupTitleLen = 200

var groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateGroupSlug accepts 1-10 letters, numbers, underscores and hyphens,
// so every stored slug fits in a single URL path segment.
func ValidateGroupSlug(slug string) error {
	if slug == "" || len(slug) > MaxGroupSlugLen {
		return fmt.Errorf("slug must be 1-%d characters", MaxGroupSlugLen)
	}
	if !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug may contain only letters, numbers, underscores and hyphens")
	}
	return nil
}

// ValidateGroupTitle requires a non-blank title that fits the title column.
func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(title)) > MaxGroupTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxGroupTitleLen)
	}
	return nil
}
