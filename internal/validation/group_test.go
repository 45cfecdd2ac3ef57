package validation

import (
	"strings"
	"testing"
)

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "lowercase", slug: "cats", ok: true},
		{name: "mixed case", slug: "Cats", ok: true},
		{name: "with number", slug: "cats2", ok: true},
		{name: "underscore and hyphen", slug: "a_b-c", ok: true},
		{name: "single character", slug: "c", ok: true},
		{name: "maximum length", slug: "abcdefghij", ok: true},
		{name: "too long", slug: "abcdefghijk", ok: false},
		{name: "empty", slug: "", ok: false},
		{name: "slash", slug: "a/b", ok: false},
		{name: "space", slug: "a b", ok: false},
		{name: "dot", slug: "a.b", ok: false},
		{name: "percent", slug: "a%20", ok: false},
		{name: "non ascii", slug: "кот", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupSlug(tc.slug)
			if tc.ok && err != nil {
				t.Fatalf("expected valid slug, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid slug, got nil error")
			}
		})
	}
}

func TestValidateGroupTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		ok    bool
	}{
		{name: "plain", title: "Cats", ok: true},
		{name: "maximum length", title: strings.Repeat("t", MaxGroupTitleLen), ok: true},
		{name: "too long", title: strings.Repeat("t", MaxGroupTitleLen+1), ok: false},
		{name: "blank", title: "   ", ok: false},
		{name: "empty", title: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupTitle(tc.title)
			if tc.ok && err != nil {
				t.Fatalf("expected valid title, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid title, got nil error")
			}
		})
	}
}
