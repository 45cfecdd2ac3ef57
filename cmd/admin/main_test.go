package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroup(t *testing.T) {
	group, err := buildGroup("cats", "Cats", "All about cats")
	require.NoError(t, err)
	assert.Equal(t, "cats", group.Slug)
	assert.Equal(t, "Cats", group.Title)
	assert.Equal(t, "All about cats", group.Description)

	tests := []struct {
		name  string
		slug  string
		title string
	}{
		{"slug with slash", "a/b", "Title"},
		{"slug too long", "abcdefghijk", "Title"},
		{"empty slug", "", "Title"},
		{"blank title", "cats", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildGroup(tt.slug, tt.title, "")
			assert.Error(t, err)
		})
	}
}
