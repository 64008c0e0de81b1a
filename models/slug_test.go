package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello World"))
	assert.Equal(t, "hello-world", Slugify("  Hello,   World!  "))
	assert.Equal(t, "go-1-23-notes", Slugify("Go 1.23 Notes"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

func TestPostSlug(t *testing.T) {
	slug := PostSlug("Hello World")
	require.True(t, strings.HasPrefix(slug, "hello-world-"), "slug %q should start with the normalized title", slug)
	assert.Len(t, strings.TrimPrefix(slug, "hello-world-"), 8)

	// identical titles never collide
	other := PostSlug("Hello World")
	assert.NotEqual(t, slug, other)
}

func TestPostSlugEmptyTitle(t *testing.T) {
	// an all-symbol title still yields a usable slug, just the token
	slug := PostSlug("!!!")
	assert.Len(t, slug, 8)
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{}
	takenFn := func(slug string) bool { return taken[slug] }

	first := UniqueSlug("Web Dev", takenFn)
	assert.Equal(t, "web-dev", first)
	taken[first] = true

	second := UniqueSlug("Web Dev", takenFn)
	assert.Equal(t, "web-dev-1", second)
	taken[second] = true

	third := UniqueSlug("Web Dev", takenFn)
	assert.Equal(t, "web-dev-2", third)
}

func TestUniqueSlugUnslugifiableName(t *testing.T) {
	slug := UniqueSlug("###", func(string) bool { return false })
	assert.Len(t, slug, 8)
}
