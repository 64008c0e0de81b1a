package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostBeforeSaveAssignsSlugOnce(t *testing.T) {
	post := Post{Title: "Hello World", Content: "body", Status: StatusDraft}
	require.NoError(t, post.BeforeSave(nil))
	require.True(t, strings.HasPrefix(post.Slug, "hello-world-"))

	// a later save with a changed title keeps the slug
	assigned := post.Slug
	post.Title = "Hello World, Revised"
	require.NoError(t, post.BeforeSave(nil))
	assert.Equal(t, assigned, post.Slug)
}

func TestPostBeforeSavePublicationTimestamps(t *testing.T) {
	post := Post{Title: "Lifecycle", Content: "body", Status: StatusDraft}
	require.NoError(t, post.BeforeSave(nil))
	assert.Nil(t, post.PublishedAt)

	post.Status = StatusPublished
	require.NoError(t, post.BeforeSave(nil))
	require.NotNil(t, post.PublishedAt)
	firstPublished := *post.PublishedAt

	// saving again while published keeps the original timestamp
	require.NoError(t, post.BeforeSave(nil))
	assert.Equal(t, firstPublished, *post.PublishedAt)

	// unpublishing clears it
	post.Status = StatusDraft
	require.NoError(t, post.BeforeSave(nil))
	assert.Nil(t, post.PublishedAt)

	// republishing stamps a fresh timestamp
	time.Sleep(time.Millisecond)
	post.Status = StatusPublished
	require.NoError(t, post.BeforeSave(nil))
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.After(firstPublished))
}

func TestPostBeforeSaveDerivesExcerpt(t *testing.T) {
	long := strings.Repeat("ab", 125) // 250 characters

	post := Post{Title: "Long", Content: long, Status: StatusDraft}
	require.NoError(t, post.BeforeSave(nil))
	assert.Len(t, []rune(post.Excerpt), ExcerptLength+3)
	assert.True(t, strings.HasSuffix(post.Excerpt, "..."))

	short := Post{Title: "Short", Content: "short", Status: StatusDraft}
	require.NoError(t, short.BeforeSave(nil))
	assert.Equal(t, "short", short.Excerpt)

	// an explicit excerpt is never overwritten
	explicit := Post{Title: "Explicit", Content: long, Excerpt: "hand-written", Status: StatusDraft}
	require.NoError(t, explicit.BeforeSave(nil))
	assert.Equal(t, "hand-written", explicit.Excerpt)
}

func TestDeriveExcerptCountsCharacters(t *testing.T) {
	// multi-byte characters count as one character each
	content := strings.Repeat("世", ExcerptLength+1)
	excerpt := DeriveExcerpt(content)
	assert.Equal(t, strings.Repeat("世", ExcerptLength)+"...", excerpt)

	exact := strings.Repeat("x", ExcerptLength)
	assert.Equal(t, exact, DeriveExcerpt(exact))
}

func TestCommenterResolution(t *testing.T) {
	registered := Comment{User: &User{Username: "alice"}, Name: "ignored"}
	assert.Equal(t, Commenter{Kind: CommenterRegistered, Name: "alice"}, registered.Commenter())

	guest := Comment{Name: "Bob"}
	assert.Equal(t, Commenter{Kind: CommenterGuest, Name: "Bob"}, guest.Commenter())

	anonymous := Comment{}
	assert.Equal(t, Commenter{Kind: CommenterAnonymous, Name: AnonymousName}, anonymous.Commenter())
	assert.Equal(t, AnonymousName, anonymous.DisplayName())
}
