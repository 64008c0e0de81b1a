package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/jhzhou002/blog-yk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestGetPublishedCountsView(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Counted", time.Now())

	fetched, err := db.PostRepo().GetPublished(post.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint(1), fetched.Views)

	fetched, err = db.PostRepo().GetPublished(post.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint(2), fetched.Views)
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	draft := seedDraftPost(t, db, author, "Hidden")

	_, err := db.PostRepo().GetPublished(draft.Slug)
	assert.True(t, IsNotFound(err))

	// the failed lookup must not count a view
	reread, err := db.PostRepo().FindByID(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), reread.Views)
}

func TestConcurrentViewsAllCounted(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Popular", time.Now())

	const readers = 20
	var g errgroup.Group
	for i := 0; i < readers; i++ {
		g.Go(func() error {
			_, err := db.PostRepo().GetPublished(post.Slug)
			return err
		})
	}
	require.NoError(t, g.Wait())

	reread, err := db.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(readers), reread.Views)
}

func TestPublishedPageOrderAndClamping(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 12; i++ {
		seedPublishedPost(t, db, author, fmt.Sprintf("Post %02d", i), base.Add(time.Duration(i)*time.Hour))
	}

	posts, info, err := db.PostRepo().PublishedPage(1)
	require.NoError(t, err)
	assert.Len(t, posts, PublicPageSize)
	assert.Equal(t, "Post 11", posts[0].Title) // newest publication first
	assert.Equal(t, 2, info.TotalPages)
	assert.Equal(t, int64(12), info.TotalCount)

	// an out-of-range page clamps to the last page instead of erroring
	posts, info, err = db.PostRepo().PublishedPage(99)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 2, info.Page)

	// and a nonsense page clamps to the first
	_, info, err = db.PostRepo().PublishedPage(-3)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Page)
}

func TestSearchMatchesCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	seedPublishedPost(t, db, author, "Gardening in Spring", time.Now())
	seedPublishedPost(t, db, author, "Winter Recipes", time.Now().Add(time.Hour))
	seedDraftPost(t, db, author, "Gardening Drafts")

	posts, _, err := db.PostRepo().Search("GARDEN", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Gardening in Spring", posts[0].Title)

	// content matches too
	posts, _, err = db.PostRepo().Search("content of winter", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Winter Recipes", posts[0].Title)
}

func TestPreviousAndNextFollowPublicationOrder(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)
	first := seedPublishedPost(t, db, author, "First", base)
	second := seedPublishedPost(t, db, author, "Second", base.Add(24*time.Hour))
	third := seedPublishedPost(t, db, author, "Third", base.Add(48*time.Hour))
	seedDraftPost(t, db, author, "Never Published")

	prev, err := db.PostRepo().Previous(second)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, first.ID, prev.ID)

	next, err := db.PostRepo().Next(second)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, third.ID, next.ID)

	// the ends of the timeline have no neighbors
	prev, err = db.PostRepo().Previous(first)
	require.NoError(t, err)
	assert.Nil(t, prev)

	next, err = db.PostRepo().Next(third)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestStaffPageFilters(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	category := models.Category{Name: "Tech"}
	require.NoError(t, db.CategoryRepo().Add(&category))

	published := seedPublishedPost(t, db, author, "Released", time.Now())
	published.CategoryID = &category.ID
	require.NoError(t, db.PostRepo().Update(published))
	seedDraftPost(t, db, author, "Work in Progress")

	posts, info, err := db.PostRepo().StaffPage(StaffFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, StaffPostPageSize, info.PageSize)

	posts, _, err = db.PostRepo().StaffPage(StaffFilter{Status: models.StatusDraft}, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Work in Progress", posts[0].Title)

	posts, _, err = db.PostRepo().StaffPage(StaffFilter{CategoryID: category.ID}, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Released", posts[0].Title)

	posts, _, err = db.PostRepo().StaffPage(StaffFilter{Search: "progress"}, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Work in Progress", posts[0].Title)
}

func TestArchiveGroupsByMonth(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	seedPublishedPost(t, db, author, "March A", time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local))
	seedPublishedPost(t, db, author, "March B", time.Date(2025, 3, 20, 0, 0, 0, 0, time.Local))
	seedPublishedPost(t, db, author, "January", time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local))
	seedDraftPost(t, db, author, "Unpublished")

	entries, err := db.PostRepo().Archive()
	require.NoError(t, err)
	require.Equal(t, []ArchiveEntry{
		{Year: 2025, Month: 3, Count: 2},
		{Year: 2025, Month: 1, Count: 1},
	}, entries)

	posts, _, err := db.PostRepo().ArchiveMonth(2025, 3, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, _, err = db.PostRepo().ArchiveMonth(2025, 2, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeleteRemovesCommentsAndTagLinks(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Doomed", time.Now())

	tag := models.Tag{Name: "golang"}
	require.NoError(t, db.TagRepo().Add(&tag))
	require.NoError(t, db.PostRepo().ReplaceTags(post, []models.Tag{tag}))

	comment := models.Comment{PostID: post.ID, Content: "nice", IsApproved: true}
	require.NoError(t, db.CommentRepo().Add(&comment, ""))

	require.NoError(t, db.PostRepo().Delete(post.ID))

	_, err := db.PostRepo().FindByID(post.ID)
	assert.True(t, IsNotFound(err))

	_, err = db.CommentRepo().FindByID(comment.ID)
	assert.True(t, IsNotFound(err))

	// the tag itself survives, only the link is gone
	counts, err := db.TagRepo().FindAllWithCounts()
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(0), counts[0].PostCount)
}

// TestPublicationLifecycle walks a post from draft to published the way the
// dashboard does it.
func TestPublicationLifecycle(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	category := models.Category{Name: "Tech"}
	require.NoError(t, db.CategoryRepo().Add(&category))
	assert.Equal(t, "tech", category.Slug)

	post := models.Post{
		Title:      "Hello World",
		Content:    "short",
		AuthorID:   author.ID,
		CategoryID: &category.ID,
		Status:     models.StatusDraft,
	}
	require.NoError(t, db.PostRepo().Add(&post))

	// the draft derived its excerpt verbatim and has no publication date
	assert.Equal(t, "short", post.Excerpt)
	assert.Nil(t, post.PublishedAt)

	listed, _, err := db.PostRepo().PublishedPage(1)
	require.NoError(t, err)
	assert.Empty(t, listed)

	post.Status = models.StatusPublished
	require.NoError(t, db.PostRepo().Update(&post))
	require.NotNil(t, post.PublishedAt)

	listed, _, err = db.PostRepo().PublishedPage(1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Hello World", listed[0].Title)

	byCategory, _, err := db.PostRepo().ByCategory(category.ID, 1)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	for i := 0; i < 3; i++ {
		_, err := db.PostRepo().GetPublished(post.Slug)
		require.NoError(t, err)
	}
	reread, err := db.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), reread.Views)
}
