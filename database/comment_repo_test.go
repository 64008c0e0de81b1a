package database

import (
	"strconv"
	"testing"
	"time"

	"github.com/jhzhou002/blog-yk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedComment(t *testing.T, db Database, postID uint, content string, approved bool, createdAt time.Time) *models.Comment {
	t.Helper()

	comment := models.Comment{
		PostID:     postID,
		Name:       "guest",
		Content:    content,
		IsApproved: approved,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.CommentRepo().Add(&comment, ""))
	return &comment
}

func TestVisibleForPostShowsApprovedTree(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Discussed", time.Now())

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	second := seedComment(t, db, post.ID, "second", true, base.Add(time.Minute))
	first := seedComment(t, db, post.ID, "first", true, base)
	seedComment(t, db, post.ID, "hidden", false, base.Add(2*time.Minute))

	// two replies to the first comment, one approved
	reply := models.Comment{
		PostID:     post.ID,
		Name:       "guest",
		Content:    "visible reply",
		IsApproved: true,
		CreatedAt:  base.Add(3 * time.Minute),
	}
	require.NoError(t, db.CommentRepo().Add(&reply, strconv.FormatUint(uint64(first.ID), 10)))

	hiddenReply := models.Comment{
		PostID:    post.ID,
		Name:      "guest",
		Content:   "hidden reply",
		CreatedAt: base.Add(4 * time.Minute),
	}
	require.NoError(t, db.CommentRepo().Add(&hiddenReply, strconv.FormatUint(uint64(first.ID), 10)))

	tree, err := db.CommentRepo().VisibleForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	// top level in creation order, oldest first
	assert.Equal(t, first.ID, tree[0].ID)
	assert.Equal(t, second.ID, tree[1].ID)

	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "visible reply", tree[0].Replies[0].Content)
	assert.Empty(t, tree[1].Replies)
}

func TestAddFallsBackToTopLevelOnBadParent(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Threaded", time.Now())
	other := seedPublishedPost(t, db, author, "Other", time.Now().Add(time.Hour))
	otherComment := seedComment(t, db, other.ID, "elsewhere", true, time.Now())

	cases := []struct {
		name      string
		parentRef string
	}{
		{"non-numeric reference", "abc"},
		{"unknown id", "999999"},
		{"parent on another post", strconv.FormatUint(uint64(otherComment.ID), 10)},
		{"empty reference", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comment := models.Comment{PostID: post.ID, Name: "guest", Content: "hello"}
			require.NoError(t, db.CommentRepo().Add(&comment, tc.parentRef))
			assert.Nil(t, comment.ParentID)
		})
	}
}

func TestAddResolvesValidParent(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Threaded", time.Now())
	parent := seedComment(t, db, post.ID, "parent", true, time.Now())

	reply := models.Comment{PostID: post.ID, Name: "guest", Content: "reply"}
	require.NoError(t, db.CommentRepo().Add(&reply, strconv.FormatUint(uint64(parent.ID), 10)))
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestModerationIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Moderated", time.Now())
	comment := seedComment(t, db, post.ID, "pending", false, time.Now())

	require.NoError(t, db.CommentRepo().Approve(comment.ID))
	require.NoError(t, db.CommentRepo().Approve(comment.ID))

	approved, err := db.CommentRepo().FindByID(comment.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	require.NoError(t, db.CommentRepo().Reject(comment.ID))
	rejected, err := db.CommentRepo().FindByID(comment.ID)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)

	// moderating a missing comment reports not found
	err = db.CommentRepo().Approve(999999)
	assert.True(t, IsNotFound(err))
}

func TestDeleteRemovesReplies(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Pruned", time.Now())
	parent := seedComment(t, db, post.ID, "parent", true, time.Now())

	reply := models.Comment{PostID: post.ID, Name: "guest", Content: "reply"}
	require.NoError(t, db.CommentRepo().Add(&reply, strconv.FormatUint(uint64(parent.ID), 10)))

	require.NoError(t, db.CommentRepo().Delete(parent.ID))

	_, err := db.CommentRepo().FindByID(parent.ID)
	assert.True(t, IsNotFound(err))
	_, err = db.CommentRepo().FindByID(reply.ID)
	assert.True(t, IsNotFound(err))

	err = db.CommentRepo().Delete(parent.ID)
	assert.True(t, IsNotFound(err))
}

func TestStaffPageFiltersByApproval(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	post := seedPublishedPost(t, db, author, "Queued", time.Now())

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.Local)
	seedComment(t, db, post.ID, "approved one", true, base)
	seedComment(t, db, post.ID, "pending one", false, base.Add(time.Minute))
	seedComment(t, db, post.ID, "pending two", false, base.Add(2*time.Minute))

	all, info, err := db.CommentRepo().StaffPage(nil, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, StaffCommentPageSize, info.PageSize)
	// newest first in the moderation queue
	assert.Equal(t, "pending two", all[0].Content)

	pending := false
	pendingOnly, _, err := db.CommentRepo().StaffPage(&pending, 1)
	require.NoError(t, err)
	assert.Len(t, pendingOnly, 2)

	count, err := db.CommentRepo().Count(true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
