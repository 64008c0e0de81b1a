package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated to the full schema.
// The pool is pinned to a single connection: in-memory sqlite databases live
// and die with their connection.
func newTestDB(t *testing.T) Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	))

	return New(db)
}

func seedUser(t *testing.T, db Database, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.UserRepo().Add(&user))
	return &user
}

// seedPublishedPost creates a published post with an explicit publication
// time so ordering across posts is deterministic.
func seedPublishedPost(t *testing.T, db Database, author *models.User, title string, publishedAt time.Time) *models.Post {
	t.Helper()

	post := models.Post{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    author.ID,
		Status:      models.StatusPublished,
		PublishedAt: &publishedAt,
	}
	require.NoError(t, db.PostRepo().Add(&post))
	return &post
}

func seedDraftPost(t *testing.T, db Database, author *models.User, title string) *models.Post {
	t.Helper()

	post := models.Post{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: author.ID,
		Status:   models.StatusDraft,
	}
	require.NoError(t, db.PostRepo().Add(&post))
	return &post
}
