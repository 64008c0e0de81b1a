package database

import (
	"errors"
	"strings"
	"time"

	"github.com/jhzhou002/blog-yk/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// StaffFilter narrows the dashboard post listing. Zero values mean "no
// filter" for their field.
type StaffFilter struct {
	Search     string
	Status     string
	CategoryID uint
}

// ArchiveEntry is one (year, month) group of published posts.
type ArchiveEntry struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

func (r *PostRepo) preloaded() *gorm.DB {
	return r.db.Preload("Author").Preload("Category").Preload("Tags")
}

// FindByID returns a post by its ID with its associations
func (r *PostRepo) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.preloaded().First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug returns a post by its slug regardless of status
func (r *PostRepo) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := r.preloaded().Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublished looks up a published post by slug and counts the read. The
// increment is a relative update executed by the database, so simultaneous
// reads of the same post cannot lose counts, and the returned post is
// re-read from storage after the increment. A failed increment fails the
// whole fetch.
func (r *PostRepo) GetPublished(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Select("id").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&post).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return nil, err
	}

	if err := r.preloaded().First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update saves an existing post
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// ReplaceTags sets the post's tag associations to exactly the given tags
func (r *PostRepo) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// Delete removes a post together with its comments and tag links
func (r *PostRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

func (r *PostRepo) findPage(scope func(*gorm.DB) *gorm.DB, order string, page, pageSize int) ([]*models.Post, PageInfo, error) {
	query := scope(r.db.Model(&models.Post{}))
	query, info, err := paginate(query, page, pageSize)
	if err != nil {
		return nil, info, err
	}

	var posts []*models.Post
	err = query.Order(order).
		Preload("Author").Preload("Category").Preload("Tags").
		Find(&posts).Error
	return posts, info, err
}

func published(query *gorm.DB) *gorm.DB {
	return query.Where("status = ?", models.StatusPublished)
}

// PublishedPage returns one page of the public listing, newest publication first
func (r *PostRepo) PublishedPage(page int) ([]*models.Post, PageInfo, error) {
	return r.findPage(published, "published_at DESC", page, PublicPageSize)
}

// ByCategory returns one page of published posts in a category
func (r *PostRepo) ByCategory(categoryID uint, page int) ([]*models.Post, PageInfo, error) {
	return r.findPage(func(q *gorm.DB) *gorm.DB {
		return published(q).Where("category_id = ?", categoryID)
	}, "published_at DESC", page, PublicPageSize)
}

// ByTag returns one page of published posts carrying a tag
func (r *PostRepo) ByTag(tagID uint, page int) ([]*models.Post, PageInfo, error) {
	return r.findPage(func(q *gorm.DB) *gorm.DB {
		return published(q).
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", tagID)
	}, "published_at DESC", page, PublicPageSize)
}

// Search returns one page of published posts matching the query as a
// case-insensitive substring of title, content or excerpt.
func (r *PostRepo) Search(q string, page int) ([]*models.Post, PageInfo, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	return r.findPage(func(query *gorm.DB) *gorm.DB {
		return published(query).Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(excerpt) LIKE ?",
			pattern, pattern, pattern,
		)
	}, "published_at DESC", page, PublicPageSize)
}

// StaffPage returns one page of the dashboard listing across all statuses,
// newest created first.
func (r *PostRepo) StaffPage(filter StaffFilter, page int) ([]*models.Post, PageInfo, error) {
	return r.findPage(func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.CategoryID != 0 {
			q = q.Where("category_id = ?", filter.CategoryID)
		}
		return q
	}, "created_at DESC", page, StaffPostPageSize)
}

// Previous returns the closest earlier published post in publication order,
// or nil when there is none. Draft posts never participate.
func (r *PostRepo) Previous(post *models.Post) (*models.Post, error) {
	if post.PublishedAt == nil {
		return nil, nil
	}
	var prev models.Post
	err := r.db.Where("status = ? AND published_at < ?", models.StatusPublished, post.PublishedAt).
		Order("published_at DESC").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}

// Next returns the closest later published post in publication order, or nil
func (r *PostRepo) Next(post *models.Post) (*models.Post, error) {
	if post.PublishedAt == nil {
		return nil, nil
	}
	var next models.Post
	err := r.db.Where("status = ? AND published_at > ?", models.StatusPublished, post.PublishedAt).
		Order("published_at ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// Related returns other published posts from the same category
func (r *PostRepo) Related(post *models.Post, limit int) ([]*models.Post, error) {
	if post.CategoryID == nil {
		return nil, nil
	}
	var posts []*models.Post
	err := published(r.db).
		Where("category_id = ? AND id <> ?", *post.CategoryID, post.ID).
		Order("published_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Featured returns the most recent featured published posts
func (r *PostRepo) Featured(limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := published(r.db).Where("is_featured = ?", true).
		Order("published_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// Popular returns published posts ordered by view count
func (r *PostRepo) Popular(limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := published(r.db).Order("views DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// Latest returns the most recently published posts
func (r *PostRepo) Latest(limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := published(r.db).Order("published_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// Recent returns the most recently created posts of any status
func (r *PostRepo) Recent(limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.preloaded().Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// Count returns the number of posts, optionally restricted to one status
func (r *PostRepo) Count(status string) (int64, error) {
	query := r.db.Model(&models.Post{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Archive groups published posts by (year, month) of their publication date,
// newest group first. Grouping happens here rather than in SQL so the same
// query serves every supported database.
func (r *PostRepo) Archive() ([]ArchiveEntry, error) {
	var dates []time.Time
	err := r.db.Model(&models.Post{}).
		Where("status = ?", models.StatusPublished).
		Order("published_at DESC").
		Pluck("published_at", &dates).Error
	if err != nil {
		return nil, err
	}

	var entries []ArchiveEntry
	for _, d := range dates {
		y, m := d.Year(), int(d.Month())
		if n := len(entries); n > 0 && entries[n-1].Year == y && entries[n-1].Month == m {
			entries[n-1].Count++
			continue
		}
		entries = append(entries, ArchiveEntry{Year: y, Month: m, Count: 1})
	}
	return entries, nil
}

// ArchiveMonth returns one page of posts published within a calendar month
func (r *PostRepo) ArchiveMonth(year, month, page int) ([]*models.Post, PageInfo, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	return r.findPage(func(q *gorm.DB) *gorm.DB {
		return published(q).Where("published_at >= ? AND published_at < ?", start, end)
	}, "published_at DESC", page, PublicPageSize)
}
