package models

import (
	"time"

	"gorm.io/gorm"
)

// Post status values
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ExcerptLength is the number of characters of content used when deriving an
// excerpt for a post that was saved without one.
const ExcerptLength = 200

// Category groups posts; each post belongs to at most one category.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeSave derives the slug from the name the first time the category is
// saved. Slugs are never recomputed once set.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

// Tag is a flat label attachable to any number of posts.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex"`
	Slug      string    `json:"slug" gorm:"type:varchar(50);not null;uniqueIndex"`
	Color     string    `json:"color" gorm:"type:varchar(7);default:#007bff"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return nil
}

// Post represents an article with its publication lifecycle state.
type Post struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	AuthorID    uint       `json:"authorId" gorm:"index;not null"`
	Author      *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CategoryID  *uint      `json:"categoryId,omitempty" gorm:"index"`
	Category    *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags        []Tag      `json:"tags,omitempty" gorm:"many2many:post_tags"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Excerpt     string     `json:"excerpt" gorm:"type:text"`
	CoverImage  string     `json:"coverImage,omitempty" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:draft;index"`
	IsFeatured  bool       `json:"isFeatured" gorm:"default:false"`
	Views       uint       `json:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" gorm:"index"`
}

// BeforeSave applies the save-time lifecycle rules:
//   - an empty slug gets the normalized title plus a random hex suffix, and is
//     immutable afterwards
//   - entering the published status stamps PublishedAt when it has no value;
//     the draft status clears it unconditionally
//   - an empty excerpt is derived from the first ExcerptLength characters of
//     content, with "..." appended when content is longer than that
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = PostSlug(p.Title)
	}

	switch p.Status {
	case StatusPublished:
		if p.PublishedAt == nil {
			now := time.Now()
			p.PublishedAt = &now
		}
	case StatusDraft:
		p.PublishedAt = nil
	}

	if p.Excerpt == "" && p.Content != "" {
		p.Excerpt = DeriveExcerpt(p.Content)
	}
	return nil
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool {
	return p.Status == StatusPublished
}

// DeriveExcerpt returns the preview text for content that was saved without an
// explicit excerpt. Lengths are measured in characters, not bytes, and the
// truncation marker is only added when content exceeds the limit.
func DeriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		return string(runes[:ExcerptLength]) + "..."
	}
	return content
}
