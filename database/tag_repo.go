package database

import (
	"github.com/jhzhou002/blog-yk/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// TagWithCount pairs a tag with the number of posts carrying it
type TagWithCount struct {
	models.Tag
	PostCount int64 `json:"postCount"`
}

// FindAll returns all tags ordered by name, up to limit when limit > 0
func (r *TagRepo) FindAll(limit int) ([]models.Tag, error) {
	query := r.db.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var tags []models.Tag
	err := query.Find(&tags).Error
	return tags, err
}

// FindAllWithCounts returns all tags with their post counts
func (r *TagRepo) FindAllWithCounts() ([]TagWithCount, error) {
	var rows []TagWithCount
	err := r.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID returns a tag by its ID
func (r *TagRepo) FindByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindBySlug returns a tag by its slug
func (r *TagRepo) FindBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDs returns the tags for the given ids
func (r *TagRepo) FindByIDs(ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// SlugTaken reports whether a tag slug is already in use
func (r *TagRepo) SlugTaken(slug string) bool {
	var count int64
	r.db.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count)
	return count > 0
}

// Add inserts a new tag
func (r *TagRepo) Add(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// Update saves an existing tag
func (r *TagRepo) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// Delete removes a tag and its post links
func (r *TagRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
}

// Count returns the number of tags
func (r *TagRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Count(&count).Error
	return count, err
}
