package database

import (
	"github.com/jhzhou002/blog-yk/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// CategoryWithCount pairs a category with the number of posts in it
type CategoryWithCount struct {
	models.Category
	PostCount int64 `json:"postCount"`
}

// FindAll returns all categories ordered by name
func (r *CategoryRepo) FindAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// FindAllWithCounts returns all categories with their post counts, for the
// dashboard listing
func (r *CategoryRepo) FindAllWithCounts() ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.db.Model(&models.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID returns a category by its ID
func (r *CategoryRepo) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug returns a category by its slug
func (r *CategoryRepo) FindBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// SlugTaken reports whether a category slug is already in use
func (r *CategoryRepo) SlugTaken(slug string) bool {
	var count int64
	r.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count)
	return count > 0
}

// Add inserts a new category
func (r *CategoryRepo) Add(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update saves an existing category
func (r *CategoryRepo) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a category; posts keep existing with no category
func (r *CategoryRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

// Count returns the number of categories
func (r *CategoryRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Count(&count).Error
	return count, err
}
