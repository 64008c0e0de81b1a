package database

import (
	"github.com/jhzhou002/blog-yk/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns a user with their profile
func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by their unique username
func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by their unique email
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// AddProfile inserts the profile row for a user
func (r *UserRepo) AddProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// UpdateProfile saves a user's profile
func (r *UserRepo) UpdateProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// FindProfileByUserID returns the profile belonging to a user
func (r *UserRepo) FindProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Count returns the number of registered users
func (r *UserRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
