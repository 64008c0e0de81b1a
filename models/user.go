package models

import "time"

// User is a registered account. Staff users can access the dashboard.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	IsStaff      bool      `json:"isStaff" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// Profile holds the public-facing extras for a user. It is created together
// with the user at registration, one row per account.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	Avatar    string    `json:"avatar,omitempty" gorm:"type:text"`
	Bio       string    `json:"bio,omitempty" gorm:"type:varchar(500)"`
	Website   string    `json:"website,omitempty" gorm:"type:text"`
	Github    string    `json:"github,omitempty" gorm:"type:varchar(100)"`
	Location  string    `json:"location,omitempty" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
