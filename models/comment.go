package models

import "time"

// Comment is a reader comment on a post. The tree is two levels deep: a
// comment either has no parent or replies to a top-level comment on the same
// post. Comments are hidden from public listings until approved.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"postId" gorm:"index;not null"`
	Post       *Post     `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID     *uint     `json:"userId,omitempty" gorm:"index"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name       string    `json:"name,omitempty" gorm:"type:varchar(100)"`
	Email      string    `json:"email,omitempty" gorm:"type:varchar(254)"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	ParentID   *uint     `json:"parentId,omitempty" gorm:"index"`
	Replies    []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
	IsApproved bool      `json:"isApproved" gorm:"default:false;index"`
	IPAddress  string    `json:"-" gorm:"type:varchar(45)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// CommenterKind discriminates how a comment's display name was resolved.
type CommenterKind int

const (
	CommenterAnonymous CommenterKind = iota
	CommenterRegistered
	CommenterGuest
)

// Commenter is the resolved identity of a comment author: a registered user's
// handle, a guest-supplied name, or anonymous.
type Commenter struct {
	Kind CommenterKind
	Name string
}

// AnonymousName labels comments with neither a user nor a guest name.
const AnonymousName = "anonymous"

// Commenter resolves the author identity once, at read time. The User
// association must be preloaded for registered commenters to resolve.
func (c *Comment) Commenter() Commenter {
	if c.User != nil {
		return Commenter{Kind: CommenterRegistered, Name: c.User.Username}
	}
	if c.Name != "" {
		return Commenter{Kind: CommenterGuest, Name: c.Name}
	}
	return Commenter{Kind: CommenterAnonymous, Name: AnonymousName}
}

// DisplayName returns the name shown next to the comment.
func (c *Comment) DisplayName() string {
	return c.Commenter().Name
}
