package database

import (
	"errors"
	"strconv"

	"github.com/jhzhou002/blog-yk/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Add stores a new comment. parentRef is the raw parent id supplied by the
// submitter; when it does not resolve to an existing comment on the same post
// (non-numeric, unknown, or belonging to another post) the comment is stored
// as a top-level comment instead of being rejected.
func (r *CommentRepo) Add(comment *models.Comment, parentRef string) error {
	comment.ParentID = nil
	if parentRef != "" {
		if parentID, err := strconv.ParseUint(parentRef, 10, 64); err == nil {
			var parent models.Comment
			err := r.db.Select("id").
				Where("id = ? AND post_id = ?", uint(parentID), comment.PostID).
				First(&parent).Error
			if err == nil {
				comment.ParentID = &parent.ID
			}
		}
	}
	return r.db.Create(comment).Error
}

// FindByID returns a comment with its author and post
func (r *CommentRepo) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").Preload("Post").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// VisibleForPost returns the approved comment tree of a post: top-level
// comments in creation order, each carrying its approved replies in creation
// order. Unapproved comments never appear.
func (r *CommentRepo) VisibleForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Where("post_id = ? AND is_approved = ? AND parent_id IS NULL", postID, true).
		Order("created_at ASC").
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_approved = ?", true).Order("created_at ASC").Preload("User")
		}).
		Find(&comments).Error
	return comments, err
}

// Approve marks a comment as publicly visible. Approving an already approved
// comment leaves it unchanged.
func (r *CommentRepo) Approve(id uint) error {
	return r.setApproved(id, true)
}

// Reject hides a comment from public listings
func (r *CommentRepo) Reject(id uint) error {
	return r.setApproved(id, false)
}

func (r *CommentRepo) setApproved(id uint, approved bool) error {
	res := r.db.Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// distinguish "no such comment" from an idempotent no-op update
		var count int64
		if err := r.db.Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a comment and its replies
func (r *CommentRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id").First(&comment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

// StaffPage returns one page of the moderation listing, newest first.
// approved filters by moderation state when non-nil.
func (r *CommentRepo) StaffPage(approved *bool, page int) ([]models.Comment, PageInfo, error) {
	query := r.db.Model(&models.Comment{})
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}

	query, info, err := paginate(query, page, StaffCommentPageSize)
	if err != nil {
		return nil, info, err
	}

	var comments []models.Comment
	err = query.Order("created_at DESC").
		Preload("User").Preload("Post").
		Find(&comments).Error
	return comments, info, err
}

// Recent returns the newest comments across all posts
func (r *CommentRepo) Recent(limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Order("created_at DESC").Limit(limit).
		Preload("User").Preload("Post").
		Find(&comments).Error
	return comments, err
}

// Count returns the number of comments; pending restricts it to unapproved ones
func (r *CommentRepo) Count(pending bool) (int64, error) {
	query := r.db.Model(&models.Comment{})
	if pending {
		query = query.Where("is_approved = ?", false)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// IsNotFound reports whether err is the store's missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
