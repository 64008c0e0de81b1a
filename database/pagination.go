package database

import "gorm.io/gorm"

// Fixed page sizes per view.
const (
	PublicPageSize       = 10
	StaffPostPageSize    = 15
	StaffCommentPageSize = 20
)

// PageInfo describes the page that was actually served. Out-of-range page
// requests clamp to the nearest valid page instead of erroring, so Page here
// may differ from the page that was asked for.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

// paginate counts the scoped query, clamps the requested page into range and
// returns the query with limit/offset applied plus the resulting PageInfo.
// An empty result set still reports one (empty) page.
func paginate(query *gorm.DB, page, pageSize int) (*gorm.DB, PageInfo, error) {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, PageInfo{}, err
	}

	totalPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	info := PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: count,
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize), info, nil
}
