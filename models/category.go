package models

import "time"

type Category struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder" gorm:"default:9999"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	CoverImage  string    `json:"coverImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is the upsert payload. Pointer fields distinguish "absent"
// from zero so defaults (active, sortOrder 9999) apply only when omitted.
type CategoryInput struct {
	ID          string `json:"id"`
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   *int   `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
	CoverImage  string `json:"coverImage"`
}
