package models

import (
	"encoding/json"
	"time"
)

// ProductTag is a free-form code+text badge shown on product cards.
type ProductTag struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type Product struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	// CategoryCode is the primary category; CategoryCodes is the redundant
	// list-of-one kept for forward compatibility with multi-category products.
	CategoryCode  string          `json:"categoryCode" gorm:"index"`
	CategoryCodes []string        `json:"categoryCodes" gorm:"serializer:json"`
	Price         int             `json:"price"`
	OldPrice      *int            `json:"oldPrice"`
	Weight        *int            `json:"weight"`
	Calories      *int            `json:"calories"`
	Volume        *int            `json:"volume"`
	ImageURL      string          `json:"imageUrl"`
	Images        []string        `json:"images" gorm:"serializer:json"`
	Media         []string        `json:"media" gorm:"serializer:json"`
	IsAvailable   bool            `json:"isAvailable" gorm:"default:true"`
	SortOrder     int             `json:"sortOrder" gorm:"default:9999"`
	Tags          []ProductTag    `json:"tags" gorm:"serializer:json"`
	Modifications json.RawMessage `json:"modifications" gorm:"serializer:json"`
	ToppingGroups json.RawMessage `json:"toppingGroups" gorm:"serializer:json"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ProductInput struct {
	ID            string          `json:"id"`
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	CategoryCode  string          `json:"categoryCode" binding:"required"`
	Price         int             `json:"price"`
	OldPrice      *int            `json:"oldPrice"`
	Weight        *int            `json:"weight"`
	Calories      *int            `json:"calories"`
	Volume        *int            `json:"volume"`
	ImageURL      string          `json:"imageUrl"`
	Images        []string        `json:"images"`
	Media         []string        `json:"media"`
	IsAvailable   *bool           `json:"isAvailable"`
	SortOrder     *int            `json:"sortOrder"`
	Tags          []ProductTag    `json:"tags"`
	Modifications json.RawMessage `json:"modifications"`
	ToppingGroups json.RawMessage `json:"toppingGroups"`
}
