package models

import (
	"encoding/json"
	"time"
)

// Audit action kinds written by mutating admin operations. Order creation is a
// public-facing create and deliberately writes no log entry.
const (
	ActionProductCreate      = "product_create"
	ActionProductUpdate      = "product_update"
	ActionProductUpsert      = "product_upsert"
	ActionProductDelete      = "product_delete"
	ActionCategoryCreate     = "category_create"
	ActionCategoryUpdate     = "category_update"
	ActionCategoryUpsert     = "category_upsert"
	ActionCategoryDelete     = "category_delete"
	ActionOrderStatusUpdate  = "order_status_update"
	ActionOrderPaymentUpdate = "order_payment_update"
	ActionSettingsUpdate     = "settings_update"
)

// ActionLog is an append-only audit record. Never updated or deleted.
type ActionLog struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	Action     string          `json:"action" gorm:"not null"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	User       string          `json:"user" gorm:"column:user_login"`
	Details    json.RawMessage `json:"details" gorm:"serializer:json"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"index"`
}
