package models

import (
	"encoding/json"
	"time"
)

// OrderStatus represents all possible states of a storefront order
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCanceled   OrderStatus = "canceled"
)

// OrderStatusLabels maps statuses to the labels shown in the admin console.
var OrderStatusLabels = map[OrderStatus]string{
	StatusNew:        "Новый",
	StatusInProgress: "В работе",
	StatusReady:      "Готов",
	StatusCompleted:  "Выдан",
	StatusCanceled:   "Отменён",
}

func (s OrderStatus) Valid() bool {
	_, ok := OrderStatusLabels[s]
	return ok
}

type OrderMethod string

const (
	MethodPickup   OrderMethod = "pickup"
	MethodDelivery OrderMethod = "delivery"
)

type Order struct {
	ID     string      `json:"id" gorm:"primaryKey"`
	Number string      `json:"number" gorm:"not null"`
	Status OrderStatus `json:"status" gorm:"not null;default:'new'"`
	// Total is computed once at creation from the item snapshots and never
	// recomputed afterwards.
	Total        int         `json:"total"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	Comment      string      `json:"comment"`
	Method       OrderMethod `json:"method"`
	Address      string      `json:"address"`
	IsPaid       bool        `json:"isPaid"`
	Items        []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// OrderItem snapshots product name/price/image at order time so later product
// edits never change historical orders.
type OrderItem struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	OrderID          string          `json:"-" gorm:"index;not null"`
	ProductID        string          `json:"productId"`
	Qty              int             `json:"qty"`
	PriceAtOrderTime int             `json:"priceAtOrderTime"`
	NameSnapshot     string          `json:"nameSnapshot"`
	ImageSnapshot    string          `json:"imageSnapshot"`
	Modifiers        json.RawMessage `json:"modifiers" gorm:"serializer:json"`
}

type OrderItemInput struct {
	ProductID string          `json:"productId" binding:"required"`
	Qty       int             `json:"qty"`
	Price     int             `json:"price"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Modifiers json.RawMessage `json:"modifiers"`
}

type OrderInput struct {
	CustomerName string           `json:"customerName" binding:"required"`
	Phone        string           `json:"phone" binding:"required"`
	Comment      string           `json:"comment"`
	Method       OrderMethod      `json:"method"`
	Address      string           `json:"address"`
	IsPaid       bool             `json:"isPaid"`
	Items        []OrderItemInput `json:"items" binding:"required"`
}
