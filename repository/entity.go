package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"sushi-shop-api/models"
	"sushi-shop-api/utils"
)

// NewID generates a prefixed identifier like "prd_9f1c2ab4e6d3".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func intOr(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}

func boolOr(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}

// productFromInput builds the full product entity with the documented
// defaults: active unless disabled, sortOrder 9999, images/media falling back
// to the primary image, categoryCodes mirroring the primary category.
func productFromInput(input models.ProductInput, now time.Time) models.Product {
	images := input.Images
	if images == nil && input.ImageURL != "" {
		images = []string{input.ImageURL}
	}
	media := input.Media
	if media == nil && input.ImageURL != "" {
		media = []string{input.ImageURL}
	}
	tags := input.Tags
	if tags == nil {
		tags = []models.ProductTag{}
	}
	return models.Product{
		ID:            input.ID,
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		CategoryCode:  input.CategoryCode,
		CategoryCodes: []string{input.CategoryCode},
		Price:         input.Price,
		OldPrice:      input.OldPrice,
		Weight:        input.Weight,
		Calories:      input.Calories,
		Volume:        input.Volume,
		ImageURL:      input.ImageURL,
		Images:        images,
		Media:         media,
		IsAvailable:   boolOr(input.IsAvailable, true),
		SortOrder:     intOr(input.SortOrder, 9999),
		Tags:          tags,
		Modifications: input.Modifications,
		ToppingGroups: input.ToppingGroups,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func categoryFromInput(input models.CategoryInput, now time.Time) models.Category {
	id := input.ID
	if id == "" {
		id = input.Code
	}
	return models.Category{
		ID:          id,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		SortOrder:   intOr(input.SortOrder, 9999),
		IsActive:    boolOr(input.IsActive, true),
		CoverImage:  input.CoverImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// buildOrderItems snapshots the submitted line items and computes the order
// total as sum(qty × priceAtOrderTime).
func buildOrderItems(inputs []models.OrderItemInput) ([]models.OrderItem, int) {
	items := make([]models.OrderItem, 0, len(inputs))
	total := 0
	for _, in := range inputs {
		qty := in.Qty
		if qty <= 0 {
			qty = 1
		}
		item := models.OrderItem{
			ID:               NewID("itm"),
			ProductID:        in.ProductID,
			Qty:              qty,
			PriceAtOrderTime: in.Price,
			NameSnapshot:     in.Name,
			ImageSnapshot:    in.ImageURL,
			Modifiers:        in.Modifiers,
		}
		total += item.Qty * item.PriceAtOrderTime
		items = append(items, item)
	}
	return items, total
}

// orderFromInput assembles a new order around the snapshot items. Number and
// id generation stay with the provider.
func orderFromInput(input models.OrderInput, id, number string, now time.Time) models.Order {
	items, total := buildOrderItems(input.Items)
	for i := range items {
		items[i].OrderID = id
	}
	method := models.MethodPickup
	if input.Method == models.MethodDelivery {
		method = models.MethodDelivery
	}
	return models.Order{
		ID:           id,
		Number:       number,
		Status:       models.StatusNew,
		Total:        total,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Phone:        utils.FormatPhone(input.Phone),
		Comment:      strings.TrimSpace(input.Comment),
		Method:       method,
		Address:      strings.TrimSpace(input.Address),
		IsPaid:       input.IsPaid,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func logDetails(pairs map[string]any) json.RawMessage {
	data, err := json.Marshal(pairs)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
