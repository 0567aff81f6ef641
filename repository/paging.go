package repository

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sushi-shop-api/models"
)

// ClampPage forces a requested page into [1, totalPages]. Asking past the end
// yields the last page, never an empty error page.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate applies the pagination law: totalPages = max(1, ceil(total/pageSize)).
// It returns the slice bounds for the clamped page.
func Paginate(total, page, pageSize int) (start, end int, p models.Pagination) {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	safePage := ClampPage(page, totalPages)
	start = (safePage - 1) * pageSize
	end = start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end, models.Pagination{
		Page:       safePage,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

func newNameCollator() *collate.Collator {
	return collate.New(language.Russian)
}

// SortCategories orders by sortOrder ascending, names compared with the
// Russian collator on ties.
func SortCategories(items []models.Category) []models.Category {
	out := make([]models.Category, len(items))
	copy(out, items)
	cl := newNameCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return cl.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func SortProducts(items []models.Product) []models.Product {
	out := make([]models.Product, len(items))
	copy(out, items)
	cl := newNameCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return cl.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// FilterProducts applies category, availability and case-insensitive
// substring search over name+description+code. Input order is preserved.
func FilterProducts(items []models.Product, query ProductQuery) []models.Product {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	out := make([]models.Product, 0, len(items))
	for _, item := range items {
		if query.CategoryCode != "" && !productInCategory(item, query.CategoryCode) {
			continue
		}
		if query.OnlyAvailable && !item.IsAvailable {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(item.Name + " " + item.Description + " " + item.Code)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func productInCategory(item models.Product, code string) bool {
	if item.CategoryCode == code {
		return true
	}
	for _, c := range item.CategoryCodes {
		if c == code {
			return true
		}
	}
	return false
}

// FilterOrders applies exact status match and substring search over
// number+customer name+phone.
func FilterOrders(items []models.Order, query OrderQuery) []models.Order {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	out := make([]models.Order, 0, len(items))
	for _, order := range items {
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(order.Number + " " + order.CustomerName + " " + order.Phone)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, order)
	}
	return out
}
