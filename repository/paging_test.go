package repository

import (
	"testing"

	"sushi-shop-api/models"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		pageSize   int
		wantPage   int
		wantPages  int
		wantStart  int
		wantEnd    int
	}{
		{"empty set still has one page", 0, 1, 18, 1, 1, 0, 0},
		{"exact fit", 36, 2, 18, 2, 2, 18, 36},
		{"partial last page", 45, 3, 18, 3, 3, 36, 45},
		{"page past the end clamps to last", 45, 99, 18, 3, 3, 36, 45},
		{"page zero clamps to first", 45, 0, 18, 1, 3, 0, 18},
		{"negative page clamps to first", 45, -5, 18, 1, 3, 0, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, p := Paginate(tt.total, tt.page, tt.pageSize)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("bounds = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.TotalPages != tt.wantPages {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.Total != tt.total {
				t.Errorf("total = %d, want %d", p.Total, tt.total)
			}
		})
	}
}

func TestSortCategories(t *testing.T) {
	items := []models.Category{
		{Code: "c", Name: "Суши", SortOrder: 2},
		{Code: "a", Name: "Роллы", SortOrder: 1},
		{Code: "b", Name: "Напитки", SortOrder: 2},
	}
	sorted := SortCategories(items)

	got := []string{sorted[0].Code, sorted[1].Code, sorted[2].Code}
	want := []string{"a", "b", "c"} // sortOrder first, Russian name on ties
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	// The input slice must stay untouched.
	if items[0].Code != "c" {
		t.Error("SortCategories mutated its input")
	}
}

func TestFilterProducts(t *testing.T) {
	items := []models.Product{
		{Code: "philadelphia", Name: "Филадельфия", Description: "лосось", CategoryCode: "rolls", IsAvailable: true},
		{Code: "california", Name: "Калифорния", CategoryCode: "rolls", IsAvailable: false},
		{Code: "cola", Name: "Кола", CategoryCode: "drinks", IsAvailable: true, CategoryCodes: []string{"drinks", "promo"}},
	}

	if got := FilterProducts(items, ProductQuery{CategoryCode: "rolls"}); len(got) != 2 {
		t.Errorf("category filter: got %d items, want 2", len(got))
	}
	if got := FilterProducts(items, ProductQuery{CategoryCode: "promo"}); len(got) != 1 {
		t.Errorf("secondary category filter: got %d items, want 1", len(got))
	}
	if got := FilterProducts(items, ProductQuery{OnlyAvailable: true}); len(got) != 2 {
		t.Errorf("availability filter: got %d items, want 2", len(got))
	}
	if got := FilterProducts(items, ProductQuery{Search: "ЛОСОСЬ"}); len(got) != 1 || got[0].Code != "philadelphia" {
		t.Errorf("case-insensitive search over description failed: %+v", got)
	}
	if got := FilterProducts(items, ProductQuery{Search: "cola"}); len(got) != 1 {
		t.Errorf("search over code failed: got %d items", len(got))
	}
	if got := FilterProducts(items, ProductQuery{Search: "  кола  "}); len(got) != 1 {
		t.Errorf("search must trim whitespace: got %d items", len(got))
	}
}

func TestFilterOrders(t *testing.T) {
	items := []models.Order{
		{Number: "TK23-1001", CustomerName: "Иван", Phone: "+79990001122", Status: models.StatusNew},
		{Number: "TK23-1002", CustomerName: "Мария", Phone: "+79995553344", Status: models.StatusCanceled},
	}

	if got := FilterOrders(items, OrderQuery{Status: models.StatusCanceled}); len(got) != 1 || got[0].Number != "TK23-1002" {
		t.Errorf("status filter failed: %+v", got)
	}
	if got := FilterOrders(items, OrderQuery{Search: "1001"}); len(got) != 1 {
		t.Errorf("search by number: got %d items, want 1", len(got))
	}
	if got := FilterOrders(items, OrderQuery{Search: "мария"}); len(got) != 1 {
		t.Errorf("search by name: got %d items, want 1", len(got))
	}
	if got := FilterOrders(items, OrderQuery{Search: "9995"}); len(got) != 1 {
		t.Errorf("search by phone: got %d items, want 1", len(got))
	}
}
