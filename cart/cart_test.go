package cart

import (
	"encoding/json"
	"testing"

	"sushi-shop-api/models"
	"sushi-shop-api/storage"
)

var (
	philadelphia = models.Product{ID: "p1", Code: "philadelphia", Name: "Филадельфия", Price: 899, ImageURL: "/img/ph.jpg"}
	cola         = models.Product{ID: "p2", Code: "cola-05", Name: "Кола 0.5", Price: 120}
)

func TestLineKey(t *testing.T) {
	if got := LineKey("p1", nil); got != "p1:base" {
		t.Errorf("no modifiers: key = %q", got)
	}
	if got := LineKey("p1", json.RawMessage("null")); got != "p1:base" {
		t.Errorf("null modifiers: key = %q", got)
	}
	mods := json.RawMessage(`[{"name":"16 шт"}]`)
	if got := LineKey("p1", mods); got != "p1:"+string(mods) {
		t.Errorf("with modifiers: key = %q", got)
	}
}

func TestCartAddMergesLines(t *testing.T) {
	s := Load(storage.NewMemoryStorage(), storage.KeyCart)

	if err := s.Add(philadelphia, 2, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(philadelphia, 3, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].Qty != 5 {
		t.Fatalf("items = %+v, want one line with qty 5", items)
	}

	// Different modifier selections occupy separate lines.
	if err := s.Add(philadelphia, 1, json.RawMessage(`[{"name":"16 шт"}]`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(s.Items()) != 2 {
		t.Errorf("lines = %d, want 2", len(s.Items()))
	}
}

func TestCartTotals(t *testing.T) {
	s := Load(storage.NewMemoryStorage(), storage.KeyCart)
	_ = s.Add(philadelphia, 2, nil)
	_ = s.Add(cola, 3, nil)

	if want := 2*899 + 3*120; s.Total() != want {
		t.Errorf("total = %d, want %d", s.Total(), want)
	}
	if s.Count() != 5 {
		t.Errorf("count = %d, want 5", s.Count())
	}
}

func TestCartSetQty(t *testing.T) {
	s := Load(storage.NewMemoryStorage(), storage.KeyCart)
	_ = s.Add(philadelphia, 2, nil)
	key := s.Items()[0].Key

	if err := s.SetQty(key, 7); err != nil {
		t.Fatalf("SetQty: %v", err)
	}
	if s.Items()[0].Qty != 7 {
		t.Errorf("qty = %d, want 7", s.Items()[0].Qty)
	}

	// Zero (and anything below) prunes the line.
	if err := s.SetQty(key, -3); err != nil {
		t.Fatalf("SetQty: %v", err)
	}
	if len(s.Items()) != 0 {
		t.Errorf("items = %+v, want empty", s.Items())
	}

	if err := s.SetQty("missing:base", 1); err != nil {
		t.Errorf("SetQty on a missing line must be a no-op, got %v", err)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	s := Load(storage.NewMemoryStorage(), storage.KeyCart)
	_ = s.Add(philadelphia, 1, nil)
	_ = s.Add(cola, 1, nil)

	if err := s.Remove(LineKey(cola.ID, nil)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(s.Items()) != 1 || s.Items()[0].ProductID != philadelphia.ID {
		t.Errorf("items = %+v", s.Items())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(s.Items()) != 0 || s.Total() != 0 {
		t.Error("cart must be empty after Clear")
	}
}

func TestCartPersistence(t *testing.T) {
	store := storage.NewMemoryStorage()

	s := Load(store, storage.KeyCart)
	_ = s.Add(philadelphia, 2, nil)
	_ = s.Add(cola, 1, nil)

	// A second load over the same storage sees the same lines.
	reloaded := Load(store, storage.KeyCart)
	if reloaded.Count() != 3 || reloaded.Total() != 2*899+120 {
		t.Errorf("reloaded count=%d total=%d", reloaded.Count(), reloaded.Total())
	}

	// An unrelated key starts empty.
	other := Load(store, storage.KeyCart+":other")
	if len(other.Items()) != 0 {
		t.Error("unrelated cart key must start empty")
	}
}

func TestCartSnapshot(t *testing.T) {
	s := Load(storage.NewMemoryStorage(), storage.KeyCart)
	mods := json.RawMessage(`[{"name":"16 шт"}]`)
	_ = s.Add(philadelphia, 2, mods)

	snapshot := s.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
	in := snapshot[0]
	if in.ProductID != "p1" || in.Qty != 2 || in.Price != 899 || in.Name != "Филадельфия" {
		t.Errorf("snapshot line = %+v", in)
	}
	if string(in.Modifiers) != string(mods) {
		t.Errorf("modifiers = %s", in.Modifiers)
	}
}
