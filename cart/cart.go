// Package cart implements the client-side line-item accumulator. Lines are
// keyed by product plus modifier selection, so the same product with
// different modifiers occupies separate lines.
package cart

import (
	"encoding/json"
	"sync"

	"sushi-shop-api/models"
	"sushi-shop-api/storage"
)

type Item struct {
	Key       string          `json:"key"`
	ProductID string          `json:"productId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Price     int             `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Qty       int             `json:"qty"`
	Modifiers json.RawMessage `json:"modifiers"`
}

// LineKey builds the line identity: product id plus the serialized modifier
// selection, "base" when there is none.
func LineKey(productID string, modifiers json.RawMessage) string {
	if len(modifiers) == 0 || string(modifiers) == "null" {
		return productID + ":base"
	}
	return productID + ":" + string(modifiers)
}

// Store persists its items after every mutation and is never synchronized to
// the server until checkout.
type Store struct {
	mu    sync.Mutex
	store storage.Storage
	key   string
	items []Item
}

// Load reads an existing cart from storage, starting empty when the blob is
// absent or unreadable.
func Load(store storage.Storage, key string) *Store {
	s := &Store{store: store, key: key, items: []Item{}}
	if raw, ok := store.Get(key); ok {
		var items []Item
		if err := json.Unmarshal(raw, &items); err == nil && items != nil {
			s.items = items
		}
	}
	return s
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return s.store.Set(s.key, data)
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Qty
	}
	return count
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Qty * item.Price
	}
	return total
}

// Add increments an existing line or appends a new one, then prunes any line
// left at a non-positive quantity.
func (s *Store) Add(product models.Product, qty int, modifiers json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := LineKey(product.ID, modifiers)
	found := false
	for i := range s.items {
		if s.items[i].Key == key {
			s.items[i].Qty += qty
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, Item{
			Key:       key,
			ProductID: product.ID,
			Code:      product.Code,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Qty:       qty,
			Modifiers: modifiers,
		})
	}
	s.prune()
	return s.persist()
}

// SetQty clamps to a minimum of zero and prunes the line on reaching it.
func (s *Store) SetQty(key string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Key == key {
			if qty < 0 {
				qty = 0
			}
			s.items[i].Qty = qty
			s.prune()
			return s.persist()
		}
	}
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.items[:0]
	for _, item := range s.items {
		if item.Key != key {
			next = append(next, item)
		}
	}
	s.items = next
	return s.persist()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	return s.persist()
}

// Snapshot copies the current lines into order-creation inputs.
func (s *Store) Snapshot() []models.OrderItemInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.OrderItemInput, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, models.OrderItemInput{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Modifiers: item.Modifiers,
		})
	}
	return out
}

func (s *Store) prune() {
	next := s.items[:0]
	for _, item := range s.items {
		if item.Qty > 0 {
			next = append(next, item)
		}
	}
	s.items = next
}
