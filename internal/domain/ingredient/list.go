package ingredient

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// List is the working set of ingredients a person edits before asking for
// recipes. Order is insertion order; identifiers are the only uniqueness
// constraint, duplicate names are allowed.
type List struct {
	mu    sync.RWMutex
	items []Ingredient
}

// NewList creates an empty list
func NewList() *List {
	return &List{}
}

// NewListFrom creates a list seeded with recognition results
func NewListFrom(items []Ingredient) *List {
	l := &List{items: make([]Ingredient, len(items))}
	copy(l.items, items)
	return l
}

// Patch carries optional field updates for an ingredient. Nil fields are
// left untouched.
type Patch struct {
	Name      *string
	Quantity  *string
	Freshness *Freshness
}

// Add validates the name, assigns a fresh identifier, appends the item and
// marks it as manually entered. Returns the stored ingredient.
func (l *List) Add(name, quantity string, freshness Freshness) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrEmptyName
	}
	if !freshness.Valid() {
		freshness = FreshnessUnknown
	}

	item := Ingredient{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  strings.TrimSpace(quantity),
		Freshness: freshness,
		Manual:    true,
	}

	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()

	return item, nil
}

// Update replaces fields in place, preserving position. A patched name must
// be non-empty.
func (l *List) Update(id uuid.UUID, patch Patch) (Ingredient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID != id {
			continue
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return Ingredient{}, ErrEmptyName
			}
			l.items[i].Name = name
		}
		if patch.Quantity != nil {
			l.items[i].Quantity = strings.TrimSpace(*patch.Quantity)
		}
		if patch.Freshness != nil && patch.Freshness.Valid() {
			l.items[i].Freshness = *patch.Freshness
		}
		return l.items[i], nil
	}

	return Ingredient{}, ErrNotFound
}

// Remove deletes the item with the given identifier. Removing an absent
// identifier is a no-op.
func (l *List) Remove(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Get returns the item with the given identifier
func (l *List) Get(id uuid.UUID) (Ingredient, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return Ingredient{}, false
}

// Items returns a copy of the list in order
func (l *List) Items() []Ingredient {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]Ingredient, len(l.items))
	copy(items, l.items)
	return items
}

// Names returns the ingredient names in order, the shape the recipe
// generation endpoint expects.
func (l *List) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, len(l.items))
	for i, item := range l.items {
		names[i] = item.Name
	}
	return names
}

// Len returns the number of items
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
