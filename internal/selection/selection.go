// Package selection tracks which catalog products a customer picked and in
// what quantity.
package selection

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/wolfman30/material-scheduler/internal/catalog"
)

// MinQuantity is the floor every entry's quantity is clamped to.
const MinQuantity = 1

// ErrInvalidDirection is returned for quantity deltas other than +1 and -1.
var ErrInvalidDirection = errors.New("selection: direction must be up or down")

// Direction is a single-step quantity change.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// ParseDirection accepts "up"/"plus"/"+1" and "down"/"minus"/"-1".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "plus", "+", "+1", "1":
		return Up, nil
	case "down", "minus", "-", "-1":
		return Down, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Entry is the selection record for one product. Quantity is kept when the
// product is toggled off.
type Entry struct {
	ProductID string `json:"product_id"`
	Selected  bool   `json:"selected"`
	Quantity  int    `json:"quantity"`
}

// State holds one Entry per catalog product.
type State struct {
	entries map[string]*Entry
	order   []string
}

// New creates a State with one unselected entry of quantity 1 per id.
func New(productIDs []string) *State {
	s := &State{
		entries: make(map[string]*Entry, len(productIDs)),
		order:   make([]string, 0, len(productIDs)),
	}
	for _, id := range productIDs {
		if _, dup := s.entries[id]; dup {
			continue
		}
		s.entries[id] = &Entry{ProductID: id, Quantity: MinQuantity}
		s.order = append(s.order, id)
	}
	return s
}

// ForCatalog creates a State covering every product in c.
func ForCatalog(c *catalog.Catalog) *State {
	return New(c.IDs())
}

func (s *State) lookup(id string) (*Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownProduct, id)
	}
	return e, nil
}

// Toggle flips the selected flag of id without touching its quantity.
func (s *State) Toggle(id string) (Entry, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Entry{}, err
	}
	e.Selected = !e.Selected
	return *e, nil
}

// Adjust moves the quantity of id one step. Going below MinQuantity is a no-op.
func (s *State) Adjust(id string, dir Direction) (Entry, error) {
	if dir != Up && dir != Down {
		return Entry{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	e, err := s.lookup(id)
	if err != nil {
		return Entry{}, err
	}
	if next := e.Quantity + int(dir); next >= MinQuantity {
		e.Quantity = next
	}
	return *e, nil
}

// Entry returns a copy of the entry for id.
func (s *State) Entry(id string) (Entry, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Entry{}, err
	}
	return *e, nil
}

// Reset unselects every entry and puts quantities back to 1.
func (s *State) Reset() {
	for _, e := range s.entries {
		e.Selected = false
		e.Quantity = MinQuantity
	}
}

// Selected yields the currently selected entries in catalog order. Each
// range over the sequence reads live state.
func (s *State) Selected() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, id := range s.order {
			e := s.entries[id]
			if !e.Selected {
				continue
			}
			if !yield(*e) {
				return
			}
		}
	}
}

// AnySelected reports whether at least one entry is selected.
func (s *State) AnySelected() bool {
	for range s.Selected() {
		return true
	}
	return false
}

// Entries returns copies of all entries in catalog order.
func (s *State) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.entries[id])
	}
	return out
}
