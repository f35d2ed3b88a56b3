package background

import (
	"fmt"
	"sync"
)

// Registry is the process-wide background catalog. All methods are safe for
// concurrent use; reads never observe a partially applied registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Background
	order   []string // insertion order, for stable enumeration
}

// NewRegistry creates a registry seeded with the procedural backgrounds.
func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[string]*Background),
	}
	for _, b := range proceduralSet() {
		// Generated ids are fixed and distinct; registration cannot fail.
		_ = r.Register(b)
	}
	return r
}

// NewEmptyRegistry creates a registry with no stored entries. The blur/none
// sentinels still resolve; they are behavior, not entries.
func NewEmptyRegistry() *Registry {
	return &Registry{entries: make(map[string]*Background)}
}

// Register adds a background to the catalog. It fails if the id is already
// present or is one of the reserved sentinels.
func (r *Registry) Register(b *Background) error {
	if b.ID == IDBlur || b.ID == IDNone {
		return fmt.Errorf("%w: %q", ErrReservedID, b.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[b.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, b.ID)
	}
	r.entries[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

// Resolve maps an id to its compositor-ready form. The second return is
// false when the id is unknown.
func (r *Registry) Resolve(id string) (Resolved, bool) {
	switch id {
	case IDBlur:
		return Resolved{Mode: BlurBackground, ID: id}, true
	case IDNone:
		return Resolved{Mode: PassThrough, ID: id}, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.entries[id]
	if !ok {
		return Resolved{}, false
	}
	return Resolved{Mode: Pixels, ID: id, Pix: b.Pix}, true
}

// Has reports whether id is selectable (a stored entry or a sentinel).
func (r *Registry) Has(id string) bool {
	_, ok := r.Resolve(id)
	return ok
}

// IDs returns every selectable id: stored entries in insertion order,
// followed by the sentinels.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.order)+2)
	ids = append(ids, r.order...)
	ids = append(ids, IDBlur, IDNone)
	return ids
}

// List returns catalog entries of the given kind in insertion order.
func (r *Registry) List(kind Kind) []*Background {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Background
	for _, id := range r.order {
		if b := r.entries[id]; b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of stored (non-sentinel) entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
