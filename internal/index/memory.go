package index

import (
	"sync"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
)

// MemoryIndex keeps the ordered link collection in memory.
// Position 0 is the most recently inserted link.
// Every read returns deep copies; callers never share state with the index.
type MemoryIndex struct {
	mu         sync.RWMutex
	links      []domain.Link
	lastReload time.Time // last time the whole collection was replaced
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// ReplaceAll swaps the whole collection, keeping the given order
func (idx *MemoryIndex) ReplaceAll(links []domain.Link) {
	cloned := cloneAll(links)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.links = cloned
	idx.lastReload = time.Now()
}

// Prepend inserts a link at position 0
func (idx *MemoryIndex) Prepend(link domain.Link) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.links = append([]domain.Link{link.Clone()}, idx.links...)
}

// Remove deletes the link with the given id. It reports whether a link was
// removed; an unknown id leaves the collection untouched.
func (idx *MemoryIndex) Remove(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	i := idx.position(id)
	if i < 0 {
		return false
	}
	idx.links = append(idx.links[:i:i], idx.links[i+1:]...)
	return true
}

// Update applies fn to the stored link with the given id, in place.
// It returns a copy of the updated link.
func (idx *MemoryIndex) Update(id string, fn func(*domain.Link)) (domain.Link, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	i := idx.position(id)
	if i < 0 {
		return domain.Link{}, false
	}
	fn(&idx.links[i])
	return idx.links[i].Clone(), true
}

// UpdateAll applies fn to every link and returns how many reported a change
func (idx *MemoryIndex) UpdateAll(fn func(*domain.Link) bool) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	changed := 0
	for i := range idx.links {
		if fn(&idx.links[i]) {
			changed++
		}
	}
	return changed
}

// Get retrieves a link by ID
func (idx *MemoryIndex) Get(id string) (domain.Link, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	i := idx.position(id)
	if i < 0 {
		return domain.Link{}, false
	}
	return idx.links[i].Clone(), true
}

// All returns the collection in order
func (idx *MemoryIndex) All() []domain.Link {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return cloneAll(idx.links)
}

// Filter returns, in order, the links for which keep returns true
func (idx *MemoryIndex) Filter(keep func(domain.Link) bool) []domain.Link {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.Link, 0, len(idx.links))
	for _, link := range idx.links {
		if keep(link) {
			out = append(out, link.Clone())
		}
	}
	return out
}

// Count returns the number of links in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.links)
}

// GetLastReload returns the timestamp of the last ReplaceAll
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// position must be called with mu held.
// Collections are dashboard-sized, a linear scan is fine.
func (idx *MemoryIndex) position(id string) int {
	for i := range idx.links {
		if idx.links[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(links []domain.Link) []domain.Link {
	out := make([]domain.Link, len(links))
	for i, link := range links {
		out[i] = link.Clone()
	}
	return out
}
