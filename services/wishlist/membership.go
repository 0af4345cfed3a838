package wishlist

import (
	"context"
	"sort"
	"sync"
)

// Membership is the locally cached set of saved movie ids for one screen.
// Each wishlist-capable screen owns its own copy and reconciles it
// independently; there is no cross-screen synchronization. It may be
// transiently stale right after a remote mutation until the caller applies
// the toggle result.
type Membership struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewMembership() *Membership {
	return &Membership{ids: make(map[int64]struct{})}
}

// Has reports whether the movie is in the cached set.
func (m *Membership) Has(movieID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[movieID]
	return ok
}

// Set marks the movie as wished.
func (m *Membership) Set(movieID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[movieID] = struct{}{}
}

// Unset marks the movie as not wished.
func (m *Membership) Unset(movieID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, movieID)
}

// Apply records a toggle result returned by Toggler.Toggle.
func (m *Membership) Apply(movieID int64, wished bool) {
	if wished {
		m.Set(movieID)
	} else {
		m.Unset(movieID)
	}
}

// Replace swaps the whole set, copying the input.
func (m *Membership) Replace(ids map[int64]struct{}) {
	next := make(map[int64]struct{}, len(ids))
	for id := range ids {
		next[id] = struct{}{}
	}
	m.mu.Lock()
	m.ids = next
	m.mu.Unlock()
}

// Clear empties the set. Used when the identity changes so stale data from a
// previous user is never shown for a new one.
func (m *Membership) Clear() {
	m.mu.Lock()
	m.ids = make(map[int64]struct{})
	m.mu.Unlock()
}

// Len returns the cached set size.
func (m *Membership) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// IDs returns the cached ids in ascending order.
func (m *Membership) IDs() []int64 {
	m.mu.RLock()
	ids := make([]int64, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reload repopulates the set from the remote store. On failure the cached
// set is left unchanged, preserving the last known-good remote state.
func (m *Membership) Reload(ctx context.Context, store Store, userID string) error {
	ids, err := store.ListIDs(ctx, userID)
	if err != nil {
		return err
	}
	m.Replace(ids)
	return nil
}
