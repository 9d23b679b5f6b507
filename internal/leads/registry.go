// Package leads owns the in-memory lead book and the status workflow driven
// by operator commands.
package leads

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Registry is the ordered lead collection and the sole writer of the backing
// store. All reads, mutations and saves go through one mutex: concurrent
// pipeline runs and status commands must not interleave on the shared book.
type Registry struct {
	mu    sync.Mutex
	store store.Store
	leads []model.Lead
}

// NewRegistry creates an empty registry over the given store.
func NewRegistry(st store.Store) *Registry {
	return &Registry{store: st}
}

// Load replaces the in-memory book with the persisted one.
func (r *Registry) Load(ctx context.Context) error {
	leads, err := r.store.Load(ctx)
	if err != nil {
		return eris.Wrap(err, "leads: load")
	}
	r.mu.Lock()
	r.leads = leads
	r.mu.Unlock()
	return nil
}

// Save writes the current book wholesale.
func (r *Registry) Save(ctx context.Context) error {
	r.mu.Lock()
	snapshot := append([]model.Lead(nil), r.leads...)
	r.mu.Unlock()
	return eris.Wrap(r.store.Save(ctx, snapshot), "leads: save")
}

// Snapshot returns a copy of the book in insertion order.
func (r *Registry) Snapshot() []model.Lead {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Lead(nil), r.leads...)
}

// Get returns the lead with the given id.
func (r *Registry) Get(id string) (model.Lead, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.ID == id {
			return l, true
		}
	}
	return model.Lead{}, false
}

// Append adds a new lead to the book. It does not persist; pipeline batches
// save once at the end.
func (r *Registry) Append(lead model.Lead) {
	r.mu.Lock()
	r.leads = append(r.leads, lead)
	r.mu.Unlock()
}

// Update applies fn to the lead with the given id and persists the book.
// The store is untouched when the id is unknown.
func (r *Registry) Update(ctx context.Context, id string, fn func(*model.Lead)) error {
	r.mu.Lock()
	found := false
	for i := range r.leads {
		if r.leads[i].ID == id {
			fn(&r.leads[i])
			found = true
			break
		}
	}
	var snapshot []model.Lead
	if found {
		snapshot = append([]model.Lead(nil), r.leads...)
	}
	r.mu.Unlock()

	if !found {
		return eris.Errorf("leads: lead not found: %s", id)
	}
	return eris.Wrap(r.store.Save(ctx, snapshot), "leads: save after update")
}

// idAttempts bounds the uniqueness retry loop. Six-digit ids give a 900k
// space; expected lead volumes are a few thousand, so collisions are rare
// and the bound is never hit in practice.
const idAttempts = 100

// NextID draws a fresh 6-digit id, unique against the current book. Short
// numeric ids keep leads transcribable in a chat window, and the random draw
// is independent of wall-clock granularity so repeated runs in one process
// cannot collide by timing.
func (r *Registry) NextID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := make(map[string]bool, len(r.leads))
	for _, l := range r.leads {
		taken[l.ID] = true
	}

	for i := 0; i < idAttempts; i++ {
		id := fmt.Sprintf("%06d", rand.IntN(900000)+100000)
		if !taken[id] {
			return id, nil
		}
	}
	return "", eris.New("leads: id space exhausted")
}
