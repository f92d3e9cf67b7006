package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindtree-io/mindtree/pkg/diagram"
)

// Sentinel errors for registry operations.
var (
	// ErrDiagramNotFound is returned when a diagram does not exist.
	ErrDiagramNotFound = errors.New("diagram not found")

	// ErrDiagramExpired is returned when a diagram exists but exceeded its TTL.
	ErrDiagramExpired = errors.New("diagram expired")
)

// DefaultTTL is how long an idle diagram stays registered.
const DefaultTTL = 1 * time.Hour

// Diagram is one registered diagram: an engine plus bookkeeping. The mutex
// confines engine mutation to one request at a time; every handler that
// toggles, re-renders, or reads the frame takes it first.
type Diagram struct {
	ID        string
	TreeHash  string
	CreatedAt time.Time

	mu        sync.Mutex
	engine    *diagram.Engine
	expiresAt time.Time
}

// WithEngine runs fn while holding the diagram's lock. All engine access
// goes through here so concurrent requests on the same diagram serialize.
func (d *Diagram) WithEngine(fn func(eng *diagram.Engine) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.engine)
}

func (d *Diagram) expired(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.After(d.expiresAt)
}

// Registry holds live diagrams in memory with TTL expiry. Each access
// extends the deadline, so a diagram being actively explored never expires
// under the user.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Diagram
	ttl   time.Duration
}

// NewRegistry creates a registry with the given idle TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		items: make(map[string]*Diagram),
		ttl:   ttl,
	}
}

// Add registers an engine and returns the new diagram with a fresh ID.
// treeHash identifies the input tree for artifact cache keys.
func (r *Registry) Add(eng *diagram.Engine, treeHash string) *Diagram {
	now := time.Now()
	d := &Diagram{
		ID:        uuid.NewString(),
		TreeHash:  treeHash,
		CreatedAt: now,
		engine:    eng,
		expiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return d
}

// Get retrieves a diagram by ID and extends its deadline.
// Returns ErrDiagramNotFound or ErrDiagramExpired.
func (r *Registry) Get(id string) (*Diagram, error) {
	r.mu.RLock()
	d, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrDiagramNotFound
	}

	now := time.Now()
	d.mu.Lock()
	if now.After(d.expiresAt) {
		d.mu.Unlock()
		return nil, ErrDiagramExpired
	}
	d.expiresAt = now.Add(r.ttl)
	d.mu.Unlock()

	return d, nil
}

// Delete removes a diagram. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Len returns the number of registered diagrams, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Cleanup removes expired diagrams and returns how many were dropped.
func (r *Registry) Cleanup() int {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, d := range r.items {
		if d.expired(now) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup at the given interval until ctx is cancelled.
func (r *Registry) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Cleanup()
			}
		}
	}()
}
