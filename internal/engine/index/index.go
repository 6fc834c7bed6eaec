// Package index tracks the dependency set of every compiled unit.
package index

import (
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/vgren/internal/core/domain"
)

// Index maps compiled unit ids to their last known dependency set and keeps a reverse
// path -> units index for invalidation.
//
// Entries for different units may be written concurrently. Writes to the same unit id
// are last-write-wins.
type Index struct {
	mu      sync.RWMutex
	units   map[string]domain.DependencySet
	byPath  map[domain.InternedString]map[string]struct{}
	targets map[string]domain.InternedString
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		units:   make(map[string]domain.DependencySet),
		byPath:  make(map[domain.InternedString]map[string]struct{}),
		targets: make(map[string]domain.InternedString),
	}
}

// Set replaces the dependency set of unitID and records its primary target.
// Readers observe either the previous set or the new one, never a mix.
func (i *Index) Set(unitID, primaryTarget string, deps domain.DependencySet) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(unitID)

	i.units[unitID] = deps
	i.targets[unitID] = domain.NewInternedString(filepath.Clean(primaryTarget))
	for path := range deps.All() {
		ids, ok := i.byPath[path]
		if !ok {
			ids = make(map[string]struct{})
			i.byPath[path] = ids
		}
		ids[unitID] = struct{}{}
	}
}

// Get returns the dependency set of unitID.
func (i *Index) Get(unitID string) (domain.DependencySet, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	deps, ok := i.units[unitID]
	return deps, ok
}

// Remove deletes the entry for unitID. Removing an unknown id is a no-op.
func (i *Index) Remove(unitID string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(unitID)
}

func (i *Index) removeLocked(unitID string) {
	deps, ok := i.units[unitID]
	if !ok {
		return
	}
	for path := range deps.All() {
		ids := i.byPath[path]
		delete(ids, unitID)
		if len(ids) == 0 {
			delete(i.byPath, path)
		}
	}
	delete(i.units, unitID)
	delete(i.targets, unitID)
}

// UnitsDependingOn returns, sorted, every unit whose dependency set contains path.
func (i *Index) UnitsDependingOn(path string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	ids := i.byPath[domain.NewInternedString(filepath.Clean(path))]
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// PrimaryTarget returns the primary target recorded for unitID.
func (i *Index) PrimaryTarget(unitID string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	target, ok := i.targets[unitID]
	if !ok {
		return "", false
	}
	return target.String(), true
}

// Units returns the ids of all indexed units, sorted.
func (i *Index) Units() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]string, 0, len(i.units))
	for id := range i.units {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of indexed units.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.units)
}
