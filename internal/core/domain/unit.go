package domain

import (
	"iter"
	"path/filepath"
	"slices"
)

// DependencySet is an immutable set of absolute source paths.
// A set is never modified after construction, so it can be shared between readers.
type DependencySet struct {
	paths map[InternedString]struct{}
}

// NewDependencySet creates a set from the given paths. Paths are cleaned before insertion.
func NewDependencySet(paths ...string) DependencySet {
	set := DependencySet{paths: make(map[InternedString]struct{}, len(paths))}
	for _, p := range paths {
		if p == "" {
			continue
		}
		set.paths[NewInternedString(filepath.Clean(p))] = struct{}{}
	}
	return set
}

// Union returns a new set holding the paths of both sets.
func (s DependencySet) Union(other DependencySet) DependencySet {
	out := DependencySet{paths: make(map[InternedString]struct{}, len(s.paths)+len(other.paths))}
	for p := range s.paths {
		out.paths[p] = struct{}{}
	}
	for p := range other.paths {
		out.paths[p] = struct{}{}
	}
	return out
}

// Has reports whether the set contains the given path.
func (s DependencySet) Has(path string) bool {
	_, ok := s.paths[NewInternedString(filepath.Clean(path))]
	return ok
}

// Len returns the number of paths in the set.
func (s DependencySet) Len() int {
	return len(s.paths)
}

// All iterates over the interned paths in unspecified order.
func (s DependencySet) All() iter.Seq[InternedString] {
	return func(yield func(InternedString) bool) {
		for p := range s.paths {
			if !yield(p) {
				return
			}
		}
	}
}

// Sorted returns the paths in lexical order.
func (s DependencySet) Sorted() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p.String())
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold exactly the same paths.
func (s DependencySet) Equal(other DependencySet) bool {
	if len(s.paths) != len(other.paths) {
		return false
	}
	for p := range s.paths {
		if _, ok := other.paths[p]; !ok {
			return false
		}
	}
	return true
}

// CompiledUnit is one dependency-tracked load request: a primary target plus the
// accompany targets compiled with it.
type CompiledUnit struct {
	// ID is the module identifier as seen by the host loader.
	ID string
	// PrimaryTarget is the absolute path of the requested source file.
	PrimaryTarget string
	// AccompanyTargets are the resolved accompany paths, in request order.
	AccompanyTargets []string
	// Dependencies is every source file the unit's output depends on, including its targets.
	Dependencies DependencySet
}

// Targets returns the primary target followed by the accompany targets.
func (u *CompiledUnit) Targets() []string {
	targets := make([]string, 0, 1+len(u.AccompanyTargets))
	targets = append(targets, u.PrimaryTarget)
	return append(targets, u.AccompanyTargets...)
}
