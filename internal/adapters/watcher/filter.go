package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/vgren/internal/core/domain"
)

// ContentFilter drops change notifications for gren sources whose content did not change.
// Editors often write a file several times or touch it without modifying it.
type ContentFilter struct {
	mu     sync.Mutex
	hashes map[domain.InternedString]uint64
}

// NewContentFilter creates an empty filter.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{hashes: make(map[domain.InternedString]uint64)}
}

// Changed reports whether path is a gren source whose content differs from the last
// time it was seen. A file that vanished counts as changed once.
func (f *ContentFilter) Changed(path string) bool {
	if !domain.IsSourceFile(path) {
		return false
	}
	key := domain.NewInternedString(filepath.Clean(path))

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the watcher
	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		_, known := f.hashes[key]
		delete(f.hashes, key)
		return known || !errors.Is(err, fs.ErrNotExist)
	}

	sum := xxhash.Sum64(data)
	prev, known := f.hashes[key]
	f.hashes[key] = sum
	return !known || prev != sum
}

// Seed records the current content of path without reporting a change.
func (f *ContentFilter) Seed(path string) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the dependency index
	if err != nil {
		return
	}
	f.mu.Lock()
	f.hashes[domain.NewInternedString(filepath.Clean(path))] = xxhash.Sum64(data)
	f.mu.Unlock()
}
