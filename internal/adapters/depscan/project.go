package depscan

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
)

// packageSourceDir is the fixed source directory of gren packages.
const packageSourceDir = "src"

// projectFile is the subset of gren.json needed to resolve module names.
type projectFile struct {
	Type              string   `json:"type"`
	SourceDirectories []string `json:"source-directories"`
}

// Locator finds the gren project of a source file.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

var _ ports.ProjectLocator = (*Locator)(nil)

// ProjectDir returns the closest directory above path containing a gren.json.
func (l *Locator) ProjectDir(path string) string {
	dir := filepath.Dir(filepath.Clean(path))
	for {
		if info, err := os.Stat(filepath.Join(dir, domain.ProjectFileName)); err == nil && !info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// sourceDirectories returns the absolute source directories of the project in projectDir.
// Without a project the directory of the target is the only source directory.
func sourceDirectories(projectDir, target string) ([]string, error) {
	if projectDir == "" {
		return []string{filepath.Dir(target)}, nil
	}

	path := filepath.Join(projectDir, domain.ProjectFileName)
	// #nosec G304 -- path is the gren.json found by ProjectDir
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrProjectFileInvalid, zerr.With(zerr.Wrap(err, "read"), "path", path))
	}

	var project projectFile
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, errors.Join(domain.ErrProjectFileInvalid, zerr.With(zerr.Wrap(err, "decode"), "path", path))
	}

	dirs := project.SourceDirectories
	if project.Type == "package" || len(dirs) == 0 {
		dirs = []string{packageSourceDir}
	}

	abs := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectDir, dir)
		}
		abs = append(abs, filepath.Clean(dir))
	}
	return abs, nil
}
