// Package config loads the vgren.yaml configuration file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv reads the process environment. Tests replace it.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

var _ ports.ConfigLoader = (*Loader)(nil)

// Load searches for vgren.yaml from cwd upwards. Without one the defaults rooted at cwd
// are returned.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, found := findConfigFile(cwd)
	if !found {
		cfg := domain.DefaultConfig(filepath.Clean(cwd))
		if err := l.applyEnvironment(cfg, ""); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// #nosec G304 -- configPath comes from the upward search
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "read"), "path", configPath))
	}

	file, err := decode(configPath, data)
	if err != nil {
		return nil, err
	}

	return l.build(filepath.Dir(configPath), file)
}

func findConfigFile(cwd string) (string, bool) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// decode checks the compiler section for removed or unknown options, then decodes the
// whole document strictly.
func decode(path string, data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(zerr.Wrap(err, "invalid yaml"), "path", path))
	}
	if err := checkCompilerOptions(path, &doc); err != nil {
		return nil, err
	}

	file := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(zerr.Wrap(err, "decode"), "path", path))
	}
	return file, nil
}

func checkCompilerOptions(path string, doc *yaml.Node) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "compiler" {
			continue
		}
		section := root.Content[i+1]
		if section.Kind != yaml.MappingNode {
			return nil
		}
		for j := 0; j+1 < len(section.Content); j += 2 {
			key := section.Content[j]
			if reason, removed := removedCompilerOptions[key.Value]; removed {
				return errors.Join(domain.ErrRemovedCompilerOption, optionError(reason, path, key))
			}
			if !compilerOptions[key.Value] {
				return errors.Join(domain.ErrUnknownCompilerOption, optionError("unrecognized Gren compiler option: "+key.Value, path, key))
			}
		}
	}
	return nil
}

func optionError(msg, path string, key *yaml.Node) error {
	err := zerr.With(zerr.New(msg), "option", key.Value)
	err = zerr.With(err, "path", path)
	return zerr.With(err, "line", key.Line)
}

func (l *Loader) build(root string, file *File) (*domain.Config, error) {
	cfg := domain.DefaultConfig(root)

	if err := l.applyEnvironment(cfg, file.Mode); err != nil {
		return nil, err
	}

	// The compiler section may repeat debug and optimize; it wins over the top level.
	cfg.Debug = file.Debug
	if file.Compiler.Debug != nil {
		cfg.Debug = file.Compiler.Debug
	}
	cfg.Optimize = file.Optimize
	if file.Compiler.Optimize != nil {
		cfg.Optimize = file.Compiler.Optimize
	}
	cfg.StrictAccompany = file.StrictAccompany
	cfg.LockTimeout = file.LockTimeout
	cfg.CompileTimeout = file.CompileTimeout

	cfg.Compiler = domain.CompilerConfig{
		PathToGren: resolveExecutable(root, file.Compiler.PathToGren),
		Cwd:        resolvePath(root, file.Compiler.Cwd),
		Verbose:    file.Compiler.Verbose,
		Output:     file.Compiler.Output,
		Report:     file.Compiler.Report,
		Docs:       file.Compiler.Docs,
		Env:        file.Compiler.Env,
	}

	cfg.Daemon = domain.DaemonConfig{
		Socket:      resolvePath(root, file.Daemon.Socket),
		IdleTimeout: file.Daemon.IdleTimeout,
	}

	if file.Watch.Debounce > 0 {
		cfg.Watch.Debounce = file.Watch.Debounce
	}

	if cfg.Debug != nil && cfg.Optimize != nil && *cfg.Debug && *cfg.Optimize {
		l.Logger.Warn("both debug and optimize are enabled in " + domain.ConfigFileName + "; gren rejects this combination")
	}

	return cfg, nil
}

// applyEnvironment sets the mode. An unset mode follows NODE_ENV so that production
// builds of the host bundler compile optimized output.
func (l *Loader) applyEnvironment(cfg *domain.Config, mode string) error {
	switch domain.Mode(mode) {
	case domain.ModeServe, domain.ModeBuild:
		cfg.Mode = domain.Mode(mode)
	case "":
		if l.Getenv != nil && l.Getenv("NODE_ENV") == "production" {
			cfg.Mode = domain.ModeBuild
		}
	default:
		return errors.Join(domain.ErrInvalidMode, zerr.With(zerr.New("unknown mode "+mode), "mode", mode))
	}
	return nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// resolveExecutable keeps bare command names for a PATH lookup and anchors relative
// paths at the config directory.
func resolveExecutable(root, p string) string {
	if !strings.ContainsRune(p, filepath.Separator) {
		return p
	}
	return resolvePath(root, p)
}
