// Package searchpath builds the ordered list of directories templates are
// discovered in.
package searchpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/bundled"
)

// SearchPath lists absolute template directories in precedence order.
type SearchPath []string

type Options struct {
	// UserRoot is created when missing.
	UserRoot string
	// ExtraPaths are searched after the user root, in order.
	ExtraPaths []string
	// BundledRoot overrides the location of the bundled templates.
	BundledRoot string
	// CacheDir receives the materialized bundle when BundledRoot is empty.
	CacheDir       string
	DisableBundled bool
}

type Resolver struct {
	log  *zerolog.Logger
	opts Options
}

func NewResolver(log *zerolog.Logger, opts Options) *Resolver {
	return &Resolver{log: log, opts: opts}
}

// BundledDir is where the embedded bundle is written under cacheDir.
func BundledDir(cacheDir string) string {
	return filepath.Join(cacheDir, "bundled")
}

func (r *Resolver) Resolve() (SearchPath, error) {
	if r.opts.UserRoot == "" {
		return nil, errors.New("user template root is not configured")
	}

	userRoot, err := filepath.Abs(r.opts.UserRoot)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(userRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user template root: %w", err)
	}

	paths := SearchPath{userRoot}

	for _, extra := range r.opts.ExtraPaths {
		dir, ok := r.existingDir(extra)
		if !ok {
			continue
		}
		paths = append(paths, dir)
	}

	if !r.opts.DisableBundled {
		if dir, ok := r.bundledRoot(); ok {
			paths = append(paths, dir)
		}
	}

	return dedupe(paths), nil
}

func (r *Resolver) bundledRoot() (string, bool) {
	if r.opts.BundledRoot != "" {
		return r.existingDir(r.opts.BundledRoot)
	}
	if r.opts.CacheDir == "" {
		r.log.Debug().Msg("No cache directory configured, bundled templates unavailable")
		return "", false
	}

	dir, err := filepath.Abs(BundledDir(r.opts.CacheDir))
	if err != nil {
		r.log.Warn().Err(err).Msg("Cannot resolve bundled template directory")
		return "", false
	}
	if err := bundled.Materialize(r.log, dir); err != nil {
		r.log.Warn().Err(err).Msg("Bundled templates unavailable")
		return "", false
	}
	return dir, true
}

func (r *Resolver) existingDir(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		r.log.Debug().Err(err).Msgf("Skipping search path %s", path)
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		r.log.Debug().Msgf("Skipping search path %s: not a directory", abs)
		return "", false
	}
	return abs, true
}

func dedupe(paths SearchPath) SearchPath {
	seen := make(map[string]bool, len(paths))
	result := make(SearchPath, 0, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}
