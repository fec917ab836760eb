// Package manager is the entry point to template discovery and instantiation.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/instantiate"
	"github.com/comonadd/codetemplate/internal/requirements"
	"github.com/comonadd/codetemplate/internal/searchpath"
	"github.com/comonadd/codetemplate/internal/template"
)

var ErrTemplateNotFound = errors.New("template not found")

// IsRecoverable reports whether err is an expected outcome the user can act
// on, as opposed to a broken template or environment.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, requirements.ErrAborted) ||
		errors.Is(err, instantiate.ErrGenerationFailed) ||
		errors.Is(err, instantiate.ErrDestinationExists)
}

// PathResolver produces the search path. Implemented by searchpath.Resolver.
type PathResolver interface {
	Resolve() (searchpath.SearchPath, error)
}

// Manager holds no template state: every operation rescans the search path.
type Manager struct {
	log          *zerolog.Logger
	paths        PathResolver
	loader       *template.Loader
	requirements *requirements.Resolver
	instantiator *instantiate.Instantiator
}

func New(
	log *zerolog.Logger,
	paths PathResolver,
	loader *template.Loader,
	reqs *requirements.Resolver,
	instantiator *instantiate.Instantiator,
) *Manager {
	return &Manager{
		log:          log,
		paths:        paths,
		loader:       loader,
		requirements: reqs,
		instantiator: instantiator,
	}
}

// SearchPath returns the directories templates are read from.
func (m *Manager) SearchPath() (searchpath.SearchPath, error) {
	return m.paths.Resolve()
}

// Search returns every template whose name, description or any tag contains
// query, case-insensitively. Templates with the same name in different
// directories are all returned.
func (m *Manager) Search(query string) ([]*template.Meta, error) {
	paths, err := m.paths.Resolve()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []*template.Meta
	for _, dir := range paths {
		metas, err := m.loader.Discover(dir)
		if err != nil {
			m.log.Warn().Err(err).Msgf("Skipping search directory %s", dir)
			continue
		}
		for _, meta := range metas {
			if matches(meta, query) {
				results = append(results, meta)
			}
		}
	}
	return results, nil
}

// List returns every discoverable template.
func (m *Manager) List() ([]*template.Meta, error) {
	return m.Search("")
}

func matches(meta *template.Meta, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(meta.Name), query) ||
		strings.Contains(strings.ToLower(meta.Description), query) {
		return true
	}
	for _, tag := range meta.Tags {
		if strings.Contains(tag, query) {
			return true
		}
	}
	return false
}

// LoadByName returns the first template called name in search path order.
func (m *Manager) LoadByName(name string) (*template.Meta, error) {
	paths, err := m.paths.Resolve()
	if err != nil {
		return nil, err
	}

	for _, dir := range paths {
		meta, found, err := m.loader.Lookup(dir, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %q from %s: %w", name, dir, err)
		}
		if found {
			m.log.Debug().Msgf("Resolved template %q to %s", name, meta.FullPath)
			return meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// NewProject instantiates the template called name at dest, which must not exist.
func (m *Manager) NewProject(ctx context.Context, name, dest string) error {
	return m.create(ctx, name, dest)
}

// Init instantiates the template called name into dir, which must be empty.
func (m *Manager) Init(ctx context.Context, name, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return m.create(ctx, name, dir, instantiate.AllowEmptyDestination())
}

func (m *Manager) create(ctx context.Context, name, dest string, opts ...instantiate.Option) error {
	meta, err := m.LoadByName(name)
	if err != nil {
		return err
	}

	if err := instantiate.CheckDestination(dest, opts...); err != nil {
		return err
	}

	if mod, ok := meta.Module(); ok {
		reqs, _, err := dynamic.StringLists(mod, dynamic.SymbolRequirements)
		if err != nil {
			return err
		}
		if err := m.requirements.Gate(ctx, reqs); err != nil {
			return err
		}
	}

	return m.instantiator.Instantiate(ctx, meta, dest, opts...)
}
