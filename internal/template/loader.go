package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/dynamic"
)

const (
	// ConfigFile optionally describes a plain directory template.
	ConfigFile = "codetemplates.json"
	// ResourcesDir holds the files of a dynamic template with resources.
	ResourcesDir = "resources"
)

var ignoredEntries = map[string]bool{
	"__pycache__":     true,
	"node_modules":    true,
	"__main__.py":     true,
	"__init__.py":     true,
	dynamic.EntryFile: true,
	ConfigFile:        true,
}

func shouldIgnore(name string) bool {
	return ignoredEntries[name] || strings.HasPrefix(name, ".")
}

type dirConfig struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Loader turns filesystem entries into template metadata.
type Loader struct {
	log       *zerolog.Logger
	evaluator dynamic.Evaluator
}

func NewLoader(log *zerolog.Logger, evaluator dynamic.Evaluator) *Loader {
	return &Loader{log: log, evaluator: evaluator}
}

// Classify derives the metadata of the template at path.
func (l *Loader) Classify(path string) (*Meta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		entry := filepath.Join(path, dynamic.EntryFile)
		if _, statErr := os.Stat(entry); statErr == nil {
			return l.loadModule(path, filepath.Base(path), entry, filepath.Join(path, ResourcesDir))
		}
		return l.loadDir(path)
	}

	if filepath.Ext(path) != dynamic.Extension {
		return nil, &InvalidTemplateFileError{Path: path}
	}
	name := strings.TrimSuffix(filepath.Base(path), dynamic.Extension)
	return l.loadModule(path, name, path, "")
}

func (l *Loader) loadDir(path string) (*Meta, error) {
	meta := &Meta{
		Name:     filepath.Base(path),
		FullPath: path,
		Tags:     []string{},
		Variant:  PlainDirectory{},
	}

	configPath := filepath.Join(path, ConfigFile)
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	var cfg dirConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	if cfg.Description == "" {
		l.log.Warn().Msgf("Template config %s has no description", configPath)
	}

	meta.Description = cfg.Description
	meta.Tags = normalizeTags(cfg.Tags)
	meta.Variant = PlainDirectory{ConfigPath: configPath}
	return meta, nil
}

func (l *Loader) loadModule(path, name, entry, resourcesRoot string) (*Meta, error) {
	mod, err := l.evaluator.Evaluate(entry)
	if err != nil {
		return nil, err
	}

	desc, ok, err := dynamic.String(mod, dynamic.SymbolDescription)
	if err != nil {
		return nil, err
	}
	if !ok || desc == "" {
		return nil, &MissingExportError{Path: entry, Symbol: dynamic.SymbolDescription}
	}
	if _, ok := mod.Lookup(dynamic.SymbolGenerator); !ok {
		return nil, &MissingExportError{Path: entry, Symbol: dynamic.SymbolGenerator}
	}

	tags, _, err := dynamic.Strings(mod, dynamic.SymbolTags)
	if err != nil {
		return nil, err
	}

	meta := &Meta{
		Name:        name,
		FullPath:    path,
		Description: desc,
		Tags:        normalizeTags(tags),
	}
	if resourcesRoot == "" {
		meta.Variant = DynamicModule{Module: mod}
	} else {
		meta.Variant = DynamicModuleWithResources{Module: mod, ResourcesRoot: resourcesRoot}
	}
	return meta, nil
}

// Discover classifies every immediate child of dir in name order. Entries that fail to
// load are logged and skipped.
func (l *Loader) Discover(dir string) ([]*Meta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory %s: %w", dir, err)
	}

	metas := make([]*Meta, 0, len(entries))
	for _, entry := range entries {
		if shouldIgnore(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		meta, err := l.Classify(path)
		if err != nil {
			l.log.Warn().Err(err).Msgf("Skipping template %s", path)
			continue
		}
		meta.Root = dir
		metas = append(metas, meta)
	}
	return metas, nil
}

// Lookup finds <dir>/<name> or <dir>/<name>.yaml. A missing entry is not an
// error; an entry that exists but fails to load is. name must be a single
// path element.
func (l *Loader) Lookup(dir, name string) (*Meta, bool, error) {
	if !validName(name) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, candidate := range []string{name, name + dynamic.Extension} {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, false, err
		}
		meta, err := l.Classify(path)
		if err != nil {
			return nil, true, err
		}
		meta.Root = dir
		return meta, true, nil
	}
	return nil, false, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
