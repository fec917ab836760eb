package templateconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/comonadd/codetemplate/internal/templaterepo"
)

// ErrNotInstalled is returned when a name has no entry in the ledger.
var ErrNotInstalled = errors.New("template was not installed from a remote source")

// Ledger records which templates in the user root were installed from a
// remote source. It is stored as sources.yaml in the config directory.
type Ledger struct {
	Templates map[string]Entry `yaml:"templates"`

	path string
}

// Entry is the origin of one installed template.
type Entry struct {
	Source      string    `yaml:"source"`
	Ref         string    `yaml:"ref,omitempty"`
	Path        string    `yaml:"path,omitempty"`
	InstalledAt time.Time `yaml:"installedAt"`
}

// NewEntry describes an installation of subPath of source.
func NewEntry(source templaterepo.Source, subPath string, now time.Time) Entry {
	e := Entry{Ref: source.Ref, Path: subPath, InstalledAt: now.UTC()}
	if source.Kind == templaterepo.KindGit {
		e.Source = source.URL
	} else {
		e.Source = source.Owner + "/" + source.Repo
	}
	return e
}

// Origin renders the entry as it was given on the command line.
func (e Entry) Origin() string {
	origin := e.Source
	if e.Ref != "" {
		source, err := templaterepo.ParseSource(e.Source)
		if err == nil && source.Kind == templaterepo.KindGit {
			origin += "#" + e.Ref
		} else {
			origin += "@" + e.Ref
		}
	}
	if e.Path != "" {
		origin += " (" + e.Path + ")"
	}
	return origin
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(logger *zerolog.Logger, path string) (*Ledger, error) {
	l := &Ledger{Templates: map[string]Entry{}, path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("No template sources recorded at " + path)
			return l, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse template sources %s: %w", path, err)
	}
	if l.Templates == nil {
		l.Templates = map[string]Entry{}
	}
	return l, nil
}

// Save writes the ledger back to the path it was loaded from, replacing the
// file atomically.
func (l *Ledger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal template sources: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Add records or replaces the entry for name.
func (l *Ledger) Add(name string, entry Entry) {
	l.Templates[name] = entry
}

// Get returns the entry for name.
func (l *Ledger) Get(name string) (Entry, bool) {
	e, ok := l.Templates[name]
	return e, ok
}

// Remove deletes the entry for name.
func (l *Ledger) Remove(name string) error {
	if _, ok := l.Templates[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	delete(l.Templates, name)
	return nil
}

// Names returns the recorded template names in sorted order.
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.Templates))
	for name := range l.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
