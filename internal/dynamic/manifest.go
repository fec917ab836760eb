package dynamic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/comonadd/codetemplate/internal/shell"
)

const (
	// Extension is the only supported dynamic-logic file extension.
	Extension = ".yaml"
	// EntryFile marks a directory as a dynamic template with resources.
	EntryFile = "codetemplate" + Extension
	// DevelopmentVersion satisfies every minVersion constraint.
	DevelopmentVersion = "development"
)

type manifest struct {
	MinVersion string         `yaml:"minVersion"`
	Generator  *generatorSpec `yaml:"generator"`
}

type generatorSpec struct {
	Builtin string   `yaml:"builtin"`
	Exec    []string `yaml:"exec"`
	Steps   []Step   `yaml:"steps"`
}

// ManifestEvaluator evaluates YAML template manifests.
type ManifestEvaluator struct {
	log      *zerolog.Logger
	registry *Registry
	runner   shell.Runner
	version  string
}

func NewManifestEvaluator(log *zerolog.Logger, registry *Registry, runner shell.Runner, version string) *ManifestEvaluator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &ManifestEvaluator{log: log, registry: registry, runner: runner, version: version}
}

func (e *ManifestEvaluator) Evaluate(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEvaluate, path, err)
	}
	return e.EvaluateBytes(path, data)
}

// EvaluateBytes evaluates manifest content that was already read from path.
func (e *ManifestEvaluator) EvaluateBytes(path string, data []byte) (Module, error) {
	exports := map[string]any{}
	if err := yaml.Unmarshal(data, &exports); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEvaluate, path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEvaluate, path, err)
	}

	if err := e.checkVersion(path, m.MinVersion); err != nil {
		return nil, err
	}

	mod := &manifestModule{path: path, dir: filepath.Dir(path), exports: exports}
	if m.Generator != nil {
		gen, err := e.buildGenerator(path, m.Generator)
		if err != nil {
			return nil, err
		}
		mod.generator = gen
	}

	e.log.Debug().Str("path", path).Msg("Evaluated template manifest")
	return mod, nil
}

func (e *ManifestEvaluator) checkVersion(path, constraint string) error {
	if constraint == "" || e.version == "" || e.version == DevelopmentVersion {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%w %s: invalid minVersion %q: %w", ErrEvaluate, path, constraint, err)
	}
	v, err := semver.NewVersion(e.version)
	if err != nil {
		e.log.Debug().Err(err).Msgf("Cannot parse CLI version %q, skipping minVersion check", e.version)
		return nil
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s needs %s, running %s", ErrIncompatible, path, constraint, v)
	}
	return nil
}

func (e *ManifestEvaluator) buildGenerator(path string, spec *generatorSpec) (Generator, error) {
	set := 0
	if spec.Builtin != "" {
		set++
	}
	if len(spec.Exec) > 0 {
		set++
	}
	if len(spec.Steps) > 0 {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w %s: generator must set exactly one of builtin, exec or steps", ErrEvaluate, path)
	}

	switch {
	case spec.Builtin != "":
		g, ok := e.registry.Get(spec.Builtin)
		if !ok {
			return nil, fmt.Errorf("%w %s: unknown builtin generator %q", ErrEvaluate, path, spec.Builtin)
		}
		return g, nil
	case len(spec.Exec) > 0:
		if e.runner == nil {
			return nil, fmt.Errorf("%w %s: exec generators are not available", ErrEvaluate, path)
		}
		return &execGenerator{log: e.log, runner: e.runner, dir: filepath.Dir(path), argv: spec.Exec}, nil
	default:
		for i, step := range spec.Steps {
			if err := step.validate(); err != nil {
				return nil, fmt.Errorf("%w %s: step %d: %w", ErrEvaluate, path, i+1, err)
			}
		}
		return &stepsGenerator{log: e.log, steps: spec.Steps}, nil
	}
}

type manifestModule struct {
	path      string
	dir       string
	exports   map[string]any
	generator Generator
}

func (m *manifestModule) Path() string { return m.path }

func (m *manifestModule) Lookup(symbol string) (any, bool) {
	if symbol == SymbolGenerator {
		return m.generator, m.generator != nil
	}
	v, ok := m.exports[symbol]
	return v, ok
}

func (m *manifestModule) Generate(ctx context.Context, req GenerateRequest) (bool, error) {
	if m.generator == nil {
		return false, fmt.Errorf("%s exports no generator", m.path)
	}
	return m.generator.Generate(ctx, req)
}
