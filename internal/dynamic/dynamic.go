// Package dynamic defines the contract between the engine and template
// generation logic. Templates never run author source inside the process:
// a manifest selects a compiled generator, an external process, or a
// declarative list of steps.
package dynamic

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEvaluate is returned when a manifest cannot be read or parsed.
	ErrEvaluate = errors.New("failed to evaluate template")
	// ErrInvalidExport is returned when an exported symbol has the wrong type.
	ErrInvalidExport = errors.New("invalid export")
	// ErrIncompatible is returned when a template requires a newer CLI.
	ErrIncompatible = errors.New("template requires a different codetemplate version")
	// ErrNoResources is returned by resource services when the template ships none.
	ErrNoResources = errors.New("template has no resources directory")
)

// Well-known exported symbols.
const (
	SymbolDescription  = "description"
	SymbolTags         = "tags"
	SymbolRequirements = "requirements"
	SymbolGenerator    = "generator"
	SymbolMinVersion   = "minVersion"
)

// Module is an evaluated template: a set of named exports plus the
// generation capability.
type Module interface {
	// Path is the manifest file the module was evaluated from.
	Path() string
	// Lookup returns the raw value of an exported symbol.
	Lookup(symbol string) (any, bool)
	// Generate builds a project. A false result without an error means the
	// generator reported failure.
	Generate(ctx context.Context, req GenerateRequest) (bool, error)
}

// Evaluator turns a manifest path into a Module.
type Evaluator interface {
	Evaluate(path string) (Module, error)
}

// GenerateRequest is the single generation signature shared by every
// template kind. ResourcesRoot is empty for single-file templates.
type GenerateRequest struct {
	Destination   string
	ResourcesRoot string
	Services      Services
}

// Generator is the generation capability behind a Module.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (bool, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (bool, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (bool, error) {
	return f(ctx, req)
}

// Services is the capability handle passed to generators.
// Relative destination paths resolve against Destination(); relative
// resource names resolve against the resources root.
type Services interface {
	Destination() string
	ResourcePath(name string) (string, error)
	CopyResource(name, dest string) error
	AskBool(message string) (bool, error)
	AskString(message string) (string, error)
	Render(src, dest string, values map[string]string) error
	// Run invokes an external tool connected to the terminal. dir is
	// relative to the destination; empty means the destination itself.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// String reads a string export.
func String(m Module, symbol string) (string, bool, error) {
	v, ok := m.Lookup(symbol)
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, invalidExport(m, symbol, "a string", v)
	}
	return s, true, nil
}

// Strings reads a list-of-strings export.
func Strings(m Module, symbol string) ([]string, bool, error) {
	v, ok := m.Lookup(symbol)
	if !ok || v == nil {
		return nil, false, nil
	}
	list, err := toStrings(v)
	if err != nil {
		return nil, true, invalidExport(m, symbol, "a list of strings", v)
	}
	return list, true, nil
}

// StringLists reads a mapping of string to list-of-strings export.
func StringLists(m Module, symbol string) (map[string][]string, bool, error) {
	v, ok := m.Lookup(symbol)
	if !ok || v == nil {
		return nil, false, nil
	}

	result := map[string][]string{}
	switch typed := v.(type) {
	case map[string][]string:
		for k, list := range typed {
			result[k] = append([]string(nil), list...)
		}
	case map[string]any:
		for k, raw := range typed {
			list, err := toStrings(raw)
			if err != nil {
				return nil, true, invalidExport(m, symbol+"."+k, "a list of strings", raw)
			}
			result[k] = list
		}
	default:
		return nil, true, invalidExport(m, symbol, "a mapping of lists", v)
	}
	return result, true, nil
}

func toStrings(v any) ([]string, error) {
	switch typed := v.(type) {
	case []string:
		return append([]string(nil), typed...), nil
	case []any:
		list := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is %T", item, item)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("value is %T", v)
	}
}

func invalidExport(m Module, symbol, want string, got any) error {
	return fmt.Errorf("%w: %q in %s must be %s, got %T", ErrInvalidExport, symbol, m.Path(), want, got)
}
