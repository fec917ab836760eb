// Package template classifies filesystem entries into template metadata.
package template

import (
	"github.com/comonadd/codetemplate/internal/dynamic"
)

type Kind int

const (
	KindPlainDirectory Kind = iota
	KindDynamicModule
	KindDynamicModuleWithResources
)

func (k Kind) String() string {
	switch k {
	case KindPlainDirectory:
		return "dir"
	case KindDynamicModule:
		return "module"
	case KindDynamicModuleWithResources:
		return "module-dir"
	default:
		return "unknown"
	}
}

// Variant carries the kind-specific data of a template. It is one of
// PlainDirectory, DynamicModule or DynamicModuleWithResources.
type Variant interface {
	kind() Kind
}

type PlainDirectory struct {
	// ConfigPath is the codetemplates.json that was read, if any.
	ConfigPath string
}

type DynamicModule struct {
	Module dynamic.Module
}

type DynamicModuleWithResources struct {
	Module        dynamic.Module
	ResourcesRoot string
}

func (PlainDirectory) kind() Kind             { return KindPlainDirectory }
func (DynamicModule) kind() Kind              { return KindDynamicModule }
func (DynamicModuleWithResources) kind() Kind { return KindDynamicModuleWithResources }

// Meta describes one discovered template.
type Meta struct {
	Name     string
	FullPath string
	// Root is the search directory the template was found in.
	Root        string
	Description string
	Tags        []string
	Variant     Variant
}

func (m *Meta) Kind() Kind {
	return m.Variant.kind()
}

// Module returns the evaluated module of a dynamic template.
func (m *Meta) Module() (dynamic.Module, bool) {
	switch v := m.Variant.(type) {
	case DynamicModule:
		return v.Module, true
	case DynamicModuleWithResources:
		return v.Module, true
	default:
		return nil, false
	}
}

// ResourcesRoot is empty unless the template is a dynamic module with resources.
func (m *Meta) ResourcesRoot() string {
	if v, ok := m.Variant.(DynamicModuleWithResources); ok {
		return v.ResourcesRoot
	}
	return ""
}
