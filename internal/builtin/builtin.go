// Package builtin holds the compiled first-party template generators that
// bundled manifests reference with `generator: {builtin: <id>}`.
package builtin

import (
	"context"
	"fmt"

	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/shell"
)

const (
	CreateReactApp  = "create-react-app"
	CreateDjangoApp = "create-django-app"
	RollupLib       = "rollup-lib"
)

// Register adds every compiled generator to reg.
func Register(reg *dynamic.Registry) {
	reg.Register(CreateReactApp, dynamic.GeneratorFunc(createReactApp))
	reg.Register(CreateDjangoApp, dynamic.GeneratorFunc(createDjangoApp))
	reg.Register(RollupLib, dynamic.GeneratorFunc(rollupLib))
}

// NewRegistry returns a registry with every compiled generator registered.
func NewRegistry() *dynamic.Registry {
	reg := dynamic.NewRegistry()
	Register(reg)
	return reg
}

// runTool runs an external tool and maps a non-zero exit to a failed generation.
func runTool(ctx context.Context, svc dynamic.Services, dir, name string, args ...string) (bool, error) {
	err := svc.Run(ctx, dir, name, args...)
	if err == nil {
		return true, nil
	}
	if _, ok := shell.ExitCode(err); ok {
		return false, nil
	}
	return false, fmt.Errorf("failed to run %s: %w", name, err)
}
