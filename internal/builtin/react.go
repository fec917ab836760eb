package builtin

import (
	"context"
	"path/filepath"

	"github.com/comonadd/codetemplate/internal/dynamic"
)

// createReactApp delegates to the create-react-app tool, which creates the
// destination itself.
func createReactApp(ctx context.Context, req dynamic.GenerateRequest) (bool, error) {
	return runTool(ctx, req.Services, filepath.Dir(req.Destination), "create-react-app", filepath.Base(req.Destination))
}
