package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/comonadd/codetemplate/internal/dynamic"
)

func createDjangoApp(ctx context.Context, req dynamic.GenerateRequest) (bool, error) {
	if err := os.MkdirAll(req.Destination, 0o755); err != nil {
		return false, fmt.Errorf("failed to create destination: %w", err)
	}
	name := projectModuleName(filepath.Base(req.Destination))
	return runTool(ctx, req.Services, "", "django-admin", "startproject", name, req.Destination)
}

// projectModuleName turns a directory name into a valid Python identifier.
func projectModuleName(dir string) string {
	var b strings.Builder
	for i, r := range dir {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}
