package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comonadd/codetemplate/internal/dynamic"
)

// Resource names inside the rollup-lib template.
const (
	rollupConfigTemplate = "rollup.config.js.stg"
	tsconfigTemplate     = "tsconfig.json.ctg"
	entryFileResource    = "entry-file.js"
	jestTSConfig         = "jest.config-ts.js"
	testTSDir            = "test-ts"
	testJSDir            = "test-js"
)

type rollupOptions struct {
	TypeScript bool
	Tests      bool
	SourceDir  string
	EntryFile  string
}

func (o rollupOptions) outPrefix() string {
	return strings.TrimSuffix(o.EntryFile, filepath.Ext(o.EntryFile))
}

func (o rollupOptions) devDependencies() []string {
	deps := []string{"rollup", "@rollup/plugin-commonjs", "cross-env"}
	if o.TypeScript {
		deps = append(deps, "@rollup/plugin-typescript", "typescript", "tslib")
	}
	if o.Tests {
		deps = append(deps, "jest")
	}
	if o.TypeScript && o.Tests {
		deps = append(deps, "@types/jest", "ts-jest")
	}
	return deps
}

func askRollupOptions(svc dynamic.Services) (rollupOptions, error) {
	var opts rollupOptions
	var err error

	if opts.TypeScript, err = svc.AskBool("Set up TypeScript?"); err != nil {
		return opts, err
	}
	if opts.Tests, err = svc.AskBool("Set up tests?"); err != nil {
		return opts, err
	}
	if opts.SourceDir, err = svc.AskString("Directory name for library source code (src):"); err != nil {
		return opts, err
	}
	if opts.SourceDir == "" {
		opts.SourceDir = "src"
	}

	defaultEntry := "index.js"
	if opts.TypeScript {
		defaultEntry = "index.ts"
	}
	if opts.EntryFile, err = svc.AskString(fmt.Sprintf("Entry file name (%s):", defaultEntry)); err != nil {
		return opts, err
	}
	if opts.EntryFile == "" {
		opts.EntryFile = defaultEntry
	}
	return opts, nil
}

func rollupLib(ctx context.Context, req dynamic.GenerateRequest) (bool, error) {
	svc := req.Services

	opts, err := askRollupOptions(svc)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Join(req.Destination, opts.SourceDir), 0o755); err != nil {
		return false, fmt.Errorf("failed to create source directory: %w", err)
	}

	if ok, err := runTool(ctx, svc, "", "npm", "init", "-y"); !ok || err != nil {
		return ok, err
	}
	if err := patchPackageJSON(filepath.Join(req.Destination, "package.json"), opts); err != nil {
		return false, err
	}

	values := map[string]string{
		"source_dir_path": opts.SourceDir,
		"entry_file_name": opts.EntryFile,
		"out_prefix":      opts.outPrefix(),
	}
	if err := renderResource(svc, rollupConfigTemplate, "rollup.config.js", values); err != nil {
		return false, err
	}
	if err := svc.CopyResource(entryFileResource, filepath.Join(opts.SourceDir, opts.EntryFile)); err != nil {
		return false, err
	}

	if opts.TypeScript {
		if err := renderResource(svc, tsconfigTemplate, "tsconfig.json", values); err != nil {
			return false, err
		}
	}

	switch {
	case opts.TypeScript && opts.Tests:
		if err := svc.CopyResource(jestTSConfig, "jest.config.js"); err != nil {
			return false, err
		}
		if err := svc.CopyResource(testTSDir, "test"); err != nil {
			return false, err
		}
	case opts.Tests:
		if err := svc.CopyResource(testJSDir, "test"); err != nil {
			return false, err
		}
	}

	args := append([]string{"install", "--save-dev"}, opts.devDependencies()...)
	return runTool(ctx, svc, "", "npm", args...)
}

func renderResource(svc dynamic.Services, name, dest string, values map[string]string) error {
	src, err := svc.ResourcePath(name)
	if err != nil {
		return err
	}
	return svc.Render(src, dest, values)
}

func patchPackageJSON(path string, opts rollupOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read package.json: %w", err)
	}

	pkg := map[string]any{}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	prefix := opts.outPrefix()
	pkg["main"] = fmt.Sprintf("./build/%s.min.js", prefix)
	pkg["browser"] = fmt.Sprintf("./build/%s.min.js", prefix)
	pkg["module"] = fmt.Sprintf("./build/%s-esm.js", prefix)
	if opts.TypeScript {
		pkg["types"] = fmt.Sprintf("./build/%s.d.ts", prefix)
	}
	pkg["files"] = []string{"build"}
	pkg["directories"] = map[string]string{"test": "test"}

	scripts := map[string]string{
		"build":     "cross-env NODE_ENV=production rollup -c rollup.config.js",
		"build-dev": "cross-env NODE_ENV=development rollup -c rollup.config.js",
	}
	if opts.Tests {
		scripts["test"] = "jest"
	}
	pkg["scripts"] = scripts

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0o600)
}
