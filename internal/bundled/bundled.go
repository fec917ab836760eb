// Package bundled ships the templates that come with the CLI. They live in an
// embedded tree and are written to disk so the loader can treat the bundle
// like any other search directory.
package bundled

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed all:templates
var templatesFS embed.FS

const root = "templates"

// FS returns the bundled template tree rooted at its top directory.
func FS() fs.FS {
	sub, err := fs.Sub(templatesFS, root)
	if err != nil {
		panic(err)
	}
	return sub
}

// Digest identifies the bundled content. It changes whenever any file path or
// content in the bundle changes.
func Digest() (string, error) {
	h := sha256.New()
	err := fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, readErr := templatesFS.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		fmt.Fprintf(h, "%s\x00%d\x00", path, len(content))
		h.Write(content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StampPath is where Materialize records the digest of what it wrote to dir.
// It sits next to dir, not inside it, so discovery never sees it.
func StampPath(dir string) string {
	return filepath.Clean(dir) + ".stamp"
}

// Materialize writes the bundle to dir unless the stamp already matches the
// embedded content. Stale content is replaced.
func Materialize(logger *zerolog.Logger, dir string) error {
	digest, err := Digest()
	if err != nil {
		return fmt.Errorf("failed to hash bundled templates: %w", err)
	}

	stamp := StampPath(dir)
	if current, readErr := os.ReadFile(stamp); readErr == nil && strings.TrimSpace(string(current)) == digest {
		if _, statErr := os.Stat(dir); statErr == nil {
			logger.Debug().Msgf("Bundled templates up to date in %s", dir)
			return nil
		}
	}

	logger.Debug().Msgf("Writing bundled templates to %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove stale bundled templates: %w", err)
	}

	err = fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(root, filepath.FromSlash(path))
		targetPath := filepath.Join(dir, relPath)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0755)
		}

		content, readErr := templatesFS.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read embedded file %s: %w", path, readErr)
		}
		return os.WriteFile(targetPath, content, 0644)
	})
	if err != nil {
		return fmt.Errorf("failed to write bundled templates: %w", err)
	}

	if err := os.WriteFile(stamp, []byte(digest+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write bundle stamp: %w", err)
	}
	return nil
}
