package templaterepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/comonadd/codetemplate/internal/instantiate"
)

// clone shallow-clones a git source and copies subPath of its worktree to
// destDir, leaving out the standard ignores.
func (c *Client) clone(ctx context.Context, source Source, subPath, destDir string) error {
	dir, err := os.MkdirTemp("", "codetemplate-git-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var lastErr error
	for _, ref := range referenceCandidates(source.Ref) {
		opts := &git.CloneOptions{
			URL:           source.URL,
			ReferenceName: ref,
			SingleBranch:  true,
		}
		// file:// remotes are cloned in full.
		if !strings.HasPrefix(source.URL, "file://") {
			opts.Depth = 1
		}
		if c.token != "" && strings.HasPrefix(source.URL, "https://") {
			opts.Auth = &githttp.BasicAuth{
				Username: "x-access-token",
				Password: c.token,
			}
		}

		c.logger.Debug().Msgf("Cloning %s (ref %q)", source.URL, ref)
		_, lastErr = git.PlainCloneContext(ctx, dir, false, opts)
		if lastErr == nil {
			break
		}
		if err := resetDir(dir); err != nil {
			return err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("clone %s: %w", source, lastErr)
	}

	src, err := safeJoin(dir, subPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathNotFound, subPath)
	}

	return instantiate.CopyTreeSkipping(src, destDir, func(rel string) bool {
		return shouldIgnore(rel, standardIgnores)
	})
}

// referenceCandidates lists what a user-supplied ref may name. An empty ref
// clones the remote HEAD.
func referenceCandidates(ref string) []plumbing.ReferenceName {
	switch {
	case ref == "":
		return []plumbing.ReferenceName{""}
	case strings.HasPrefix(ref, "refs/"):
		return []plumbing.ReferenceName{plumbing.ReferenceName(ref)}
	default:
		return []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(ref),
			plumbing.NewTagReferenceName(ref),
		}
	}
}

func resetDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
