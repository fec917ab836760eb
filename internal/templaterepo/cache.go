package templaterepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	tarballTTL     = 24 * time.Hour
	tarballDirName = "tarballs"
	tarballExt     = ".tar.gz"
)

var refReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// Cache keeps downloaded GitHub archives under <cacheDir>/tarballs, one per
// owner, repo and ref. Entries older than a day are downloaded again.
type Cache struct {
	logger *zerolog.Logger
	dir    string
	ttl    time.Duration
	now    func() time.Time
}

func NewCache(logger *zerolog.Logger, cacheDir string) (*Cache, error) {
	dir := filepath.Join(cacheDir, tarballDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		logger: logger,
		dir:    dir,
		ttl:    tarballTTL,
		now:    time.Now,
	}, nil
}

// TarballPath is where the archive of source is stored.
func (c *Cache) TarballPath(source Source) string {
	name := fmt.Sprintf("%s-%s-%s%s", source.Owner, source.Repo, refReplacer.Replace(source.Ref), tarballExt)
	return filepath.Join(c.dir, name)
}

// Lookup returns the archive path of source and whether it can be used as is.
func (c *Cache) Lookup(source Source) (string, bool) {
	path := c.TarballPath(source)
	info, err := os.Stat(path)
	if err != nil {
		return path, false
	}
	return path, c.fresh(info)
}

func (c *Cache) fresh(info os.FileInfo) bool {
	return c.now().Sub(info.ModTime()) < c.ttl
}

// Invalidate removes the archive of source, if any.
func (c *Cache) Invalidate(source Source) {
	if err := os.Remove(c.TarballPath(source)); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn().Err(err).Msgf("Failed to invalidate cached tarball for %s", source)
		return
	}
	c.logger.Debug().Msgf("Invalidated cached tarball for %s", source)
}

// Prune deletes expired archives and partial downloads. It returns the
// number of files removed.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		partial := strings.HasSuffix(entry.Name(), ".part")
		if !partial && c.fresh(info) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to prune %s: %w", entry.Name(), err)
		}
		removed++
	}

	if removed > 0 {
		c.logger.Debug().Msgf("Pruned %d cached tarballs", removed)
	}
	return removed, nil
}
