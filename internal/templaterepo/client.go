package templaterepo

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

const (
	defaultAPIURL    = "https://api.github.com"
	tarballTimeout   = 30 * time.Second
	downloadAttempts = 3
	userAgent        = "codetemplate"
)

var (
	// ErrPathNotFound is returned when the requested subdirectory does not
	// exist in the fetched source.
	ErrPathNotFound = errors.New("path not found in source")
	// ErrUnsafePath is returned for archive entries or paths that would
	// escape the destination directory.
	ErrUnsafePath = errors.New("unsafe path")
)

// standardIgnores are never installed, at any depth.
var standardIgnores = []string{
	".git",
	"node_modules",
	"__pycache__",
	".DS_Store",
	"*.pyc",
}

// Client fetches template directories from GitHub repositories and git
// remotes.
type Client struct {
	logger     *zerolog.Logger
	httpClient *http.Client
	cache      *Cache
	token      string
	apiURL     string
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken authenticates GitHub downloads and https clones.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithAPIURL points the client at a GitHub-compatible API.
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = strings.TrimRight(url, "/") }
}

// NewClient creates a Client caching tarballs in cache.
func NewClient(logger *zerolog.Logger, cache *Cache, opts ...Option) *Client {
	c := &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: tarballTimeout},
		cache:      cache,
		apiURL:     defaultAPIURL,
		retryDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch installs the directory at subPath of source (the whole source when
// subPath is empty) as destDir. destDir must not exist; the content is staged
// next to it and renamed into place, so a failure leaves nothing behind.
func (c *Client) Fetch(ctx context.Context, source Source, subPath, destDir string) error {
	subPath, err := cleanSubPath(subPath)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(destDir); err == nil {
		return fmt.Errorf("destination %s already exists", destDir)
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}
	// Dot-prefixed so discovery never sees a half-written template.
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(destDir)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)
	content := filepath.Join(staging, "content")

	switch source.Kind {
	case KindGit:
		err = c.clone(ctx, source, subPath, content)
	default:
		err = c.fetchGitHub(ctx, source, subPath, content)
	}
	if err != nil {
		return err
	}

	if err := os.Rename(content, destDir); err != nil {
		return fmt.Errorf("failed to move template into place: %w", err)
	}
	c.logger.Debug().Msgf("Installed %s into %s", source, destDir)
	return nil
}

func (c *Client) fetchGitHub(ctx context.Context, source Source, subPath, destDir string) error {
	tarballPath, cached := c.cache.Lookup(source)
	if cached {
		c.logger.Debug().Msgf("Using cached tarball for %s", source)
	} else {
		err := retry.Do(
			func() error {
				return c.DownloadTarball(ctx, source, tarballPath)
			},
			retry.Attempts(downloadAttempts),
			retry.Delay(c.retryDelay),
			retry.LastErrorOnly(true),
			retry.Context(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", source, err)
		}
	}

	f, err := os.Open(tarballPath)
	if err != nil {
		return fmt.Errorf("failed to open tarball: %w", err)
	}
	defer f.Close()

	if err := c.extractTarball(f, subPath, destDir); err != nil {
		// A corrupt archive must not be served again from the cache.
		if !errors.Is(err, ErrPathNotFound) {
			c.cache.Invalidate(source)
		}
		return err
	}
	return nil
}

// DownloadTarball downloads the repository archive of source to destPath.
// Client errors other than rate limiting are not retried.
func (c *Client) DownloadTarball(ctx context.Context, source Source, destPath string) error {
	tarballURL := fmt.Sprintf("%s/repos/%s/%s/tarball/%s", c.apiURL, source.Owner, source.Repo, source.Ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tarballURL, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	c.setAuthHeaders(req)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	c.logger.Debug().Msgf("Downloading %s", tarballURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download tarball: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("tarball download failed with status: %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return fmt.Errorf("failed to create directory for tarball: %w", err)
	}

	part := destPath + ".part"
	f, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("failed to create tarball file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(part)
		return fmt.Errorf("failed to write tarball: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(part)
		return fmt.Errorf("failed to write tarball: %w", err)
	}
	return os.Rename(part, destPath)
}

// extractTarball reads a gzip+tar stream and extracts the entries under
// subPath into destDir. GitHub archives wrap everything in a single
// "owner-repo-sha/" directory, which is stripped.
func (c *Client) extractTarball(r io.Reader, subPath, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	tr := tar.NewReader(gz)
	var topLevelPrefix string
	found := subPath == ""

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("illegal file path in archive: %s: %w", header.Name, ErrUnsafePath)
		}
		if err != nil {
			return fmt.Errorf("tar read error: %w", err)
		}

		if header.Typeflag == tar.TypeXGlobalHeader || header.Typeflag == tar.TypeXHeader {
			continue
		}

		if topLevelPrefix == "" {
			topLevelPrefix = strings.SplitN(header.Name, "/", 2)[0] + "/"
		}
		name := strings.TrimSuffix(strings.TrimPrefix(header.Name, topLevelPrefix), "/")
		if name == "" {
			continue
		}

		relPath := name
		if subPath != "" {
			if name == subPath {
				if header.Typeflag != tar.TypeDir {
					return fmt.Errorf("%s is not a directory", subPath)
				}
				found = true
				continue
			}
			if !strings.HasPrefix(name, subPath+"/") {
				continue
			}
			found = true
			relPath = strings.TrimPrefix(name, subPath+"/")
		}

		if shouldIgnore(relPath, standardIgnores) {
			continue
		}

		targetPath, err := safeJoin(destDir, relPath)
		if err != nil {
			return fmt.Errorf("illegal file path in archive: %s: %w", header.Name, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			c.logger.Debug().Msgf("Extracting dir: %s -> %s", name, targetPath)
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", targetPath, err)
			}
		case tar.TypeReg:
			c.logger.Debug().Msgf("Extracting file: %s -> %s", name, targetPath)
			if err := writeEntry(tr, targetPath, os.FileMode(header.Mode).Perm()|0600); err != nil {
				return err
			}
		case tar.TypeSymlink:
			linkTarget := filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(header.Linkname))
			if path.IsAbs(header.Linkname) || !within(destDir, linkTarget) {
				return fmt.Errorf("illegal symlink in archive: %s -> %s: %w", header.Name, header.Linkname, ErrUnsafePath)
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", targetPath, err)
			}
		default:
			c.logger.Debug().Msgf("Skipping unsupported archive entry %s", header.Name)
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrPathNotFound, subPath)
	}
	return nil
}

func writeEntry(r io.Reader, targetPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	f, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", targetPath, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file %s: %w", targetPath, err)
	}
	return f.Close()
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// cleanSubPath normalizes a slash-separated path inside a source and
// rejects one that leaves it.
func cleanSubPath(p string) (string, error) {
	p = strings.Trim(filepath.ToSlash(p), "/")
	if p == "" {
		return "", nil
	}
	p = path.Clean(p)
	if p == "." {
		return "", nil
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("path %q leaves the source: %w", p, ErrUnsafePath)
	}
	return p, nil
}

func safeJoin(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, target) {
		return "", ErrUnsafePath
	}
	return target, nil
}

func within(root, target string) bool {
	cleanRoot := filepath.Clean(root)
	cleanTarget := filepath.Clean(target)
	return cleanTarget == cleanRoot || strings.HasPrefix(cleanTarget, cleanRoot+string(os.PathSeparator))
}

// shouldIgnore reports whether any component of relPath equals a pattern,
// or whether relPath ends with the suffix of a "*suffix" pattern.
func shouldIgnore(relPath string, patterns []string) bool {
	components := strings.Split(relPath, "/")
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
			if strings.HasSuffix(relPath, suffix) {
				return true
			}
			continue
		}
		for _, component := range components {
			if component == pattern {
				return true
			}
		}
	}
	return false
}
