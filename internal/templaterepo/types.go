package templaterepo

import (
	"fmt"
	"path"
	"strings"
)

// Kind tells how a Source is fetched.
type Kind string

const (
	KindGitHub Kind = "github"
	KindGit    Kind = "git"
)

// DefaultRef is used for GitHub sources given without an explicit ref.
const DefaultRef = "main"

var gitURLPrefixes = []string{"https://", "http://", "ssh://", "git://", "file://", "git@"}

// Source identifies where a template comes from.
type Source struct {
	Kind  Kind
	Owner string // GitHub only
	Repo  string // GitHub only
	URL   string // git only
	Ref   string // Branch or tag; empty means the remote HEAD for git sources
}

// String returns "owner/repo@ref" for GitHub sources and the URL, with a
// "#ref" suffix when set, for git sources.
func (s Source) String() string {
	if s.Kind == KindGit {
		if s.Ref != "" {
			return s.URL + "#" + s.Ref
		}
		return s.URL
	}
	return s.Owner + "/" + s.Repo + "@" + s.Ref
}

// DefaultName is the template name used when none is given: the repository
// name, without any ".git" suffix.
func (s Source) DefaultName() string {
	if s.Kind == KindGitHub {
		return s.Repo
	}
	u := strings.TrimSuffix(strings.TrimRight(s.URL, "/"), ".git")
	if i := strings.LastIndex(u, ":"); i != -1 && !strings.Contains(u[i:], "/") {
		u = u[i+1:]
	}
	return path.Base(u)
}

// ParseSource parses "owner/repo[@ref]" or a git URL with an optional
// "#ref" suffix.
func ParseSource(s string) (Source, error) {
	s = strings.TrimSpace(s)
	for _, prefix := range gitURLPrefixes {
		if strings.HasPrefix(s, prefix) {
			url, ref, _ := strings.Cut(s, "#")
			if len(url) == len(prefix) {
				return Source{}, fmt.Errorf("git URL %q has no repository", s)
			}
			return Source{Kind: KindGit, URL: url, Ref: ref}, nil
		}
	}

	ref := DefaultRef
	repoPath := s
	if idx := strings.LastIndex(s, "@"); idx != -1 {
		repoPath = s[:idx]
		ref = s[idx+1:]
	}

	parts := strings.SplitN(repoPath, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") || ref == "" {
		return Source{}, fmt.Errorf("expected format: owner/repo[@ref] or a git URL, got %q", s)
	}

	return Source{
		Kind:  KindGitHub,
		Owner: parts[0],
		Repo:  parts[1],
		Ref:   ref,
	}, nil
}
