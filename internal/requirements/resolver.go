package requirements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/ui"
)

var (
	ErrUnknownEcosystem = errors.New("unknown requirement ecosystem")
	ErrAborted          = errors.New("aborted: required packages are not installed")
)

// Issue is a required package that is not installed.
type Issue struct {
	Ecosystem string
	Name      string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Ecosystem)
}

// Resolver checks template requirements against installed packages. The
// installed set of each ecosystem is queried once and kept until Refresh.
type Resolver struct {
	log        *zerolog.Logger
	prompter   ui.Prompter
	ecosystems map[string]Ecosystem
	installed  map[string]Set
}

func NewResolver(log *zerolog.Logger, prompter ui.Prompter, ecosystems ...Ecosystem) *Resolver {
	r := &Resolver{
		log:        log,
		prompter:   prompter,
		ecosystems: make(map[string]Ecosystem, len(ecosystems)),
		installed:  map[string]Set{},
	}
	for _, e := range ecosystems {
		r.ecosystems[e.Name()] = e
	}
	return r
}

// Refresh drops every memoized installed set.
func (r *Resolver) Refresh() {
	r.installed = map[string]Set{}
}

func (r *Resolver) installedSet(ctx context.Context, eco Ecosystem) (Set, error) {
	if set, ok := r.installed[eco.Name()]; ok {
		return set, nil
	}
	r.log.Debug().Msgf("Querying installed %s packages", eco.Name())
	set, err := eco.Installed(ctx)
	if err != nil {
		return nil, err
	}
	r.installed[eco.Name()] = set
	return set, nil
}

// Check returns the requested packages that are not installed, ecosystems in
// sorted order and names in requested order.
func (r *Resolver) Check(ctx context.Context, reqs map[string][]string) ([]Issue, error) {
	ids := make([]string, 0, len(reqs))
	for id := range reqs {
		if _, ok := r.ecosystems[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEcosystem, id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var issues []Issue
	for _, id := range ids {
		if len(reqs[id]) == 0 {
			continue
		}
		eco := r.ecosystems[id]
		installed, err := r.installedSet(ctx, eco)
		if err != nil {
			return nil, err
		}

		seen := map[string]bool{}
		for _, name := range reqs[id] {
			normalized := eco.Normalize(name)
			if installed[normalized] || seen[normalized] {
				continue
			}
			seen[normalized] = true
			issues = append(issues, Issue{Ecosystem: id, Name: name})
		}
	}
	return issues, nil
}

// Gate passes when every requirement is installed. Otherwise it asks the user
// whether to install the missing packages and returns ErrAborted on refusal.
func (r *Resolver) Gate(ctx context.Context, reqs map[string][]string) error {
	issues, err := r.Check(ctx, reqs)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}

	ui.Warning(describe(issues))
	install, err := r.prompter.AskBool("Install required packages?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	if !install {
		return ErrAborted
	}

	for _, issue := range issues {
		ui.Dim(fmt.Sprintf("Installing %s", issue))
		if err := r.ecosystems[issue.Ecosystem].Install(ctx, issue.Name); err != nil {
			r.log.Warn().Err(err).Msgf("Failed to install %s", issue)
		}
	}
	r.Refresh()
	return nil
}

func describe(issues []Issue) string {
	names := make([]string, len(issues))
	for i, issue := range issues {
		names[i] = issue.String()
	}
	verb := "is"
	if len(issues) > 1 {
		verb = "are"
	}
	return fmt.Sprintf("There are unresolved dependency issues: %s %s not installed.", strings.Join(names, ", "), verb)
}
