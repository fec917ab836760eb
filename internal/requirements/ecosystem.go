// Package requirements checks that the external packages a template needs are
// installed, and offers to install the missing ones.
package requirements

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/comonadd/codetemplate/internal/shell"
)

// Set holds normalized names of installed packages.
type Set map[string]bool

// Ecosystem is a package manager that can list and install packages.
type Ecosystem interface {
	Name() string
	// Normalize maps a package name to the form Installed reports.
	Normalize(name string) string
	Installed(ctx context.Context) (Set, error)
	Install(ctx context.Context, name string) error
}

const (
	Pip = "pip"
	Npm = "npm"
)

// PipEcosystem queries and installs Python packages with pip.
type PipEcosystem struct {
	runner  shell.Runner
	command string
}

func NewPip(runner shell.Runner, command string) *PipEcosystem {
	if command == "" {
		command = "pip"
	}
	return &PipEcosystem{runner: runner, command: command}
}

func (p *PipEcosystem) Name() string { return Pip }

var pipSeparators = regexp.MustCompile(`[-_.]+`)

// Normalize applies PEP 503 name normalization.
func (p *PipEcosystem) Normalize(name string) string {
	return pipSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func (p *PipEcosystem) Installed(ctx context.Context) (Set, error) {
	out, err := p.runner.Output(ctx, shell.Command{Name: p.command, Args: []string{"list", "--format=freeze"}})
	if err != nil {
		return nil, fmt.Errorf("failed to list pip packages: %w", err)
	}

	set := Set{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		for _, sep := range []string{"==", " @ "} {
			if i := strings.Index(name, sep); i >= 0 {
				name = name[:i]
			}
		}
		set[p.Normalize(name)] = true
	}
	return set, scanner.Err()
}

func (p *PipEcosystem) Install(ctx context.Context, name string) error {
	return p.runner.Run(ctx, shell.Command{Name: p.command, Args: []string{"install", name}, Interactive: true})
}

// NpmEcosystem queries and installs globally installed npm packages.
type NpmEcosystem struct {
	runner  shell.Runner
	command string
}

func NewNpm(runner shell.Runner, command string) *NpmEcosystem {
	if command == "" {
		command = "npm"
	}
	return &NpmEcosystem{runner: runner, command: command}
}

func (n *NpmEcosystem) Name() string { return Npm }

func (n *NpmEcosystem) Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type npmList struct {
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

func (n *NpmEcosystem) Installed(ctx context.Context) (Set, error) {
	out, err := n.runner.Output(ctx, shell.Command{Name: n.command, Args: []string{"ls", "--global", "--depth=0", "--json"}})
	// npm ls exits non-zero on extraneous or invalid packages but still prints the tree.
	if err != nil && len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("failed to list npm packages: %w", err)
	}

	var list npmList
	if jsonErr := json.Unmarshal(out, &list); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse npm ls output: %w", jsonErr)
	}

	set := Set{}
	for name := range list.Dependencies {
		set[n.Normalize(name)] = true
	}
	return set, nil
}

func (n *NpmEcosystem) Install(ctx context.Context, name string) error {
	return n.runner.Run(ctx, shell.Command{Name: n.command, Args: []string{"install", "--global", name}, Interactive: true})
}
