package dynamic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/placeholder"
)

// Step is one action of a declarative generator. Exactly one action field is set.
type Step struct {
	Ask    *AskStep  `yaml:"ask,omitempty"`
	Mkdir  string    `yaml:"mkdir,omitempty"`
	Copy   *FileStep `yaml:"copy,omitempty"`
	Render *FileStep `yaml:"render,omitempty"`
	Run    []string  `yaml:"run,omitempty"`
	// Dir is the working directory for run, relative to the destination.
	Dir string `yaml:"dir,omitempty"`
	// When names a boolean variable; a leading "!" negates it.
	When string `yaml:"when,omitempty"`
}

type AskStep struct {
	Var     string `yaml:"var"`
	Message string `yaml:"message"`
	// Type is "bool" or "string" (default).
	Type    string `yaml:"type,omitempty"`
	Default string `yaml:"default,omitempty"`
}

type FileStep struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Variables every step sees before any ask.
const (
	VarDestination = "destination"
	VarName        = "name"
)

func (s Step) validate() error {
	actions := 0
	if s.Ask != nil {
		actions++
		if s.Ask.Var == "" {
			return errors.New("ask needs a var")
		}
		switch s.Ask.Type {
		case "", "string", "bool":
		default:
			return fmt.Errorf("ask %s: unknown type %q", s.Ask.Var, s.Ask.Type)
		}
	}
	if s.Mkdir != "" {
		actions++
	}
	if s.Copy != nil {
		actions++
		if s.Copy.From == "" {
			return errors.New("copy needs from")
		}
	}
	if s.Render != nil {
		actions++
		if s.Render.From == "" {
			return errors.New("render needs from")
		}
	}
	if len(s.Run) > 0 {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("expected exactly one action, got %d", actions)
	}
	return nil
}

type stepsGenerator struct {
	log   *zerolog.Logger
	steps []Step
}

func (g *stepsGenerator) Generate(ctx context.Context, req GenerateRequest) (bool, error) {
	vars := map[string]string{
		VarDestination: req.Destination,
		VarName:        filepath.Base(req.Destination),
	}

	if err := os.MkdirAll(req.Destination, 0o755); err != nil {
		return false, fmt.Errorf("failed to create destination: %w", err)
	}

	for i, step := range g.steps {
		run, err := enabled(step.When, vars)
		if err != nil {
			return false, fmt.Errorf("step %d: %w", i+1, err)
		}
		if !run {
			g.log.Debug().Msgf("Skipping step %d (when: %s)", i+1, step.When)
			continue
		}
		if err := g.apply(ctx, req.Services, step, vars); err != nil {
			return false, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return true, nil
}

func (g *stepsGenerator) apply(ctx context.Context, svc Services, step Step, vars map[string]string) error {
	expand := func(s string) (string, error) {
		return placeholder.Render(s, vars)
	}

	switch {
	case step.Ask != nil:
		a := *step.Ask
		var err error
		if a.Message, err = expand(a.Message); err != nil {
			return err
		}
		if a.Default, err = expand(a.Default); err != nil {
			return err
		}
		return ask(svc, &a, vars)

	case step.Mkdir != "":
		dir, err := expand(step.Mkdir)
		if err != nil {
			return err
		}
		return os.MkdirAll(resolve(svc.Destination(), dir), 0o755)

	case step.Copy != nil:
		from, to, err := expandPair(step.Copy, expand)
		if err != nil {
			return err
		}
		return svc.CopyResource(from, to)

	case step.Render != nil:
		from, to, err := expandPair(step.Render, expand)
		if err != nil {
			return err
		}
		src, err := svc.ResourcePath(from)
		if err != nil {
			return err
		}
		return svc.Render(src, to, vars)

	default:
		argv := make([]string, len(step.Run))
		for i, a := range step.Run {
			v, err := expand(a)
			if err != nil {
				return err
			}
			argv[i] = v
		}
		dir, err := expand(step.Dir)
		if err != nil {
			return err
		}
		return svc.Run(ctx, dir, argv[0], argv[1:]...)
	}
}

func ask(svc Services, a *AskStep, vars map[string]string) error {
	if a.Type == "bool" {
		answer, err := svc.AskBool(a.Message)
		if err != nil {
			return err
		}
		vars[a.Var] = strconv.FormatBool(answer)
		return nil
	}

	answer, err := svc.AskString(a.Message)
	if err != nil {
		return err
	}
	if answer == "" {
		answer = a.Default
	}
	vars[a.Var] = answer
	return nil
}

// expandPair expands a file step; an empty To means the same relative path as From.
func expandPair(f *FileStep, expand func(string) (string, error)) (string, string, error) {
	from, err := expand(f.From)
	if err != nil {
		return "", "", err
	}
	to := f.To
	if to == "" {
		to = f.From
	}
	to, err = expand(to)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func enabled(when string, vars map[string]string) (bool, error) {
	if when == "" {
		return true, nil
	}
	negate := strings.HasPrefix(when, "!")
	name := strings.TrimPrefix(when, "!")
	raw, ok := vars[name]
	if !ok {
		return false, fmt.Errorf("when: unknown variable %q", name)
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("when: variable %q is not a boolean", name)
	}
	return value != negate, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
