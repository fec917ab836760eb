// Package instantiate turns a classified template into a project on disk.
package instantiate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/shell"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/ui"
)

var (
	ErrGenerationFailed  = errors.New("template generation failed")
	ErrDestinationExists = errors.New("destination already exists")
	ErrNoResources       = dynamic.ErrNoResources
)

type options struct {
	allowEmptyDestination bool
}

type Option func(*options)

// AllowEmptyDestination accepts an existing destination directory as long as
// it is empty.
func AllowEmptyDestination() Option {
	return func(o *options) {
		o.allowEmptyDestination = true
	}
}

type Instantiator struct {
	log      *zerolog.Logger
	prompter ui.Prompter
	runner   shell.Runner
}

func New(log *zerolog.Logger, prompter ui.Prompter, runner shell.Runner) *Instantiator {
	return &Instantiator{log: log, prompter: prompter, runner: runner}
}

// Instantiate creates a project from meta at dest.
func (i *Instantiator) Instantiate(ctx context.Context, meta *template.Meta, dest string, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	dest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	if err := checkDestination(dest, o.allowEmptyDestination); err != nil {
		return err
	}

	i.log.Debug().Msgf("Instantiating %s (%s) into %s", meta.Name, meta.Kind(), dest)

	switch v := meta.Variant.(type) {
	case template.PlainDirectory:
		if err := CopyTree(meta.FullPath, dest); err != nil {
			return fmt.Errorf("failed to copy template: %w", err)
		}
		return nil
	case template.DynamicModule:
		return i.generate(ctx, v.Module, dest, "")
	case template.DynamicModuleWithResources:
		return i.generate(ctx, v.Module, dest, v.ResourcesRoot)
	default:
		return fmt.Errorf("unsupported template variant %T", meta.Variant)
	}
}

func (i *Instantiator) generate(ctx context.Context, mod dynamic.Module, dest, resources string) error {
	svc := &services{
		log:         i.log,
		prompter:    i.prompter,
		runner:      i.runner,
		destination: dest,
		resources:   resources,
	}

	ok, err := mod.Generate(ctx, dynamic.GenerateRequest{
		Destination:   dest,
		ResourcesRoot: resources,
		Services:      svc,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s reported failure", ErrGenerationFailed, mod.Path())
	}
	return nil
}

// CheckDestination reports ErrDestinationExists when dest cannot receive a new
// project under opts.
func CheckDestination(dest string, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	dest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	return checkDestination(dest, o.allowEmptyDestination)
}

func checkDestination(dest string, allowEmpty bool) error {
	info, err := os.Lstat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if allowEmpty && info.IsDir() {
		entries, err := os.ReadDir(dest)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s is not empty", ErrDestinationExists, dest)
	}
	return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
}
