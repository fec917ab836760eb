package instantiate

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/placeholder"
	"github.com/comonadd/codetemplate/internal/shell"
	"github.com/comonadd/codetemplate/internal/ui"
)

// services is the dynamic.Services handed to generators of one instantiation.
type services struct {
	log         *zerolog.Logger
	prompter    ui.Prompter
	runner      shell.Runner
	destination string
	resources   string
}

var _ dynamic.Services = (*services)(nil)

func (s *services) Destination() string { return s.destination }

func (s *services) ResourcePath(name string) (string, error) {
	if s.resources == "" {
		return "", ErrNoResources
	}
	return resolve(s.resources, name), nil
}

func (s *services) CopyResource(name, dest string) error {
	src, err := s.ResourcePath(name)
	if err != nil {
		return err
	}
	target := resolve(s.destination, dest)
	s.log.Debug().Msgf("Copying resource %s -> %s", src, target)
	return copyPath(src, target)
}

func (s *services) AskBool(message string) (bool, error) {
	return s.prompter.AskBool(message)
}

func (s *services) AskString(message string) (string, error) {
	return s.prompter.AskString(message)
}

func (s *services) Render(src, dest string, values map[string]string) error {
	if s.resources != "" {
		src = resolve(s.resources, src)
	}
	target := resolve(s.destination, dest)
	s.log.Debug().Msgf("Rendering %s -> %s", src, target)
	return placeholder.NewSubstitutor(values).RenderFile(src, target)
}

func (s *services) Run(ctx context.Context, dir, name string, args ...string) error {
	return s.runner.Run(ctx, shell.Command{
		Name:        name,
		Args:        args,
		Dir:         resolve(s.destination, dir),
		Interactive: true,
	})
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
