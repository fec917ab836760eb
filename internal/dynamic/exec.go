package dynamic

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/shell"
)

// Environment passed to out-of-process generators.
const (
	EnvDestination = "CODETEMPLATE_DESTINATION"
	EnvResources   = "CODETEMPLATE_RESOURCES"
)

type execGenerator struct {
	log    *zerolog.Logger
	runner shell.Runner
	dir    string
	argv   []string
}

func (g *execGenerator) Generate(ctx context.Context, req GenerateRequest) (bool, error) {
	args := append(append([]string(nil), g.argv[1:]...), req.Destination)
	cmd := shell.Command{
		Name: g.argv[0],
		Args: args,
		Dir:  g.dir,
		Env: []string{
			EnvDestination + "=" + req.Destination,
			EnvResources + "=" + req.ResourcesRoot,
		},
		Interactive: true,
	}

	err := g.runner.Run(ctx, cmd)
	if err == nil {
		return true, nil
	}
	if code, ok := shell.ExitCode(err); ok {
		g.log.Debug().Int("exit_code", code).Msgf("Generator %s exited with failure", g.argv[0])
		return false, nil
	}
	return false, errors.WithStack(err)
}
