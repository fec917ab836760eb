package initproject

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/ui"
	"github.com/comonadd/codetemplate/internal/validation"
)

type Inputs struct {
	Template  string `validate:"required,template_name" cli:"template"`
	Directory string `validate:"required,dir" cli:"path"`
}

// Initializer instantiates templates into existing directories.
// Implemented by manager.Manager.
type Initializer interface {
	Init(ctx context.Context, name, dir string) error
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init <template>",
		Short: "Initializes the current directory from a template",
		Long: `Initializes an empty directory, the current one by default, from the named
template. A directory that already has content is left untouched.`,
		Args:    cobra.ExactArgs(1),
		Example: "codetemplate init python-package",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext.Logger, runtimeContext.Manager())
			inputs, err := h.ResolveInputs(runtimeContext.Viper, args)
			if err != nil {
				return common.Report(err)
			}
			if err := h.ValidateInputs(inputs); err != nil {
				return common.Report(err)
			}
			return common.Report(h.Execute(cmd.Context(), inputs))
		},
	}

	initCmd.Flags().StringP(config.Flags.Path.Name, config.Flags.Path.Short, "", "Directory to initialize (default: the current directory)")

	return initCmd
}

type handler struct {
	log         *zerolog.Logger
	initializer Initializer
	validated   bool
}

func newHandler(log *zerolog.Logger, initializer Initializer) *handler {
	return &handler{log: log, initializer: initializer}
}

func (h *handler) ResolveInputs(v *viper.Viper, args []string) (Inputs, error) {
	dir := v.GetString(config.Flags.Path.Name)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Inputs{}, fmt.Errorf("unable to get working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{Template: args[0], Directory: abs}, nil
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	v, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("validator init: %w", err)
	}
	if err := v.Struct(inputs); err != nil {
		return v.ParseValidationErrors(err)
	}
	h.validated = true
	return nil
}

func (h *handler) Execute(ctx context.Context, inputs Inputs) error {
	if !h.validated {
		return fmt.Errorf("handler inputs not validated")
	}

	ui.Print(fmt.Sprintf("Initializing project with template %q", inputs.Template))
	if err := h.initializer.Init(ctx, inputs.Template, inputs.Directory); err != nil {
		return err
	}

	ui.Line()
	ui.Success(fmt.Sprintf("Initialized %s", inputs.Directory))
	return nil
}
