package newproject

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/ui"
	"github.com/comonadd/codetemplate/internal/validation"
)

type Inputs struct {
	Template    string `validate:"required,template_name" cli:"template"`
	Destination string `validate:"required" cli:"destination"`
}

// Creator instantiates templates. Implemented by manager.Manager.
type Creator interface {
	NewProject(ctx context.Context, name, dest string) error
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "new <template> <destination>",
		Short: "Creates a new project from a template",
		Long: `Creates a new project at the destination path from the named template.

The template is looked up in the user template directory first, then in any
additional template paths, then among the bundled templates. The destination
must not exist yet. Templates that declare requirements offer to install the
missing packages before generating anything.`,
		Args:    cobra.ExactArgs(2),
		Example: "codetemplate new rollup-lib ./my-lib",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext.Logger, runtimeContext.Manager())
			inputs := h.ResolveInputs(args)
			if err := h.ValidateInputs(inputs); err != nil {
				return common.Report(err)
			}
			return common.Report(h.Execute(cmd.Context(), inputs))
		},
	}
}

type handler struct {
	log       *zerolog.Logger
	creator   Creator
	validated bool
}

func newHandler(log *zerolog.Logger, creator Creator) *handler {
	return &handler{log: log, creator: creator}
}

func (h *handler) ResolveInputs(args []string) Inputs {
	return Inputs{
		Template:    args[0],
		Destination: args[1],
	}
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

	dest, err := filepath.Abs(inputs.Destination)
	if err != nil {
		return fmt.Errorf("invalid destination %q: %w", inputs.Destination, err)
	}

	ui.Print(fmt.Sprintf("Creating new project with template %q", inputs.Template))
	if err := h.creator.NewProject(ctx, inputs.Template, dest); err != nil {
		return err
	}

	ui.Line()
	ui.Success(fmt.Sprintf("Project created at %s", dest))
	return nil
}
