package remove

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/templateconfig"
	"github.com/comonadd/codetemplate/internal/ui"
	"github.com/comonadd/codetemplate/internal/validation"
)

type Inputs struct {
	Names []string `validate:"required,dive,template_name" cli:"name"`
}

type handler struct {
	log          *zerolog.Logger
	templatesDir string
	sourcesPath  string
	validated    bool
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>...",
		Short: "Removes installed templates",
		Long: `Deletes templates that were installed with "templates add" from the user
template directory and forgets their source. Templates created by hand are
never removed.`,
		Args:    cobra.MinimumNArgs(1),
		Example: "codetemplate templates remove web-app cli-template",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext.Logger, runtimeContext.Config)
			inputs := Inputs{Names: args}
			if err := h.ValidateInputs(inputs); err != nil {
				return common.Report(err)
			}
			return common.Report(h.Execute(inputs))
		},
	}
}

func newHandler(log *zerolog.Logger, cfg *config.Config) *handler {
	return &handler{
		log:          log,
		templatesDir: cfg.TemplatesDir(),
		sourcesPath:  cfg.SourcesPath(),
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

func (h *handler) Execute(inputs Inputs) error {
	if !h.validated {
		return fmt.Errorf("handler inputs not validated")
	}

	ledger, err := templateconfig.Load(h.log, h.sourcesPath)
	if err != nil {
		return err
	}

	var removed []string
	for _, name := range inputs.Names {
		entry, ok := ledger.Get(name)
		if !ok {
			ui.Warning(fmt.Sprintf("Template %q was not installed with \"templates add\", skipping", name))
			continue
		}

		dir := filepath.Join(h.templatesDir, name)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to delete %s: %w", dir, err)
		}
		if err := ledger.Remove(name); err != nil {
			return err
		}
		h.log.Debug().Msgf("Removed %s installed from %s", dir, entry.Origin())
		removed = append(removed, name)
	}

	if len(removed) == 0 {
		return nil
	}

	if err := ledger.Save(); err != nil {
		return fmt.Errorf("failed to save template sources: %w", err)
	}

	ui.Line()
	for _, name := range removed {
		ui.Success(fmt.Sprintf("Removed %s", name))
	}
	ui.Line()
	return nil
}
