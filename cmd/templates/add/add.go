package add

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/templateconfig"
	"github.com/comonadd/codetemplate/internal/templaterepo"
	"github.com/comonadd/codetemplate/internal/ui"
	"github.com/comonadd/codetemplate/internal/validation"
)

type Inputs struct {
	Source string `validate:"required,template_source" cli:"source"`
	Name   string `validate:"required,template_name" cli:"name"`
	Path   string `cli:"path"`
	Force  bool   `cli:"force"`
}

// Fetcher installs a template directory from a remote source.
// Implemented by templaterepo.Client.
type Fetcher interface {
	Fetch(ctx context.Context, source templaterepo.Source, subPath, destDir string) error
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <owner/repo[@ref] | git-url[#ref]>",
		Short: "Installs a template from GitHub or a git remote",
		Long: `Downloads a template into the user template directory and records where it
came from in sources.yaml.

GitHub sources are given as owner/repo[@ref] and fetched as a tarball; any
other git remote is given by URL, optionally followed by #ref, and cloned.
Use --path to install a subdirectory of the repository.`,
		Args: cobra.ExactArgs(1),
		Example: `codetemplate templates add comonadd/templates@main --path web --name web-app
codetemplate templates add https://example.com/org/cli-template.git#v2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := runtimeContext.TemplateClient()
			if err != nil {
				return common.Report(err)
			}
			h := newHandler(runtimeContext.Logger, client, runtimeContext.Config)

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

	addCmd.Flags().StringP(config.Flags.Name.Name, config.Flags.Name.Short, "", "Name to install the template under (default: the repository or --path directory name)")
	addCmd.Flags().StringP(config.Flags.Path.Name, config.Flags.Path.Short, "", "Subdirectory of the repository holding the template")
	addCmd.Flags().BoolP(config.Flags.Force.Name, config.Flags.Force.Short, false, "Replace an installed template with the same name")

	return addCmd
}

type handler struct {
	log          *zerolog.Logger
	fetcher      Fetcher
	templatesDir string
	sourcesPath  string
	spinner      *ui.Spinner
	now          func() time.Time
	validated    bool
}

func newHandler(log *zerolog.Logger, fetcher Fetcher, cfg *config.Config) *handler {
	return &handler{
		log:          log,
		fetcher:      fetcher,
		templatesDir: cfg.TemplatesDir(),
		sourcesPath:  cfg.SourcesPath(),
		spinner:      ui.NewSpinner(),
		now:          time.Now,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper, args []string) (Inputs, error) {
	inputs := Inputs{
		Source: args[0],
		Name:   v.GetString(config.Flags.Name.Name),
		Path:   v.GetString(config.Flags.Path.Name),
		Force:  v.GetBool(config.Flags.Force.Name),
	}
	if inputs.Name != "" {
		return inputs, nil
	}

	if sub := strings.Trim(filepath.ToSlash(inputs.Path), "/"); sub != "" {
		inputs.Name = path.Base(sub)
		return inputs, nil
	}
	source, err := templaterepo.ParseSource(inputs.Source)
	if err != nil {
		return Inputs{}, err
	}
	inputs.Name = source.DefaultName()
	return inputs, nil
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

	source, err := templaterepo.ParseSource(inputs.Source)
	if err != nil {
		return err
	}

	ledger, err := templateconfig.Load(h.log, h.sourcesPath)
	if err != nil {
		return err
	}

	dest := filepath.Join(h.templatesDir, inputs.Name)
	_, statErr := os.Lstat(dest)
	exists := statErr == nil
	if exists && !inputs.Force {
		return fmt.Errorf("template %q already exists at %s, use --force to replace it", inputs.Name, dest)
	}

	target := dest
	if exists {
		// Dot-prefixed names are skipped by discovery.
		target = filepath.Join(h.templatesDir, "."+inputs.Name+".incoming")
		if err := os.RemoveAll(target); err != nil {
			return err
		}
	}

	err = h.spinner.Run(fmt.Sprintf("Fetching %s...", source), func() error {
		return h.fetcher.Fetch(ctx, source, inputs.Path, target)
	})
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", source, err)
	}

	if exists {
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dest, err)
		}
		if err := os.Rename(target, dest); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dest, err)
		}
	}

	ledger.Add(inputs.Name, templateconfig.NewEntry(source, strings.Trim(filepath.ToSlash(inputs.Path), "/"), h.now()))
	if err := ledger.Save(); err != nil {
		return fmt.Errorf("failed to record template source: %w", err)
	}

	ui.Line()
	ui.Success(fmt.Sprintf("Installed %q from %s", inputs.Name, source))
	ui.Dim("Create a project with: codetemplate new " + inputs.Name + " <destination>")
	ui.Line()
	return nil
}
