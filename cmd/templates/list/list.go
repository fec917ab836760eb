package list

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/templateconfig"
	"github.com/comonadd/codetemplate/internal/ui"
)

// Lister lists every discoverable template. Implemented by manager.Manager.
type Lister interface {
	List() ([]*template.Meta, error)
}

type handler struct {
	log          *zerolog.Logger
	lister       Lister
	templatesDir string
	sourcesPath  string
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists available templates",
		Long:  `Lists the templates of every template directory, with where each one comes from. Templates installed with "templates add" show their source repository.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext.Logger, runtimeContext.Manager(), runtimeContext.Config)
			return common.Report(h.Execute())
		},
	}
}

func newHandler(log *zerolog.Logger, lister Lister, cfg *config.Config) *handler {
	return &handler{
		log:          log,
		lister:       lister,
		templatesDir: cfg.TemplatesDir(),
		sourcesPath:  cfg.SourcesPath(),
	}
}

func (h *handler) Execute() error {
	metas, err := h.lister.List()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if len(metas) == 0 {
		ui.Line()
		ui.Warning("No templates found")
		ui.Dim("Install one with: codetemplate templates add owner/repo[@ref]")
		ui.Line()
		return nil
	}

	ledger, err := templateconfig.Load(h.log, h.sourcesPath)
	if err != nil {
		return err
	}

	ui.Line()
	ui.Title("Available Templates")
	ui.Line()
	ui.Print(FormatTable(metas, func(meta *template.Meta) string {
		return h.origin(ledger, meta)
	}))
	ui.Line()
	return nil
}

func (h *handler) origin(ledger *templateconfig.Ledger, meta *template.Meta) string {
	if filepath.Clean(meta.Root) == filepath.Clean(h.templatesDir) {
		if entry, ok := ledger.Get(meta.Name); ok {
			return entry.Origin()
		}
	}
	return meta.Root
}

// FormatTable renders templates sorted by name, then by directory.
func FormatTable(metas []*template.Meta, origin func(*template.Meta) string) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Kind", "Description", "Origin"})

	for _, m := range metas {
		t.AppendRow(table.Row{m.Name, m.Kind().String(), m.Description, origin(m)})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
		{Number: 4, Align: text.AlignLeft},
	})

	t.SortBy([]table.SortBy{
		{Name: "Name", Mode: table.Asc},
		{Name: "Origin", Mode: table.Asc},
	})

	return t.Render()
}
