package search

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/internal/runtime"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/ui"
)

type Inputs struct {
	Query string
}

// Searcher is the part of the template manager this command needs.
type Searcher interface {
	Search(query string) ([]*template.Meta, error)
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Searches templates by name, description and tags",
		Long: `Searches every template directory for templates whose name, description or
tags contain the query, ignoring case. Without a query every template is listed.`,
		Args:    cobra.MaximumNArgs(1),
		Example: "codetemplate search react",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext.Logger, runtimeContext.Manager())
			inputs := h.ResolveInputs(args)
			return common.Report(h.Execute(inputs))
		},
	}
}

type handler struct {
	log      *zerolog.Logger
	searcher Searcher
}

func newHandler(log *zerolog.Logger, searcher Searcher) *handler {
	return &handler{log: log, searcher: searcher}
}

func (h *handler) ResolveInputs(args []string) Inputs {
	if len(args) == 0 {
		return Inputs{}
	}
	return Inputs{Query: args[0]}
}

func (h *handler) Execute(inputs Inputs) error {
	ui.Print(fmt.Sprintf("Searching %q", inputs.Query))

	results, err := h.searcher.Search(inputs.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		ui.Print("Nothing found")
		return nil
	}

	seen := make(map[string]int, len(results))
	for _, meta := range results {
		seen[meta.Name]++
	}
	for _, meta := range results {
		ui.Print(FormatEntry(meta, seen[meta.Name] > 1))
	}
	ui.Print(fmt.Sprintf("Total templates found: %d", len(results)))
	return nil
}

// FormatEntry renders one search result as "[kind] name: description".
// withRoot appends the directory the template was found in, which tells
// same-named templates from different roots apart.
func FormatEntry(meta *template.Meta, withRoot bool) string {
	line := ui.RenderKind("["+meta.Kind().String()+"]") + " " + meta.Name
	if meta.Description != "" {
		line += ": " + meta.Description
	}
	if withRoot && meta.Root != "" {
		line += " (" + meta.Root + ")"
	}
	return line
}
