package templates

import (
	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/cmd/templates/add"
	"github.com/comonadd/codetemplate/cmd/templates/list"
	"github.com/comonadd/codetemplate/cmd/templates/remove"
	"github.com/comonadd/codetemplate/internal/runtime"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manages installed templates",
		Long: `Lists every available template and installs or removes templates fetched
from GitHub repositories or git remotes.

Installed templates live in the user template directory, which is searched
before any other template directory.

To create a project from a template, use: codetemplate new`,
	}

	templatesCmd.AddCommand(list.New(runtimeContext))
	templatesCmd.AddCommand(add.New(runtimeContext))
	templatesCmd.AddCommand(remove.New(runtimeContext))

	return templatesCmd
}
