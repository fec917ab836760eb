package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const helpWidth = 100

// helpTemplate lists subcommands under their group titles, ungrouped ones
// last under "Other".
const helpTemplate = `{{with (or .Long .Short)}}{{.}}{{end}}

Usage:
{{- if .Runnable}}
  {{.UseLine}}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]
{{- end}}
{{- if .HasAvailableSubCommands}}

Available Commands:
{{- range $grp := .Groups}}
{{- with commandsIn $ $grp.ID}}

  {{$grp.Title}}:
{{- range .}}
    {{rpad .Name .NamePadding}}  {{.Short}}
{{- end}}
{{- end}}
{{- end}}
{{- with commandsIn . ""}}

  {{if $.Groups}}Other:{{else}}Commands:{{end}}
{{- range .}}
    {{rpad .Name .NamePadding}}  {{.Short}}
{{- end}}
{{- end}}
{{- end}}
{{- if .HasExample}}

Examples:
{{.Example}}
{{- end}}
{{- with wrappedFlagUsages .LocalFlags}}

Flags:
{{.}}
{{- end}}
{{- with wrappedFlagUsages .InheritedFlags}}

Global Flags:
{{.}}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{- end}}
{{- if not .HasParent}}

Tip: New here? Run:
  $ codetemplate search
    to see the available templates, then:
  $ codetemplate new <template> <destination>
    to create your first project.
{{- end}}
`

func setHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("wrappedFlagUsages", func(fs *pflag.FlagSet) string {
		return strings.TrimRight(fs.FlagUsagesWrapped(helpWidth), " \n")
	})
	cobra.AddTemplateFunc("commandsIn", commandsIn)

	rootCmd.SetHelpTemplate(helpTemplate)
}

// commandsIn returns the visible subcommands of c in the group with the given
// ID. The empty ID selects ungrouped commands.
func commandsIn(c *cobra.Command, groupID string) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range c.Commands() {
		if cmd.IsAvailableCommand() && !cmd.Hidden && cmd.GroupID == groupID {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
