package config

import (
	"github.com/spf13/pflag"
)

type Flag struct {
	Name  string
	Short string
}

type flagNames struct {
	Verbose      Flag
	ConfigFile   Flag
	EnvFile      Flag
	TemplatePath Flag
	NoBundled    Flag
	Name         Flag
	Path         Flag
	Force        Flag
}

var Flags = flagNames{
	Verbose:      Flag{"verbose", "v"},
	ConfigFile:   Flag{"config", "c"},
	EnvFile:      Flag{"env-file", "e"},
	TemplatePath: Flag{"template-path", "t"},
	NoBundled:    Flag{"no-bundled", ""},
	Name:         Flag{"name", "n"},
	Path:         Flag{"path", "p"},
	Force:        Flag{"force", "f"},
}

// AddGlobalFlags defines the flags every command accepts.
func AddGlobalFlags(fs *pflag.FlagSet) {
	fs.BoolP(Flags.Verbose.Name, Flags.Verbose.Short, false, "Run command in VERBOSE mode")
	fs.StringP(Flags.ConfigFile.Name, Flags.ConfigFile.Short, "", "Path to a YAML config file (default <config dir>/config.yaml)")
	fs.StringP(Flags.EnvFile.Name, Flags.EnvFile.Short, "", "Path to a .env file to load before reading configuration")
	fs.StringSliceP(Flags.TemplatePath.Name, Flags.TemplatePath.Short, nil, "Additional template directory, searched after the user templates (repeatable)")
	fs.Bool(Flags.NoBundled.Name, false, "Do not search the templates bundled with the CLI")
}
