package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comonadd/codetemplate/cmd/common"
	"github.com/comonadd/codetemplate/cmd/initproject"
	"github.com/comonadd/codetemplate/cmd/newproject"
	"github.com/comonadd/codetemplate/cmd/search"
	"github.com/comonadd/codetemplate/cmd/templates"
	"github.com/comonadd/codetemplate/cmd/version"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/logger"
	"github.com/comonadd/codetemplate/internal/runtime"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCommand()

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Flag and argument errors come from cobra before any handler runs
		// and have not been printed yet.
		_ = common.Report(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(runtime.NewContext(createLogger(), createViper(), version.Version))
}

func newRootCommandWith(runtimeContext *runtime.Context) *cobra.Command {
	// By defining a Run func, we force PersistentPreRunE to execute
	// even when 'codetemplate' or 'templates' is called with no subcommand
	helpRunE := func(cmd *cobra.Command, args []string) error {
		err := cmd.Help()
		if err != nil {
			return fmt.Errorf("fail to show help: %w", err)
		}
		return nil
	}

	rootCmd := &cobra.Command{
		Use:               "codetemplate",
		Short:             "Project template manager",
		Long:              `A command line tool for finding project templates and creating new projects from them.`,
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE:              helpRunE,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := runtimeContext.Logger
			v := runtimeContext.Viper

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if verbose := v.GetBool(config.Flags.Verbose.Name); verbose {
				newLogger := log.Level(zerolog.DebugLevel)
				runtimeContext.Logger = &newLogger
			}

			if isLoadConfig(cmd) {
				if err := runtimeContext.AttachConfig(); err != nil {
					return common.Report(err)
				}
			}

			return nil
		},
	}

	setHelp(rootCmd)

	config.AddGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	searchCmd := search.New(runtimeContext)
	newCmd := newproject.New(runtimeContext)
	initCmd := initproject.New(runtimeContext)
	templatesCmd := templates.New(runtimeContext)
	versionCmd := version.New(runtimeContext)

	templatesCmd.RunE = helpRunE

	// Define groups (order controls display order)
	rootCmd.AddGroup(&cobra.Group{ID: "getting-started", Title: "Getting Started"})
	rootCmd.AddGroup(&cobra.Group{ID: "templates", Title: "Templates"})

	searchCmd.GroupID = "getting-started"
	newCmd.GroupID = "getting-started"
	initCmd.GroupID = "getting-started"

	templatesCmd.GroupID = "templates"

	rootCmd.AddCommand(
		searchCmd,
		newCmd,
		initCmd,
		templatesCmd,
		versionCmd,
	)

	return rootCmd
}

func isLoadConfig(cmd *cobra.Command) bool {
	// Commands that only print help or static text run without configuration
	var excludedCommands = map[string]struct{}{
		"version":      {},
		"bash":         {},
		"fish":         {},
		"powershell":   {},
		"zsh":          {},
		"help":         {},
		"codetemplate": {},
		"templates":    {},
	}

	_, exists := excludedCommands[cmd.Name()]
	return !exists
}

func createLogger() *zerolog.Logger {
	return logger.NewConsoleLogger()
}

func createViper() *viper.Viper {
	return viper.New() //nolint:forbidigo
}
