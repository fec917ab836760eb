package main

import (
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/comonadd/codetemplate/cmd"
	"github.com/comonadd/codetemplate/internal/logger"
)

const outputDir = "docs"

func main() {
	log := logger.NewConsoleLogger()

	log.Info().Msg("Generating docs...")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Error creating docs dir")
	}

	if err := doc.GenMarkdownTree(cmd.RootCmd, outputDir); err != nil {
		log.Fatal().Err(err).Msg("Error generating documentation")
	}
	log.Info().Msgf("Documentation generated in %s", outputDir)
}
