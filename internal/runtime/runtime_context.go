package runtime

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/comonadd/codetemplate/internal/builtin"
	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/instantiate"
	"github.com/comonadd/codetemplate/internal/manager"
	"github.com/comonadd/codetemplate/internal/requirements"
	"github.com/comonadd/codetemplate/internal/searchpath"
	"github.com/comonadd/codetemplate/internal/shell"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/templaterepo"
	"github.com/comonadd/codetemplate/internal/ui"
)

type Context struct {
	Logger   *zerolog.Logger
	Viper    *viper.Viper
	Config   *config.Config
	Version  string
	Stdin    io.Reader
	Stdout   io.Writer
	Prompter ui.Prompter
	Runner   shell.Runner
	Registry *dynamic.Registry
}

func NewContext(logger *zerolog.Logger, viper *viper.Viper, version string) *Context {
	return &Context{
		Logger:   logger,
		Viper:    viper,
		Version:  version,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Registry: builtin.NewRegistry(),
	}
}

// AttachConfig resolves the configuration from the bound flags, the
// environment and the config file, and sets up the process runner and
// prompter unless they were injected.
func (ctx *Context) AttachConfig() error {
	cfg, err := config.Load(ctx.Logger, ctx.Viper)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = cfg

	if ctx.Runner == nil {
		ctx.Runner = shell.NewOSRunner(ctx.Logger)
	}
	if ctx.Prompter == nil {
		ctx.Prompter = ui.NewPrompter(ctx.Stdin, ctx.Stdout)
	}
	return nil
}

// Evaluator builds the evaluator for dynamic template manifests.
func (ctx *Context) Evaluator() dynamic.Evaluator {
	return dynamic.NewManifestEvaluator(ctx.Logger, ctx.Registry, ctx.Runner, ctx.Version)
}

// PathResolver builds the search path resolver from the configuration.
func (ctx *Context) PathResolver() *searchpath.Resolver {
	return searchpath.NewResolver(ctx.Logger, searchpath.Options{
		UserRoot:       ctx.Config.TemplatesDir(),
		ExtraPaths:     ctx.Config.SearchPaths,
		BundledRoot:    ctx.Config.BundledDir,
		CacheDir:       ctx.Config.CacheDir,
		DisableBundled: ctx.Config.DisableBundled,
	})
}

// Manager wires the template manager. AttachConfig must have been called.
func (ctx *Context) Manager() *manager.Manager {
	reqs := requirements.NewResolver(ctx.Logger, ctx.Prompter,
		requirements.NewPip(ctx.Runner, ctx.Config.PipCommand),
		requirements.NewNpm(ctx.Runner, ctx.Config.NpmCommand),
	)
	return manager.New(
		ctx.Logger,
		ctx.PathResolver(),
		template.NewLoader(ctx.Logger, ctx.Evaluator()),
		reqs,
		instantiate.New(ctx.Logger, ctx.Prompter, ctx.Runner),
	)
}

// TemplateClient builds the client used to install remote templates.
func (ctx *Context) TemplateClient() (*templaterepo.Client, error) {
	cache, err := templaterepo.NewCache(ctx.Logger, ctx.Config.CacheDir)
	if err != nil {
		return nil, err
	}
	if _, err := cache.Prune(); err != nil {
		ctx.Logger.Warn().Err(err).Msg("Failed to prune the template download cache")
	}
	return templaterepo.NewClient(ctx.Logger, cache, templaterepo.WithToken(ctx.Config.GitHubToken.RawValue())), nil
}
