// Package config resolves CLI configuration. Values are read, in priority
// order, from flags, CODETEMPLATE_* environment variables (optionally loaded
// from a .env file), the YAML config file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/comonadd/codetemplate/internal/validation"
)

const (
	AppDirName     = "codetemplates"
	ConfigFileName = "config.yaml"
	SourcesFile    = "sources.yaml"
	TemplatesDir   = "templates"
	EnvPrefix      = "CODETEMPLATE"
)

// Config keys. Nested keys map to env vars with dots replaced by
// underscores, e.g. CODETEMPLATE_ECOSYSTEMS_PIP_COMMAND.
const (
	KeyUserDir        = "user_dir"
	KeyCacheDir       = "cache_dir"
	KeySearchPaths    = "search_paths"
	KeyBundledDir     = "bundled_dir"
	KeyDisableBundled = "disable_bundled"
	KeyPipCommand     = "ecosystems.pip.command"
	KeyNpmCommand     = "ecosystems.npm.command"
	KeyGitHubToken    = "github_token"
)

type Config struct {
	// UserDir holds config.yaml, sources.yaml and the user template root.
	UserDir     string `validate:"required"`
	CacheDir    string `validate:"required"`
	SearchPaths []string
	BundledDir  string `validate:"omitempty,dir" cli:"bundled_dir"`
	// DisableBundled leaves the bundled templates out of the search path.
	DisableBundled bool
	PipCommand     string `validate:"required"`
	NpmCommand     string `validate:"required"`
	GitHubToken    Token
	// File is the config file that was read, if any.
	File string
}

// fileFlags are the files named on the command line, checked before use.
type fileFlags struct {
	ConfigFile string `validate:"omitempty,yaml" cli:"--config"`
	EnvFile    string `validate:"omitempty,path_read" cli:"--env-file"`
}

// TemplatesDir is the user template root, searched first.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.UserDir, TemplatesDir)
}

// SourcesPath is the ledger of installed remote templates.
func (c *Config) SourcesPath() string {
	return filepath.Join(c.UserDir, SourcesFile)
}

// DefaultUserDir is $XDG_CONFIG_HOME/codetemplates, falling back to
// $HOME/.config/codetemplates.
func DefaultUserDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache directory: %w", err)
	}
	return filepath.Join(dir, AppDirName), nil
}

// LoadEnv loads variables from envPath into the process environment without
// overriding variables that are already set.
func LoadEnv(envPath string) error {
	if envPath == "" {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("error loading file from %s: %w", envPath, err)
	}
	return nil
}

// Load resolves the configuration. Flags must already be bound to v.
func Load(logger *zerolog.Logger, v *viper.Viper) (*Config, error) {
	validator, err := validation.NewValidator()
	if err != nil {
		return nil, err
	}

	files := fileFlags{
		ConfigFile: v.GetString(Flags.ConfigFile.Name),
		EnvFile:    v.GetString(Flags.EnvFile.Name),
	}
	if err := validator.Struct(files); err != nil {
		return nil, validator.ParseValidationErrors(err)
	}

	if err := LoadEnv(files.EnvFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	userDir, err := DefaultUserDir()
	if err != nil {
		return nil, err
	}
	cacheDir, err := DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault(KeyUserDir, userDir)
	v.SetDefault(KeyCacheDir, cacheDir)
	v.SetDefault(KeyPipCommand, "pip")
	v.SetDefault(KeyNpmCommand, "npm")

	file, err := mergeConfigFile(logger, v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		UserDir:        v.GetString(KeyUserDir),
		CacheDir:       v.GetString(KeyCacheDir),
		SearchPaths:    searchPaths(v),
		BundledDir:     v.GetString(KeyBundledDir),
		DisableBundled: v.GetBool(KeyDisableBundled) || v.GetBool(Flags.NoBundled.Name),
		PipCommand:     v.GetString(KeyPipCommand),
		NpmCommand:     v.GetString(KeyNpmCommand),
		GitHubToken:    Token(v.GetString(KeyGitHubToken)),
		File:           file,
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = Token(os.Getenv("GITHUB_TOKEN"))
	}

	if err := validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug().Object("github_token", cfg.GitHubToken).Msgf("Config: user dir %s, cache dir %s, %d extra search paths", cfg.UserDir, cfg.CacheDir, len(cfg.SearchPaths))
	return cfg, nil
}

// mergeConfigFile reads the --config file, or <user dir>/config.yaml when it
// exists. An explicitly requested file must exist.
func mergeConfigFile(logger *zerolog.Logger, v *viper.Viper) (string, error) {
	path := v.GetString(Flags.ConfigFile.Name)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(v.GetString(KeyUserDir), ConfigFileName)
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logger.Debug().Msg("No config file found at " + path)
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return "", fmt.Errorf("error loading config file %s: %w", path, err)
	}
	return path, nil
}

// searchPaths puts --template-path values first, then the configured
// search_paths. The env var form is an OS path list.
func searchPaths(v *viper.Viper) []string {
	paths := append([]string(nil), v.GetStringSlice(Flags.TemplatePath.Name)...)

	switch configured := v.Get(KeySearchPaths).(type) {
	case string:
		for _, p := range filepath.SplitList(configured) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	case []string:
		paths = append(paths, configured...)
	case []any:
		for _, p := range configured {
			if s, ok := p.(string); ok && s != "" {
				paths = append(paths, s)
			}
		}
	}
	return paths
}
