// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/instgroup/instgroup/internal/issue"
	"github.com/instgroup/instgroup/pkg/cueutil"
	"github.com/instgroup/instgroup/pkg/platform"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "instgroup"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. INSTGROUP_LOG_LEVEL.
	EnvPrefix = "INSTGROUP"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the instgroup configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of the user config file, whether or not it exists.
func ConfigFilePath(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return types.FilesystemPath(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)), nil
}

// loadWithOptions performs option-driven config loading without touching
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("catalog", string(defaults.Catalog))
	v.SetDefault("default_group", string(defaults.DefaultGroup))
	v.SetDefault("log_level", string(defaults.LogLevel))
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	path, err := locateConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path.String()).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'instgroup config dump' to print a valid default configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path.String()).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Each group may appear at most once in sort_keys").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// locateConfigFile returns the file to load: the explicit path (which must
// exist), the user config file, ./config.cue, or "" when none exists.
func locateConfigFile(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath.String()) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath.String()).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'instgroup config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	userPath, err := ConfigFilePath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(userPath.String()) {
		return userPath, nil
	}

	localPath := ConfigFileName + "." + ConfigFileExt
	if opts.BaseDir != "" {
		localPath = filepath.Join(opts.BaseDir.String(), localPath)
	}
	if fileExists(localPath) {
		return types.FilesystemPath(localPath), nil
	}
	return "", nil
}

func configDirWithOverride(configDirPath types.FilesystemPath) (string, error) {
	if configDirPath != "" {
		return configDirPath.String(), nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so the value is not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path.String()),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config file accepted by the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// instgroup configuration file\n\n")

	if cfg.Catalog != "" {
		fmt.Fprintf(&sb, "catalog: %q\n", cfg.Catalog)
	}
	if cfg.DefaultGroup != "" {
		fmt.Fprintf(&sb, "default_group: %q\n", cfg.DefaultGroup)
	}
	if cfg.SelectPacks != nil {
		fmt.Fprintf(&sb, "select_packs: %v\n", *cfg.SelectPacks)
	}
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	if len(cfg.SortKeys) > 0 {
		sb.WriteString("\nsort_keys: [\n")
		for _, sk := range cfg.SortKeys {
			fmt.Fprintf(&sb, "\t{group: %q, key: %q},\n", sk.Group, sk.Key)
		}
		sb.WriteString("]\n")
	}

	if len(cfg.Variables) > 0 {
		sb.WriteString("\nvariables: [\n")
		for _, v := range cfg.Variables {
			fmt.Fprintf(&sb, "\t{name: %q, value: %q},\n", v.Name, v.Value)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
