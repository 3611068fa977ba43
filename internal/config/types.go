// SPDX-License-Identifier: MPL-2.0

package config

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/instgroup/instgroup/pkg/catalog"
	"github.com/instgroup/instgroup/pkg/groups"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/charmbracelet/log"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// SortKeyEntry overrides the sort key of one install group.
	SortKeyEntry struct {
		Group catalog.GroupName `json:"group" mapstructure:"group"`
		Key   string            `json:"key" mapstructure:"key"`
	}

	// VariableEntry is an installer session variable.
	VariableEntry struct {
		Name  string `json:"name" mapstructure:"name"`
		Value string `json:"value" mapstructure:"value"`
	}

	// UIConfig holds terminal output preferences.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the application configuration.
	Config struct {
		Catalog      types.FilesystemPath `json:"catalog,omitempty" mapstructure:"catalog"`
		DefaultGroup catalog.GroupName    `json:"default_group,omitempty" mapstructure:"default_group"`
		// SelectPacks is nil when unset; the select-packs variable then decides.
		SelectPacks *bool           `json:"select_packs,omitempty" mapstructure:"select_packs"`
		SortKeys    []SortKeyEntry  `json:"sort_keys,omitempty" mapstructure:"sort_keys"`
		Variables   []VariableEntry `json:"variables,omitempty" mapstructure:"variables"`
		LogLevel    LogLevel        `json:"log_level" mapstructure:"log_level"`
		UI          UIConfig        `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from; empty for defaults.
		Source types.FilesystemPath `json:"-" mapstructure:"-"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelWarn,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the color scheme is not one of auto, dark or light.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the level is not debug, info, warn or error.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Level converts the value for charmbracelet/log. Unknown values map to warn.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate checks the constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.DefaultGroup != "" {
		if err := c.DefaultGroup.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("default_group: %w", err))
		}
	}

	seenGroups := make(map[catalog.GroupName]int)
	for i, sk := range c.SortKeys {
		if err := sk.Group.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sort_keys[%d]: %w", i, err))
			continue
		}
		if first, ok := seenGroups[sk.Group]; ok {
			errs = append(errs, fmt.Errorf("sort_keys[%d]: duplicate group %q (same as sort_keys[%d])", i, sk.Group, first))
			continue
		}
		seenGroups[sk.Group] = i
	}

	for i, v := range c.Variables {
		if strings.TrimSpace(v.Name) == "" {
			errs = append(errs, fmt.Errorf("variables[%d]: name must be non-empty", i))
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// VariableMap returns the session variables; later entries win.
func (c *Config) VariableMap() map[string]string {
	vars := make(map[string]string, len(c.Variables))
	for _, v := range c.Variables {
		vars[v.Name] = v.Value
	}
	return vars
}

// GroupSortKeys merges sort keys from session variables with the explicit
// sort_keys entries, which win.
func (c *Config) GroupSortKeys() groups.SortKeys {
	explicit := make(groups.SortKeys, len(c.SortKeys))
	for _, sk := range c.SortKeys {
		explicit[sk.Group] = sk.Key
	}
	return groups.SortKeysFromVariables(c.VariableMap()).Merge(explicit)
}

// SelectionPolicy returns the select_packs policy, consulting the session
// variables when the key is unset.
func (c *Config) SelectionPolicy() groups.Policy {
	if c.SelectPacks != nil {
		return groups.Policy{SelectAll: *c.SelectPacks}
	}
	return groups.PolicyFromVariables(c.VariableMap())
}

// DefaultGroupName returns default_group, or the default-group session
// variable when the key is unset.
func (c *Config) DefaultGroupName() catalog.GroupName {
	return cmp.Or(c.DefaultGroup, catalog.GroupName(c.VariableMap()[groups.DefaultGroupVariable]))
}
