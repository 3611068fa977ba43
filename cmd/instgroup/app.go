// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/instgroup/instgroup/internal/config"
	"github.com/instgroup/instgroup/internal/issue"
	"github.com/instgroup/instgroup/pkg/catalog"
	"github.com/instgroup/instgroup/pkg/groups"
	"github.com/instgroup/instgroup/pkg/platform"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration and catalogs through it.
	App struct {
		Config   ConfigProvider
		Catalogs CatalogLoader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Catalogs CatalogLoader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// CatalogLoader reads a pack catalog. Errors are actionable and ready to
	// be shown to the user.
	CatalogLoader interface {
		Load(ctx context.Context, path types.FilesystemPath) (*catalog.Catalog, error)
	}

	// rootFlags holds the persistent flags of the root command.
	rootFlags struct {
		catalog    string
		configPath string
		verbose    bool
		goos       string
	}

	// session is the state shared by the commands that work on a catalog.
	session struct {
		cfg         *config.Config
		catalogPath types.FilesystemPath
		// catalog holds the packs available on the target OS.
		catalog *catalog.Catalog
		logger  *log.Logger
		verbose bool
	}

	fileCatalogLoader struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalogs == nil {
		deps.Catalogs = fileCatalogLoader{}
	}

	return &App{
		Config:   deps.Config,
		Catalogs: deps.Catalogs,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// loadConfig loads the configuration. A broken default config file degrades
// to defaults with a warning; a broken --config file is an error.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	opts := config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configPath)}
	cfg, err := a.Config.Load(ctx, opts)
	if err == nil {
		return cfg, nil
	}
	if flags.configPath != "" {
		return nil, err
	}

	fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
	return config.DefaultConfig(), nil
}

// openSession loads configuration and the catalog, narrowed to the packs
// available on the target OS.
func (a *App) openSession(ctx context.Context, flags *rootFlags) (*session, error) {
	if err := platform.Validate(flags.goos); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select target system").
			WithResource(flags.goos).
			WithSuggestion("Pass --os with a GOOS name such as linux, darwin or windows").
			Wrap(err).
			BuildError()
	}

	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	level := cfg.LogLevel.Level()
	if verbose {
		level = log.DebugLevel
	}
	logger := newLogger(a.stderr, level)

	path := types.FilesystemPath(cmp.Or(flags.catalog, cfg.Catalog.String(), catalog.DefaultFileName))
	full, err := a.Catalogs.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	available := full.Available(flags.goos)
	logger.Debug("catalog loaded", "path", path, "packs", full.Len(), "os", flags.goos)
	if dropped := full.Len() - available.Len(); dropped > 0 {
		logger.Info("packs not available on this system", "os", flags.goos, "dropped", dropped)
	}

	return &session{
		cfg:         cfg,
		catalogPath: path,
		catalog:     available,
		logger:      logger,
		verbose:     verbose,
	}, nil
}

// resolver builds a resolver that traces into the session logger and collector.
func (s *session) resolver(collector *groups.Collector) *groups.Resolver {
	return groups.NewResolver(
		groups.WithSortKeys(s.cfg.GroupSortKeys()),
		groups.WithTracer(groups.MultiTracer(groups.LogTracer(s.logger), collector)),
	)
}

// glamourStyle maps ui.color_scheme to a glamour style name.
func glamourStyle(cfg *config.Config) string {
	if cfg != nil && cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "instgroup",
		Level:  level,
	})
}

// Load reads the catalog file and maps failures onto the issue catalog.
func (fileCatalogLoader) Load(ctx context.Context, path types.FilesystemPath) (*catalog.Catalog, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load catalog canceled: %w", ctx.Err())
	default:
	}

	c, err := catalog.LoadFile(path)
	if err == nil {
		return c, nil
	}

	errCtx := issue.NewErrorContext().
		WithOperation("load catalog").
		WithResource(path.String()).
		Wrap(err)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		errCtx.WithIssue(issue.CatalogNotFoundId).
			WithSuggestion("Create " + catalog.DefaultFileName + " in the current directory").
			WithSuggestion("Pass --catalog to point at an existing catalog")
	case errors.Is(err, catalog.ErrUnsupportedFormat):
		errCtx.WithIssue(issue.UnsupportedFormatId).
			WithSuggestion("Use a .cue, .toml, .yaml or .yml file")
	default:
		errCtx.WithIssue(issue.CatalogParseErrorId).
			WithSuggestion("Fix the field reported above").
			WithSuggestion("Run 'instgroup check' once the file parses")
	}
	return nil, errCtx.BuildError()
}
