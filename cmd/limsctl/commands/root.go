package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/internal/config"
	"github.com/plasmalab/limsctl/internal/logging"
	"github.com/plasmalab/limsctl/pkg/models"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/rest"
)

var (
	// Global flags
	apiAddr    string
	jsonOutput bool
	verbose    bool
	noColor    bool

	// Shared state built in setup, torn down after Execute.
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func()
	api      *rest.Client
	cache    *query.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "limsctl",
	Short: "limsctl - terminal client for the plasma lab LIMS",
	Long: `limsctl is a terminal client for the laboratory information management
system tracking plasma degradation research: chemicals, catalysts,
samples, reactors, experiments and their processed results.

Features:
  - Registry-driven list/show/create/edit for every resource
  - Client-side sortable tables with metadata-declared columns
  - Relationship linking with per-link attributes (ppm, ratio)
  - Soft delete, restore and hard delete for files
  - Interactive TUI browser (limsctl browse)
  - Cached reads with background revalidation`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	teardown()
	if err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "", "LIMS API base URL (default from LIMS_API_ADDR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output raw records as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// setup loads configuration and builds the shared clients. It runs
// once per invocation, for whichever subcommand is executing.
func setup(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if apiAddr != "" {
		c.API.Addr = apiAddr
	}
	if verbose {
		c.Log.Level = "debug"
	}
	if noColor {
		c.Log.NoColor = true
		output.NoColor()
	}
	cfg = c

	// The TUI owns the terminal; console logging would corrupt the
	// alternate screen, so browse runs silent unless a file is set.
	if cmd.Name() == browseCmd.Name() && cfg.Log.Path == "" {
		logger = zerolog.Nop()
		closeLog = func() {}
	} else {
		lg, closer, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = lg
		closeLog = closer
	}

	if err := models.RegisterAll(); err != nil {
		return fmt.Errorf("register resources: %w", err)
	}

	restClient, err := rest.NewClient(rest.Config{
		BaseURL:    cfg.API.Addr,
		Timeout:    cfg.API.Timeout,
		RetryCount: cfg.API.RetryCount,
	}, logger)
	if err != nil {
		return err
	}
	api = restClient

	queryClient, err := query.NewClient(
		query.WithStaleTTL(cfg.Cache.StaleTTL),
		query.WithWorkers(cfg.Cache.Workers),
		query.WithRefetchOnFocus(cfg.Cache.RefetchOnFocus),
		query.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	cache = queryClient

	logger.Debug().Str("api", cfg.API.Addr).Msg("clients ready")
	return nil
}

func teardown() {
	if cache != nil {
		cache.Close()
	}
	if closeLog != nil {
		closeLog()
	}
}
