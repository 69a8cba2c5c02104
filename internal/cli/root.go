// Package cli provides the command-line interface for dynakit.
package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rongjin-uky/dynakit/internal/config"
	"github.com/rongjin-uky/dynakit/internal/geometry"
	"github.com/rongjin-uky/dynakit/internal/keyword"
	"github.com/rongjin-uky/dynakit/internal/runner"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and logger, loaded in PersistentPreRunE
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dynakit",
	Short: "LS-DYNA preprocessing and run toolkit",
	Long: `Dynakit generates LS-DYNA keyword input decks (FEM meshes and SPH
particle clouds for boxes and spheres) and launches the solver binary
directly, reporting its exit status.

Decks are plain keyword files; run results are the solver's own exit
code plus its captured output. Postprocessing of d3plot/binout is out
of scope.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logCleanup = config.SetupLogger(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				logger.Warn("failed to close log file", "error", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to the process exit code:
// solver failures mirror the solver's own exit code, configuration and
// spec errors caught before anything external happened exit 2, everything
// else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var solverErr *runner.SolverError
	if errors.As(err, &solverErr) {
		return solverErr.ExitCode
	}
	if errors.Is(err, runner.ErrConfig) ||
		errors.Is(err, geometry.ErrInvalidSpec) ||
		errors.Is(err, keyword.ErrInvalidDeck) {
		return 2
	}
	return 1
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(runCmd)
}

// isTerminal reports whether stdout is attached to a terminal; the run
// progress UI is only shown interactively.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
