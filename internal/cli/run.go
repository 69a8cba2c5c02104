package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rongjin-uky/dynakit/internal/runner"
)

var (
	runNCPU    int
	runMemory  string
	runDump    string
	runSolver  string
	runWorkDir string
)

var runCmd = &cobra.Command{
	Use:   "run <case.k>",
	Short: "Run the solver on an input deck",
	Long: `Run the LS-DYNA solver directly on a keyword input deck and block
until it exits.

The solver is invoked as: solver i=<deck> ncpu=<n> memory=<token> [R=<dump>],
from the deck's directory unless --work-dir is given. The command's exit
code mirrors the solver's; configuration errors caught before the solver
starts exit with code 2.

Examples:
  dynakit run case.k --ncpu 8 --memory 4000m
  dynakit run case.k --ncpu 8 --memory 4000m --dump dump01
  dynakit run case.k --solver /opt/lsdyna/lsdyna_dp`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runNCPU, "ncpu", 0, "CPU cores passed to the solver (default from config)")
	runCmd.Flags().StringVar(&runMemory, "memory", "", "solver memory token, e.g. 4000m (default from config)")
	runCmd.Flags().StringVar(&runDump, "dump", "", "request a restart dump via R=<name>")
	runCmd.Flags().StringVar(&runSolver, "solver", "", "solver executable path (default from config)")
	runCmd.Flags().StringVar(&runWorkDir, "work-dir", "", "working directory (default: deck's directory)")
}

func runRun(cmd *cobra.Command, args []string) error {
	rc := runner.Config{
		Solver:    cfg.Solver,
		InputFile: args[0],
		NCPU:      cfg.NCPU,
		Memory:    cfg.Memory,
		DumpFile:  runDump,
		WorkDir:   runWorkDir,
	}
	if runSolver != "" {
		rc.Solver = runSolver
	}
	if runNCPU != 0 {
		rc.NCPU = runNCPU
	}
	if runMemory != "" {
		rc.Memory = runMemory
	}

	ctx := context.Background()

	var (
		res *runner.Result
		err error
	)
	if isTerminal() {
		res, err = runWithProgress(ctx, rc)
	} else {
		res, err = runner.Run(ctx, logger, rc)
	}
	if err != nil {
		// Solver output is the only diagnostic the user has on failure.
		if res != nil && res.Stderr != "" {
			fmt.Print(res.Stderr)
		}
		return err
	}
	if res == nil {
		// User detached from the progress UI; the solver keeps running.
		return nil
	}

	fmt.Printf("Solver finished: exit code %d (%s)\n", res.ExitCode, res.Duration.Round(durationPrecision))
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
	}
	return nil
}
