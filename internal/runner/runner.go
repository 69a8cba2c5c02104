// Package runner launches the LS-DYNA solver binary for a single case and
// reports its exit status and captured output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrConfig indicates an invalid run configuration, detected before any
// child process is started. Use errors.Is() to check for it.
var ErrConfig = errors.New("invalid run configuration")

// SolverError reports a solver run that exited non-zero. It carries the
// exit code and captured stderr; the caller decides whether to treat it as
// fatal. Use errors.As() to extract it.
type SolverError struct {
	ExitCode int
	Stderr   string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver exited with code %d", e.ExitCode)
}

// Config describes one solver invocation. Immutable once constructed; it
// is consumed by a single Run call.
type Config struct {
	// Solver is the path of the solver executable.
	Solver string `validate:"required"`
	// InputFile is the path of the keyword input deck.
	InputFile string `validate:"required"`
	// NCPU is the parallelism hint passed to the solver.
	NCPU int `validate:"gte=1"`
	// Memory is the solver memory token, e.g. "4000m".
	Memory string `validate:"required"`
	// DumpFile, when set, requests a restart dump via R=.
	DumpFile string
	// WorkDir is the directory the solver runs in; defaults to the input
	// deck's directory.
	WorkDir string
}

// Result is the outcome of one solver run.
type Result struct {
	RunID    string
	ExitCode int
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Args builds the solver argument list in the fixed order the direct
// invocation expects: input deck, CPU flag, memory flag, optional restart
// flag. Flag semantics are the solver's business, not ours.
func (c Config) Args() []string {
	args := []string{
		"i=" + c.InputFile,
		fmt.Sprintf("ncpu=%d", c.NCPU),
		"memory=" + c.Memory,
	}
	if c.DumpFile != "" {
		args = append(args, "R="+c.DumpFile)
	}
	return args
}

// Preflight validates the configuration before anything external happens.
// Every failure here is a ConfigError; no subprocess is ever spawned for a
// configuration that fails preflight.
func (c Config) Preflight() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s fails %q", ErrConfig, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if _, err := os.Stat(c.Solver); err != nil {
		return fmt.Errorf("%w: solver executable: %v", ErrConfig, err)
	}
	if _, err := os.Stat(c.InputFile); err != nil {
		return fmt.Errorf("%w: input deck: %v", ErrConfig, err)
	}
	if c.WorkDir != "" {
		info, err := os.Stat(c.WorkDir)
		if err != nil {
			return fmt.Errorf("%w: work dir: %v", ErrConfig, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: work dir %s is not a directory", ErrConfig, c.WorkDir)
		}
	}
	return nil
}

// Run launches the solver and blocks until it exits. There is no timeout
// and no retry; cancellation only happens through ctx. A non-zero solver
// exit returns both the populated Result and a *SolverError.
func Run(ctx context.Context, logger *slog.Logger, cfg Config) (*Result, error) {
	if err := cfg.Preflight(); err != nil {
		return nil, err
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(cfg.InputFile)
	}

	runID := uuid.NewString()
	args := cfg.Args()
	logger.Info("launching solver",
		"run_id", runID,
		"solver", cfg.Solver,
		"args", args,
		"work_dir", workDir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cfg.Solver, args...)
	cmd.Dir = workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		RunID:    runID,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran (not executable, killed by ctx, ...).
			return nil, fmt.Errorf("start solver: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
		logger.Error("solver failed",
			"run_id", runID,
			"exit_code", res.ExitCode,
			"duration", res.Duration)
		return res, &SolverError{ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	res.ExitCode = 0
	res.Success = true
	logger.Info("solver finished",
		"run_id", runID,
		"duration", res.Duration)
	return res, nil
}
