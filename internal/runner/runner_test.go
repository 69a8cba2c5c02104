package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeStubSolver writes an executable script that prints its arguments
// and exits with the given code.
func writeStubSolver(t *testing.T, dir string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub solver scripts are POSIX-only")
	}
	path := filepath.Join(dir, "lsdyna_stub")
	script := fmt.Sprintf("#!/bin/sh\necho \"args: $@\"\necho \"oops\" >&2\nexit %d\n", exitCode)
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func writeDeck(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "case.k")
	require.NoError(t, os.WriteFile(path, []byte("*KEYWORD\n*END\n"), 0644))
	return path
}

func TestConfigArgs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "basic",
			cfg:  Config{InputFile: "case.k", NCPU: 4, Memory: "2000m"},
			want: []string{"i=case.k", "ncpu=4", "memory=2000m"},
		},
		{
			name: "with restart dump",
			cfg:  Config{InputFile: "case.k", NCPU: 8, Memory: "4000m", DumpFile: "dump01"},
			want: []string{"i=case.k", "ncpu=8", "memory=4000m", "R=dump01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.cfg.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPreflight_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	solver := writeStubSolver(t, dir, 0)
	deck := writeDeck(t, dir)

	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "missing solver path",
			cfg:  Config{Solver: filepath.Join(dir, "no-such-solver"), InputFile: deck, NCPU: 1, Memory: "4000m"},
		},
		{
			name: "missing input deck",
			cfg:  Config{Solver: solver, InputFile: filepath.Join(dir, "no-such.k"), NCPU: 1, Memory: "4000m"},
		},
		{
			name: "zero ncpu",
			cfg:  Config{Solver: solver, InputFile: deck, NCPU: 0, Memory: "4000m"},
		},
		{
			name: "negative ncpu",
			cfg:  Config{Solver: solver, InputFile: deck, NCPU: -2, Memory: "4000m"},
		},
		{
			name: "empty memory token",
			cfg:  Config{Solver: solver, InputFile: deck, NCPU: 1},
		},
		{
			name: "work dir is a file",
			cfg:  Config{Solver: solver, InputFile: deck, NCPU: 1, Memory: "4000m", WorkDir: deck},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Preflight()
			assert.ErrorIs(t, err, ErrConfig)

			// A preflight failure must never reach the child process.
			res, runErr := Run(context.Background(), discardLogger(), tt.cfg)
			assert.Nil(t, res)
			assert.ErrorIs(t, runErr, ErrConfig)
		})
	}
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	solver := writeStubSolver(t, dir, 0)
	deck := writeDeck(t, dir)

	cfg := Config{Solver: solver, InputFile: deck, NCPU: 4, Memory: "2000m"}
	res, err := Run(context.Background(), discardLogger(), cfg)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, res.Stdout, "i="+deck)
	assert.Contains(t, res.Stdout, "ncpu=4")
	assert.Contains(t, res.Stdout, "memory=2000m")
	assert.Greater(t, res.Duration.Nanoseconds(), int64(0))
}

func TestRun_SolverFailure(t *testing.T) {
	dir := t.TempDir()
	solver := writeStubSolver(t, dir, 1)
	deck := writeDeck(t, dir)

	cfg := Config{Solver: solver, InputFile: deck, NCPU: 1, Memory: "4000m"}
	res, err := Run(context.Background(), discardLogger(), cfg)
	require.Error(t, err)
	require.NotNil(t, res, "a failed run still carries the captured output")

	var solverErr *SolverError
	require.ErrorAs(t, err, &solverErr)
	assert.Equal(t, 1, solverErr.ExitCode)
	assert.Contains(t, solverErr.Stderr, "oops")

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.ExitCode)
}

func TestRun_DefaultsWorkDirToDeckDir(t *testing.T) {
	dir := t.TempDir()
	deckDir := filepath.Join(dir, "cases")
	require.NoError(t, os.Mkdir(deckDir, 0755))
	deck := writeDeck(t, deckDir)

	if runtime.GOOS == "windows" {
		t.Skip("stub solver scripts are POSIX-only")
	}
	// Stub that records its working directory next to itself.
	solver := filepath.Join(dir, "lsdyna_stub")
	script := "#!/bin/sh\npwd > cwd.txt\nexit 0\n"
	require.NoError(t, os.WriteFile(solver, []byte(script), 0755))

	cfg := Config{Solver: solver, InputFile: deck, NCPU: 1, Memory: "4000m"}
	_, err := Run(context.Background(), discardLogger(), cfg)
	require.NoError(t, err)

	recorded, err := os.ReadFile(filepath.Join(deckDir, "cwd.txt"))
	require.NoError(t, err, "solver should have run in the deck's directory")
	assert.Contains(t, string(recorded), "cases")
}

func TestRun_RestartDumpFlag(t *testing.T) {
	dir := t.TempDir()
	solver := writeStubSolver(t, dir, 0)
	deck := writeDeck(t, dir)

	cfg := Config{Solver: solver, InputFile: deck, NCPU: 1, Memory: "4000m", DumpFile: "dump01"}
	res, err := Run(context.Background(), discardLogger(), cfg)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "R=dump01")
}
