package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rongjin-uky/dynakit/internal/geometry"
	"github.com/rongjin-uky/dynakit/internal/keyword"
	"github.com/rongjin-uky/dynakit/internal/runner"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"generic error", errors.New("boom"), 1},
		{"solver exit code mirrored", &runner.SolverError{ExitCode: 9}, 9},
		{"wrapped solver error", fmt.Errorf("run: %w", &runner.SolverError{ExitCode: 3}), 3},
		{"config error", fmt.Errorf("%w: bad ncpu", runner.ErrConfig), 2},
		{"invalid spec", fmt.Errorf("%w: radius", geometry.ErrInvalidSpec), 2},
		{"invalid deck", fmt.Errorf("%w: dup id", keyword.ErrInvalidDeck), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestVec3(t *testing.T) {
	got, err := vec3("origin", []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("vec3() error = %v", err)
	}
	if got != [3]float64{1, 2, 3} {
		t.Errorf("vec3() = %v", got)
	}

	if _, err := vec3("dims", []float64{1, 2}); err == nil {
		t.Error("vec3() accepted two values")
	}
}

func TestParseRepr(t *testing.T) {
	if _, err := parseRepr("fem"); err != nil {
		t.Errorf("parseRepr(fem) error = %v", err)
	}
	if _, err := parseRepr("sph"); err != nil {
		t.Errorf("parseRepr(sph) error = %v", err)
	}
	if _, err := parseRepr("mesh"); err == nil {
		t.Error("parseRepr(mesh) should fail")
	}
}
