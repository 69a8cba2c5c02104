// Package geometry computes FEM meshes and SPH particle clouds for simple
// primitives and emits them as keyword deck records.
package geometry

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSpec indicates geometry parameters that are physically
// inconsistent (non-positive extents, spacing larger than the extent,
// missing density for a particle cloud).
// Use errors.Is() to check for it in calling code.
var ErrInvalidSpec = errors.New("invalid geometry spec")

// validate holds the shared struct validator. Tag validation covers the
// per-field range checks; cross-field consistency lives in each spec's
// Validate method.
var validate = validator.New(validator.WithRequiredStructEnabled())

func invalidSpecf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}

// structErr converts validator tag failures into ErrInvalidSpec.
func structErr(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalidSpecf("field %s fails %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
}

// BoxSpec describes an axis-aligned box. The grid can be given either as
// cell counts per axis (NX, NY, NZ) or as a uniform target Spacing from
// which counts are derived. A FEM emit places nodes at cell corners and
// one hexahedron per cell; an SPH emit places one particle at each cell
// center.
type BoxSpec struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`

	NX int `yaml:"nx" validate:"gte=0"`
	NY int `yaml:"ny" validate:"gte=0"`
	NZ int `yaml:"nz" validate:"gte=0"`

	// Spacing derives the cell counts when they are zero.
	Spacing float64 `yaml:"spacing" validate:"gte=0"`

	// Density is the material density; required for SPH (particle mass =
	// density x cell volume), ignored for FEM.
	Density float64 `yaml:"density" validate:"gte=0"`

	PartID      int64 `yaml:"part_id" validate:"gte=0"`
	StartNodeID int64 `yaml:"start_node_id" validate:"gte=0"`
	StartElemID int64 `yaml:"start_elem_id" validate:"gte=0"`
}

// SphereSpec describes a filled sphere. SPH clouds keep the cell-centered
// points of the bounding cube's NX x NY x NZ grid that fall inside the
// radius. FEM meshes map a (2*Divisions)^3 logical grid onto the ball with
// the cubed-sphere transform.
type SphereSpec struct {
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius" validate:"gte=0"`

	NX int `yaml:"nx" validate:"gte=0"`
	NY int `yaml:"ny" validate:"gte=0"`
	NZ int `yaml:"nz" validate:"gte=0"`

	// Divisions is the number of element divisions along the radius (FEM).
	Divisions int `yaml:"divisions" validate:"gte=0"`

	Density float64 `yaml:"density" validate:"gte=0"`

	PartID      int64 `yaml:"part_id" validate:"gte=0"`
	StartNodeID int64 `yaml:"start_node_id" validate:"gte=0"`
	StartElemID int64 `yaml:"start_elem_id" validate:"gte=0"`
}

// normalize fills ID defaults and derives cell counts from Spacing.
// Returns the effective spec without mutating the receiver.
func (s BoxSpec) normalize() (BoxSpec, error) {
	if s.PartID == 0 {
		s.PartID = 1
	}
	if s.StartNodeID == 0 {
		s.StartNodeID = 1
	}
	if s.StartElemID == 0 {
		s.StartElemID = 1
	}
	if s.NX == 0 && s.NY == 0 && s.NZ == 0 && s.Spacing > 0 {
		for axis := 0; axis < 3; axis++ {
			extent := s.Max[axis] - s.Min[axis]
			if s.Spacing > extent {
				return s, invalidSpecf("spacing %g exceeds extent %g on axis %d", s.Spacing, extent, axis)
			}
		}
		s.NX = cellsFor(s.Max[0]-s.Min[0], s.Spacing)
		s.NY = cellsFor(s.Max[1]-s.Min[1], s.Spacing)
		s.NZ = cellsFor(s.Max[2]-s.Min[2], s.Spacing)
	}
	return s, nil
}

// cellsFor rounds extent/spacing to the nearest integer. When spacing
// divides the extent evenly the result is exact; otherwise the grid is the
// closest fit and the effective spacing differs slightly from the request.
func cellsFor(extent, spacing float64) int {
	n := int(extent/spacing + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

func (s BoxSpec) validateCommon() error {
	if err := structErr(validate.Struct(s)); err != nil {
		return err
	}
	for axis := 0; axis < 3; axis++ {
		if s.Max[axis] <= s.Min[axis] {
			return invalidSpecf("max %g not above min %g on axis %d", s.Max[axis], s.Min[axis], axis)
		}
	}
	if s.NX <= 0 || s.NY <= 0 || s.NZ <= 0 {
		return invalidSpecf("cell counts %dx%dx%d must all be positive (set nx/ny/nz or spacing)", s.NX, s.NY, s.NZ)
	}
	return nil
}

func (s SphereSpec) normalize() SphereSpec {
	if s.PartID == 0 {
		s.PartID = 1
	}
	if s.StartNodeID == 0 {
		s.StartNodeID = 1
	}
	if s.StartElemID == 0 {
		s.StartElemID = 1
	}
	return s
}

func (s SphereSpec) validateCommon() error {
	if err := structErr(validate.Struct(s)); err != nil {
		return err
	}
	if s.Radius <= 0 {
		return invalidSpecf("radius %g must be positive", s.Radius)
	}
	return nil
}

// spacing returns the cell edge lengths of the box grid.
func (s BoxSpec) spacing() (dx, dy, dz float64) {
	return (s.Max[0] - s.Min[0]) / float64(s.NX),
		(s.Max[1] - s.Min[1]) / float64(s.NY),
		(s.Max[2] - s.Min[2]) / float64(s.NZ)
}
