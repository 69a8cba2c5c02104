package geometry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const combinedSpec = `
output: geo.k
parts:
  - repr: sph
    box:
      min: [-2.54, -2.54, -0.635]
      max: [2.54, 2.54, 0.0]
      nx: 4
      ny: 4
      nz: 2
      density: 7.8
      part_id: 5000001
      start_node_id: 5000001
      start_elem_id: 5000001
  - repr: sph
    sphere:
      center: [0.0, 0.0, 0.251]
      radius: 0.25
      nx: 5
      ny: 5
      nz: 5
      density: 7.8
`

func TestParseDeckSpec(t *testing.T) {
	ds, err := ParseDeckSpec([]byte(combinedSpec))
	require.NoError(t, err)
	assert.Equal(t, "geo.k", ds.Output)
	require.Len(t, ds.Parts, 2)
	require.NotNil(t, ds.Parts[0].Box)
	require.NotNil(t, ds.Parts[1].Sphere)
	assert.Equal(t, int64(5000001), ds.Parts[0].Box.PartID)
}

func TestParseDeckSpec_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "parts: []"},
		{"unknown field", "parts:\n  - repr: sph\n    cube: {}"},
		{"missing repr", "parts:\n  - box: {nx: 1, ny: 1, nz: 1}"},
		{"bad repr", "parts:\n  - repr: mesh\n    box: {nx: 1, ny: 1, nz: 1}"},
		{"both shapes", "parts:\n  - repr: sph\n    box: {nx: 1}\n    sphere: {radius: 1}"},
		{"no shape", "parts:\n  - repr: sph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeckSpec([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestDeckSpecBuild_CombinesParts(t *testing.T) {
	ds, err := ParseDeckSpec([]byte(combinedSpec))
	require.NoError(t, err)

	d, err := ds.Build(nil)
	require.NoError(t, err)

	boxParticles := 4 * 4 * 2
	require.Greater(t, d.NodeCount(), boxParticles, "sphere part should add particles")
	assert.Equal(t, d.NodeCount(), d.ParticleCount())
	require.NoError(t, d.Validate())

	// Box nodes come first with their high ID range, then the sphere's
	// defaulted range starting at 1.
	nodes := d.Nodes()
	assert.Equal(t, int64(5000001), nodes[0].ID)
	assert.Equal(t, int64(1), nodes[boxParticles].ID)
}

func TestDeckSpecBuild_OverlappingIDs(t *testing.T) {
	const overlapping = `
parts:
  - repr: sph
    box:
      max: [1.0, 1.0, 1.0]
      nx: 2
      ny: 2
      nz: 2
      density: 1.0
  - repr: sph
    sphere:
      radius: 0.5
      center: [0.5, 0.5, 0.5]
      nx: 3
      ny: 3
      nz: 3
      density: 1.0
`
	ds, err := ParseDeckSpec([]byte(overlapping))
	require.NoError(t, err)

	d, err := ds.Build(nil)
	require.NoError(t, err)

	// Both parts defaulted to node IDs starting at 1; the collision must
	// surface when the deck is validated for writing.
	assert.Error(t, d.Validate())
}

func TestLoadDeckSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(combinedSpec), 0644))

	ds, err := LoadDeckSpec(path)
	require.NoError(t, err)
	assert.Len(t, ds.Parts, 2)

	_, err = LoadDeckSpec(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
