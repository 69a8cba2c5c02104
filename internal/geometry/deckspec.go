package geometry

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rongjin-uky/dynakit/internal/keyword"
)

// Repr selects the output representation of a shape.
type Repr string

const (
	// ReprFEM emits a connected hexahedral mesh.
	ReprFEM Repr = "fem"
	// ReprSPH emits an unconnected particle cloud.
	ReprSPH Repr = "sph"
)

func (r Repr) valid() bool { return r == ReprFEM || r == ReprSPH }

// PartSpec is one shape of a multi-part deck. Exactly one of Box or Sphere
// must be set.
type PartSpec struct {
	Repr   Repr        `yaml:"repr"`
	Box    *BoxSpec    `yaml:"box,omitempty"`
	Sphere *SphereSpec `yaml:"sphere,omitempty"`
}

// DeckSpec is a YAML-described deck: several shapes generated into one
// keyword file, each with its own part ID and starting node/element IDs so
// the blocks do not collide.
type DeckSpec struct {
	// Output is the deck path; the CLI may override it.
	Output string     `yaml:"output"`
	Parts  []PartSpec `yaml:"parts"`
}

// ParseDeckSpec decodes a YAML deck spec. Unknown fields are rejected so a
// typo in a spec file fails loudly instead of silently generating the
// wrong geometry.
func ParseDeckSpec(data []byte) (*DeckSpec, error) {
	var ds DeckSpec
	dec := newStrictDecoder(data)
	if err := dec.Decode(&ds); err != nil {
		return nil, invalidSpecf("parse deck spec: %v", err)
	}
	if len(ds.Parts) == 0 {
		return nil, invalidSpecf("deck spec has no parts")
	}
	for i, p := range ds.Parts {
		if !p.Repr.valid() {
			return nil, invalidSpecf("part %d: repr must be %q or %q, got %q", i, ReprFEM, ReprSPH, p.Repr)
		}
		if (p.Box == nil) == (p.Sphere == nil) {
			return nil, invalidSpecf("part %d: exactly one of box or sphere must be set", i)
		}
	}
	return &ds, nil
}

// LoadDeckSpec reads and parses a YAML deck spec file.
func LoadDeckSpec(path string) (*DeckSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck spec: %w", err)
	}
	return ParseDeckSpec(data)
}

// Build generates all parts into a single deck, in spec order. Overlapping
// ID ranges between parts surface as a validation error when the deck is
// written.
func (ds *DeckSpec) Build(logger *slog.Logger) (*keyword.Deck, error) {
	d := keyword.NewDeck()
	for i, p := range ds.Parts {
		before := d.NodeCount()
		if err := p.emit(d); err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		if logger != nil {
			logger.Debug("generated part",
				"part", i,
				"shape", p.shapeName(),
				"repr", string(p.Repr),
				"nodes", d.NodeCount()-before)
		}
	}
	return d, nil
}

func (p PartSpec) emit(d *keyword.Deck) error {
	switch {
	case p.Box != nil && p.Repr == ReprFEM:
		return p.Box.EmitMesh(d)
	case p.Box != nil:
		return p.Box.EmitCloud(d)
	case p.Sphere != nil && p.Repr == ReprFEM:
		return p.Sphere.EmitMesh(d)
	default:
		return p.Sphere.EmitCloud(d)
	}
}

func (p PartSpec) shapeName() string {
	if p.Box != nil {
		return "box"
	}
	return "sphere"
}

func newStrictDecoder(data []byte) *yaml.Decoder {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec
}
