// Package keyword builds LS-DYNA keyword decks in memory and serializes
// them in the solver's small (fixed-width) format.
package keyword

import (
	"errors"
	"fmt"
)

// Sentinel errors for deck construction and output.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidDeck indicates the deck violates keyword-format invariants
	// (duplicate or non-contiguous IDs within a block).
	ErrInvalidDeck = errors.New("invalid deck")

	// ErrWrite indicates the output file could not be created or written.
	ErrWrite = errors.New("deck write failed")
)

// Node is a single *NODE record.
type Node struct {
	ID      int64
	X, Y, Z float64
}

// SolidElement is an eight-node hexahedral *ELEMENT_SOLID record.
// Corners are ordered bottom face counter-clockwise, then top face.
type SolidElement struct {
	ID      int64
	PartID  int64
	Corners [8]int64
}

// SPHElement is a single *ELEMENT_SPH record tying a particle node to a
// part, with its lumped mass.
type SPHElement struct {
	ID     int64
	PartID int64
	NodeID int64
	Mass   float64
}

// Deck is an ordered keyword deck: *KEYWORD header, a *NODE block, optional
// *ELEMENT_SOLID and *ELEMENT_SPH blocks, and an *END footer. Records are
// appended in generation order and written out verbatim, so a deck built
// from the same inputs always serializes to the same bytes.
type Deck struct {
	nodes     []Node
	solids    []SolidElement
	particles []SPHElement
}

// NewDeck returns an empty deck.
func NewDeck() *Deck {
	return &Deck{}
}

// AddNode appends a node record.
func (d *Deck) AddNode(n Node) {
	d.nodes = append(d.nodes, n)
}

// AddSolid appends a hexahedral element record.
func (d *Deck) AddSolid(e SolidElement) {
	d.solids = append(d.solids, e)
}

// AddParticle appends an SPH element record.
func (d *Deck) AddParticle(e SPHElement) {
	d.particles = append(d.particles, e)
}

// NodeCount returns the number of node records in the deck.
func (d *Deck) NodeCount() int { return len(d.nodes) }

// SolidCount returns the number of solid element records in the deck.
func (d *Deck) SolidCount() int { return len(d.solids) }

// ParticleCount returns the number of SPH element records in the deck.
func (d *Deck) ParticleCount() int { return len(d.particles) }

// Nodes returns the node records in deck order.
func (d *Deck) Nodes() []Node { return d.nodes }

// Solids returns the solid element records in deck order.
func (d *Deck) Solids() []SolidElement { return d.solids }

// Particles returns the SPH element records in deck order.
func (d *Deck) Particles() []SPHElement { return d.particles }

// Validate checks the deck invariants: every ID positive and unique within
// its block. Contiguity within a part is guaranteed by the generators'
// fixed traversal order; what can go wrong when several parts share a deck
// is overlapping ID ranges, which the uniqueness check catches.
func (d *Deck) Validate() error {
	if err := checkIDs("node", nodeIDs(d.nodes)); err != nil {
		return err
	}
	if err := checkIDs("solid element", solidIDs(d.solids)); err != nil {
		return err
	}
	if err := checkIDs("sph element", sphIDs(d.particles)); err != nil {
		return err
	}
	return nil
}

func nodeIDs(ns []Node) []int64 {
	ids := make([]int64, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}

func solidIDs(es []SolidElement) []int64 {
	ids := make([]int64, len(es))
	for i, e := range es {
		ids[i] = e.ID
	}
	return ids
}

func sphIDs(es []SPHElement) []int64 {
	ids := make([]int64, len(es))
	for i, e := range es {
		ids[i] = e.ID
	}
	return ids
}

func checkIDs(block string, ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %s block: non-positive ID %d", ErrInvalidDeck, block, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s block: duplicate ID %d", ErrInvalidDeck, block, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
