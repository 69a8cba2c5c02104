package geometry

import (
	"github.com/rongjin-uky/dynakit/internal/keyword"
)

// EmitMesh appends a structured hexahedral mesh of the box to the deck.
// Nodes sit at cell corners, (n+1) per axis, traversed column-first
// (X outer, Y middle, Z inner) so node IDs are assigned in the same order
// the solver's own preprocessor uses. Elements cover each cell with the
// standard connectivity: bottom face counter-clockwise, then top face.
func (s BoxSpec) EmitMesh(d *keyword.Deck) error {
	s, err := s.normalize()
	if err != nil {
		return err
	}
	if err := s.validateCommon(); err != nil {
		return err
	}

	nnx, nny, nnz := s.NX+1, s.NY+1, s.NZ+1
	dx, dy, dz := s.spacing()

	// Node ID for logical grid index (i, j, k), following traversal order.
	nodeID := func(i, j, k int) int64 {
		return s.StartNodeID + int64((i*nny+j)*nnz+k)
	}

	for i := 0; i < nnx; i++ {
		x := s.Min[0] + float64(i)*dx
		for j := 0; j < nny; j++ {
			y := s.Min[1] + float64(j)*dy
			for k := 0; k < nnz; k++ {
				z := s.Min[2] + float64(k)*dz
				d.AddNode(keyword.Node{ID: nodeID(i, j, k), X: x, Y: y, Z: z})
			}
		}
	}

	eid := s.StartElemID
	for i := 0; i < s.NX; i++ {
		for j := 0; j < s.NY; j++ {
			for k := 0; k < s.NZ; k++ {
				d.AddSolid(keyword.SolidElement{
					ID:     eid,
					PartID: s.PartID,
					Corners: [8]int64{
						nodeID(i, j, k),
						nodeID(i+1, j, k),
						nodeID(i+1, j+1, k),
						nodeID(i, j+1, k),
						nodeID(i, j, k+1),
						nodeID(i+1, j, k+1),
						nodeID(i+1, j+1, k+1),
						nodeID(i, j+1, k+1),
					},
				})
				eid++
			}
		}
	}
	return nil
}

// EmitCloud appends an SPH particle fill of the box to the deck. Particles
// sit at cell centers, (i+0.5)*dx from the minimum corner, traversed
// column-first. Each particle carries mass = density x cell volume.
func (s BoxSpec) EmitCloud(d *keyword.Deck) error {
	s, err := s.normalize()
	if err != nil {
		return err
	}
	if err := s.validateCommon(); err != nil {
		return err
	}
	if s.Density <= 0 {
		return invalidSpecf("density %g must be positive for an SPH cloud", s.Density)
	}

	dx, dy, dz := s.spacing()
	mass := s.Density * dx * dy * dz

	nid := s.StartNodeID
	eid := s.StartElemID
	for i := 0; i < s.NX; i++ {
		x := s.Min[0] + (float64(i)+0.5)*dx
		for j := 0; j < s.NY; j++ {
			y := s.Min[1] + (float64(j)+0.5)*dy
			for k := 0; k < s.NZ; k++ {
				z := s.Min[2] + (float64(k)+0.5)*dz
				d.AddNode(keyword.Node{ID: nid, X: x, Y: y, Z: z})
				d.AddParticle(keyword.SPHElement{ID: eid, PartID: s.PartID, NodeID: nid, Mass: mass})
				nid++
				eid++
			}
		}
	}
	return nil
}
