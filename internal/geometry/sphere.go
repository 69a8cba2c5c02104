package geometry

import (
	"math"

	"github.com/rongjin-uky/dynakit/internal/keyword"
)

// EmitCloud appends an SPH particle fill of the sphere to the deck. The
// bounding cube of the sphere is divided into an NX x NY x NZ grid and
// cell-centered points are kept when they fall inside the radius. Whole
// X slices and XY columns outside the radius are rejected early.
func (s SphereSpec) EmitCloud(d *keyword.Deck) error {
	s = s.normalize()
	if err := s.validateCommon(); err != nil {
		return err
	}
	if s.NX <= 0 || s.NY <= 0 || s.NZ <= 0 {
		return invalidSpecf("grid counts %dx%dx%d must all be positive", s.NX, s.NY, s.NZ)
	}
	if s.Density <= 0 {
		return invalidSpecf("density %g must be positive for an SPH cloud", s.Density)
	}

	side := 2.0 * s.Radius
	dx := side / float64(s.NX)
	dy := side / float64(s.NY)
	dz := side / float64(s.NZ)
	mass := s.Density * dx * dy * dz

	cx, cy, cz := s.Center[0], s.Center[1], s.Center[2]
	xmin := cx - s.Radius
	ymin := cy - s.Radius
	zmin := cz - s.Radius
	r2 := s.Radius * s.Radius

	nid := s.StartNodeID
	eid := s.StartElemID
	for i := 0; i < s.NX; i++ {
		x := xmin + (float64(i)+0.5)*dx
		if math.Abs(x-cx) > s.Radius {
			continue
		}
		for j := 0; j < s.NY; j++ {
			y := ymin + (float64(j)+0.5)*dy
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) > r2 {
				continue
			}
			for k := 0; k < s.NZ; k++ {
				z := zmin + (float64(k)+0.5)*dz
				if (x-cx)*(x-cx)+(y-cy)*(y-cy)+(z-cz)*(z-cz) > r2 {
					continue
				}
				d.AddNode(keyword.Node{ID: nid, X: x, Y: y, Z: z})
				d.AddParticle(keyword.SPHElement{ID: eid, PartID: s.PartID, NodeID: nid, Mass: mass})
				nid++
				eid++
			}
		}
	}
	return nil
}

// EmitMesh appends an all-hex mesh of the sphere to the deck using the
// cubed-sphere mapping: a cube of 2*Divisions elements per side in
// normalized [-1,1] coordinates is warped onto the unit ball, then scaled
// by the radius and shifted to the center. Element quality stays good
// through the corners, which plain radial projection does not give.
func (s SphereSpec) EmitMesh(d *keyword.Deck) error {
	s = s.normalize()
	if err := s.validateCommon(); err != nil {
		return err
	}
	if s.Divisions <= 0 {
		return invalidSpecf("divisions %d must be positive for a FEM sphere", s.Divisions)
	}

	n := s.Divisions
	side := 2 * n
	nodesPerSide := side + 1

	nodeID := func(i, j, k int) int64 {
		return s.StartNodeID + int64((i*nodesPerSide+j)*nodesPerSide+k)
	}

	for i := 0; i < nodesPerSide; i++ {
		u := float64(i-n) / float64(n)
		for j := 0; j < nodesPerSide; j++ {
			v := float64(j-n) / float64(n)
			for k := 0; k < nodesPerSide; k++ {
				w := float64(k-n) / float64(n)
				xs, ys, zs := cubedSphere(u, v, w)
				d.AddNode(keyword.Node{
					ID: nodeID(i, j, k),
					X:  s.Center[0] + xs*s.Radius,
					Y:  s.Center[1] + ys*s.Radius,
					Z:  s.Center[2] + zs*s.Radius,
				})
			}
		}
	}

	eid := s.StartElemID
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			for k := 0; k < side; k++ {
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

// cubedSphere maps a point of the cube [-1,1]^3 onto the unit ball.
func cubedSphere(u, v, w float64) (x, y, z float64) {
	u2, v2, w2 := u*u, v*v, w*w
	x = u * math.Sqrt(1.0-v2/2.0-w2/2.0+v2*w2/3.0)
	y = v * math.Sqrt(1.0-u2/2.0-w2/2.0+u2*w2/3.0)
	z = w * math.Sqrt(1.0-u2/2.0-v2/2.0+u2*v2/3.0)
	return x, y, z
}
