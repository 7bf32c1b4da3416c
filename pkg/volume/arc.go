package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Arc is a circular arc: starting at Start (a point on the circle
// around Center), sweeping Sweep radians counterclockwise around Axis.
type Arc struct {
	Center mgl64.Vec3
	Radius float64
	Start  mgl64.Vec3
	Axis   mgl64.Vec3
	Sweep  float64
}

// ClosestPointOnEdge returns the point on the edge shared by the two
// faces with outward normals n1 and n2 that is closest to position.
// The edge direction is the cross of the normals; the anchor point is
// the center offset by each normal's half extent on its own axes.
func (v *Volume) ClosestPointOnEdge(position, n1, n2 mgl64.Vec3) mgl64.Vec3 {
	edgeDir := n1.Cross(n2).Normalize()

	half := v.Scale().Mul(0.5)
	anchor := v.Center
	for axis := 0; axis < 3; axis++ {
		if n1[axis] != 0 {
			anchor[axis] += n1[axis] * half[axis]
		}
		if n2[axis] != 0 {
			anchor[axis] += n2[axis] * half[axis]
		}
	}

	projection := position.Sub(anchor).Dot(edgeDir)
	point := anchor.Add(edgeDir.Mul(projection))

	v.log.Debug("closest point on shared edge",
		zap.Float64s("position", position[:]),
		zap.Float64s("edge_dir", edgeDir[:]),
		zap.Float64("projection", projection),
		zap.Float64s("point", point[:]))
	return point
}

// RotateToFace rotates position 90 degrees across the edge shared by
// its current face and the target face, pivoting at the closest edge
// point. The result is where the continuation of an overhanging portal
// appears to emanate from on the adjacent face, bending the circle
// around the seam.
func (v *Volume) RotateToFace(position, currentNormal mgl64.Vec3, target Face) mgl64.Vec3 {
	targetNormal := target.Normal()

	axis := currentNormal.Cross(targetNormal).Normalize()
	pivot := v.ClosestPointOnEdge(position, currentNormal, targetNormal)

	rotation := mgl64.QuatRotate(math.Pi/2, axis)
	return pivot.Add(rotation.Rotate(position.Sub(pivot)))
}

// MainArc computes the arc of the portal circle drawn on the portal's
// home face between the two face-plane crossing points. The sweep
// direction comes from the sign of (from x to) . normal; the magnitude
// is chosen so the arc stays on the visible side of the seam: when the
// minor arc's midpoint falls outside the volume the reflex complement
// is drawn instead.
func (v *Volume) MainArc(p Portal, from, to mgl64.Vec3) Arc {
	vecFrom := from.Sub(p.Position).Normalize()
	vecTo := to.Sub(p.Position).Normalize()

	angle := angleBetween(vecFrom, vecTo)

	// Counterclockwise around the portal normal unless the cross
	// product points against it.
	spin := 1.0
	if vecFrom.Cross(vecTo).Dot(p.Normal) < 0 {
		spin = -1.0
	}

	arc := Arc{
		Center: p.Position,
		Radius: p.Radius,
		Start:  from,
		Axis:   p.Normal.Mul(spin),
		Sweep:  angle,
	}

	// Midpoint of the minor arc from vecFrom toward vecTo.
	mid := mgl64.QuatRotate(angle/2, arc.Axis).Rotate(vecFrom)
	midPoint := p.Position.Add(mid.Mul(p.Radius))
	if !v.containsLoose(midPoint) {
		arc.Axis = p.Normal.Mul(-spin)
		arc.Sweep = 2*math.Pi - angle
	}
	return arc
}

// angleBetween returns the non-negative angle between two unit vectors,
// in [0, pi].
func angleBetween(a, b mgl64.Vec3) float64 {
	dot := a.Dot(b)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot)
}

// containsLoose is Contains with a small tolerance, for points that sit
// exactly on a face plane up to float error.
func (v *Volume) containsLoose(p mgl64.Vec3) bool {
	const eps = 1e-6
	min, max := v.Min(), v.Max()
	for axis := 0; axis < 3; axis++ {
		if p[axis] < min[axis]-eps || p[axis] > max[axis]+eps {
			return false
		}
	}
	return true
}
