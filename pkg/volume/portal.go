package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Portal is a circular seam embedded in a boundary face, drawn where an
// object is mid-wrap. Position lies on (or near) the face, Normal is
// the face's outward unit normal and Radius is strictly positive. The
// geometry queries do not validate degenerate portals; callers supply
// well-formed values.
type Portal struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Radius   float64
}

// Overextension returns every face whose bounding plane the portal's
// disc crosses. The disc is tested as a per-axis interval
// [Position - Radius, Position + Radius] against all six planes. The
// face the portal is mounted on is excluded; if the portal normal is
// not one of the six axis directions the raw set is returned with no
// exclusion.
func (v *Volume) Overextension(p Portal) []Face {
	min, max := v.Min(), v.Max()

	var faces []Face
	for axis := 0; axis < 3; axis++ {
		if p.Position[axis]-p.Radius < min[axis] {
			faces = append(faces, faceForAxis(axis, -1))
		}
		if p.Position[axis]+p.Radius > max[axis] {
			faces = append(faces, faceForAxis(axis, 1))
		}
	}

	home, ok := FaceFromNormal(p.Normal)
	if !ok {
		return faces
	}

	kept := faces[:0]
	for _, f := range faces {
		if f != home {
			kept = append(kept, f)
		}
	}
	return kept
}

// IntersectionPoints computes, for each candidate face, the two points
// where the portal's circle boundary crosses that face's bounding
// plane. Faces the circle misses or only grazes tangentially are
// omitted, as are faces where both crossings fall outside the face's
// extents. A pair with one crossing beyond an adjacent edge (a portal
// overhanging a corner) is kept, so each overhung face still gets its
// seam. Every entry in the result holds exactly two points.
func (v *Volume) IntersectionPoints(p Portal, faces []Face) map[Face][]mgl64.Vec3 {
	points := make(map[Face][]mgl64.Vec3)

	u, w := planeBasis(p.Normal)
	min, max := v.Min(), v.Max()

	for _, face := range faces {
		axis, sign := face.Axis()
		bound := max[axis]
		if sign < 0 {
			bound = min[axis]
		}

		// A point on the circle is pos + r*(u cos t + w sin t); its
		// coordinate on the face axis crosses the bound where
		// A cos t + B sin t = d.
		a := p.Radius * u[axis]
		b := p.Radius * w[axis]
		d := bound - p.Position[axis]

		reach := math.Hypot(a, b)
		if reach < 1e-12 || math.Abs(d) >= reach {
			continue
		}

		phase := math.Atan2(b, a)
		spread := math.Acos(d / reach)

		first := circlePoint(p, u, w, phase+spread)
		second := circlePoint(p, u, w, phase-spread)
		if inBoundsExcept(first, axis, min, max) || inBoundsExcept(second, axis, min, max) {
			points[face] = []mgl64.Vec3{first, second}
		}
	}

	return points
}

// circlePoint evaluates the portal circle at parameter t using the
// given in-plane basis.
func circlePoint(p Portal, u, w mgl64.Vec3, t float64) mgl64.Vec3 {
	offset := u.Mul(math.Cos(t)).Add(w.Mul(math.Sin(t))).Mul(p.Radius)
	return p.Position.Add(offset)
}

// planeBasis returns two orthonormal vectors spanning the plane
// perpendicular to n.
func planeBasis(n mgl64.Vec3) (u, w mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(n[1]) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u = n.Cross(ref).Normalize()
	w = n.Cross(u)
	return u, w
}
