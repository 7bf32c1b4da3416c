package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// arcResolution is the number of segments a full turn flattens into.
const arcResolution = 32

// Segment is a flattened line segment ready for a line-drawing client.
type Segment struct {
	From  [3]float64 `json:"from"`
	To    [3]float64 `json:"to"`
	Color string     `json:"color"`
}

// Segments is a Surface that flattens every primitive into straight
// segments. The viewer frontend consumes the result as a single batch.
type Segments struct {
	Batch []Segment
}

var _ Surface = (*Segments)(nil)

func (s *Segments) push(from, to mgl64.Vec3, c Color) {
	s.Batch = append(s.Batch, Segment{
		From:  [3]float64{from[0], from[1], from[2]},
		To:    [3]float64{to[0], to[1], to[2]},
		Color: string(c),
	})
}

func (s *Segments) Line(from, to mgl64.Vec3, c Color) {
	s.push(from, to, c)
}

func (s *Segments) Circle(center, normal mgl64.Vec3, radius float64, c Color) {
	u, w := circleBasis(normal)
	start := center.Add(u.Mul(radius))
	prev := start
	for i := 1; i <= arcResolution; i++ {
		// The final vertex reuses the start point so the loop closes
		// exactly instead of landing a rounding error away.
		next := start
		if i < arcResolution {
			t := 2 * math.Pi * float64(i) / arcResolution
			next = center.Add(u.Mul(radius * math.Cos(t))).Add(w.Mul(radius * math.Sin(t)))
		}
		s.push(prev, next, c)
		prev = next
	}
}

func (s *Segments) Arc(center, axis mgl64.Vec3, radius float64, start mgl64.Vec3, sweep float64, c Color) {
	steps := arcSteps(sweep)
	spoke := start.Sub(center)
	prev := start
	for i := 1; i <= steps; i++ {
		q := mgl64.QuatRotate(sweep*float64(i)/float64(steps), axis)
		next := center.Add(q.Rotate(spoke))
		s.push(prev, next, c)
		prev = next
	}
}

func (s *Segments) ArcBetween(center, from, to mgl64.Vec3, c Color) {
	vf := from.Sub(center)
	vt := to.Sub(center)

	lf := vf.Len()
	if lf < 1e-12 || vt.Len() < 1e-12 {
		return
	}

	axis := vf.Cross(vt)
	if axis.Len() < 1e-12 {
		// Collinear endpoints: no unique arc plane, fall back to a
		// straight segment.
		s.push(from, to, c)
		return
	}
	axis = axis.Normalize()

	sweep := math.Acos(mgl64.Clamp(vf.Normalize().Dot(vt.Normalize()), -1, 1))
	s.Arc(center, axis, lf, from, sweep, c)
}

// Reset drops the accumulated batch.
func (s *Segments) Reset() {
	s.Batch = s.Batch[:0]
}

// arcSteps scales segment count with sweep, with a floor so short arcs
// stay smooth.
func arcSteps(sweep float64) int {
	steps := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * arcResolution))
	if steps < 8 {
		steps = 8
	}
	return steps
}

// circleBasis returns two orthonormal vectors spanning the plane
// perpendicular to n.
func circleBasis(n mgl64.Vec3) (u, w mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(n[1]) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u = n.Cross(ref).Normalize()
	w = n.Cross(u)
	return u, w
}
