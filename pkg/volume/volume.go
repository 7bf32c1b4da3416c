package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// faceEpsilon is the tolerance used when classifying a position onto a
// boundary face plane.
const faceEpsilon = 0.001

// Volume is the axis-aligned play volume. Extents are derived from the
// cell grid: scale = Scalar * CellCount componentwise, so min is
// Center - scale/2 and max is Center + scale/2.
//
// The cached extents are refreshed by Sync, which callers run once per
// tick before issuing queries. All queries are read-only; a single
// frame-stepped caller needs no locking.
type Volume struct {
	Center    mgl64.Vec3
	CellCount [3]uint32
	Scalar    float64

	extents mgl64.Vec3
	log     *zap.Logger
}

// New creates a volume and computes its initial extents.
func New(center mgl64.Vec3, cellCount [3]uint32, scalar float64) *Volume {
	v := &Volume{
		Center:    center,
		CellCount: cellCount,
		Scalar:    scalar,
		log:       zap.NewNop(),
	}
	v.Sync()
	return v
}

// SetLogger installs a logger for the geometry debug path. Queries are
// silent by default.
func (v *Volume) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	v.log = log
}

// Scale returns the full extents per axis: Scalar * CellCount.
func (v *Volume) Scale() mgl64.Vec3 {
	return mgl64.Vec3{
		v.Scalar * float64(v.CellCount[0]),
		v.Scalar * float64(v.CellCount[1]),
		v.Scalar * float64(v.CellCount[2]),
	}
}

// Sync recomputes the cached extents from Scalar and CellCount.
// Configuration edits take effect at the next Sync.
func (v *Volume) Sync() {
	v.extents = v.Scale()
}

// Reconfigure applies new grid parameters and refreshes the extents.
func (v *Volume) Reconfigure(scalar float64, cellCount [3]uint32) {
	v.Scalar = scalar
	v.CellCount = cellCount
	v.Sync()
}

// Min returns the corner with the smallest coordinates on every axis.
func (v *Volume) Min() mgl64.Vec3 {
	return v.Center.Sub(v.extents.Mul(0.5))
}

// Max returns the corner with the largest coordinates on every axis.
func (v *Volume) Max() mgl64.Vec3 {
	return v.Center.Add(v.extents.Mul(0.5))
}

// Contains reports whether p lies inside the volume, boundary included.
func (v *Volume) Contains(p mgl64.Vec3) bool {
	min, max := v.Min(), v.Max()
	for axis := 0; axis < 3; axis++ {
		if p[axis] < min[axis] || p[axis] > max[axis] {
			return false
		}
	}
	return true
}

// WrapPosition returns the position p re-enters the volume at after
// exiting through a face. Each axis wraps independently: a coordinate
// on or beyond the max bound moves to the min bound and vice versa, so
// a corner-crossing object wraps on every violated axis in one call.
// Positions strictly inside the volume are returned unchanged.
func (v *Volume) WrapPosition(p mgl64.Vec3) mgl64.Vec3 {
	min, max := v.Min(), v.Max()

	wrapped := p
	for axis := 0; axis < 3; axis++ {
		if p[axis] >= max[axis] {
			wrapped[axis] = min[axis]
		} else if p[axis] <= min[axis] {
			wrapped[axis] = max[axis]
		}
	}
	return wrapped
}

// NormalForPosition classifies which face a point lies on and returns
// that face's outward unit normal. Axes are tested in x, y, z order and
// the first plane within tolerance wins, so a point sitting exactly on
// an edge reports the lower-indexed axis. Points on no face default to
// the +Y normal.
func (v *Volume) NormalForPosition(p mgl64.Vec3) mgl64.Vec3 {
	min, max := v.Min(), v.Max()

	for axis := 0; axis < 3; axis++ {
		if math.Abs(p[axis]-min[axis]) < faceEpsilon {
			return faceForAxis(axis, -1).Normal()
		}
		if math.Abs(p[axis]-max[axis]) < faceEpsilon {
			return faceForAxis(axis, 1).Normal()
		}
	}

	v.log.Debug("position not on any boundary face, defaulting to +Y",
		zap.Float64("x", p[0]), zap.Float64("y", p[1]), zap.Float64("z", p[2]))
	return mgl64.Vec3{0, 1, 0}
}

// FaceForPosition classifies which face a point lies on, with the same
// tie-break and default as NormalForPosition.
func (v *Volume) FaceForPosition(p mgl64.Vec3) Face {
	face, _ := FaceFromNormal(v.NormalForPosition(p))
	return face
}

// EdgePoint returns the point where a ray leaves the volume travelling
// forward from origin along direction. For each axis the parametric
// distances to both bound planes are computed; a candidate is accepted
// only when t > 0 and the hit lies within the extents of the two
// remaining axes. The nearest such hit wins. ok is false when no
// forward, in-bounds crossing exists, e.g. a zero direction or a ray
// pointing away from every face.
func (v *Volume) EdgePoint(origin, direction mgl64.Vec3) (point mgl64.Vec3, ok bool) {
	min, max := v.Min(), v.Max()

	tMin := math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		if direction[axis] == 0 {
			continue
		}
		for _, bound := range [2]float64{max[axis], min[axis]} {
			t := (bound - origin[axis]) / direction[axis]
			if t <= 0 || t >= tMin {
				continue
			}
			hit := origin.Add(direction.Mul(t))
			if inBoundsExcept(hit, axis, min, max) {
				tMin = t
			}
		}
	}

	if tMin == math.MaxFloat64 {
		return mgl64.Vec3{}, false
	}
	return origin.Add(direction.Mul(tMin)), true
}

// inBoundsExcept checks that every axis other than skip lies within
// [min, max].
func inBoundsExcept(p mgl64.Vec3, skip int, min, max mgl64.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if axis == skip {
			continue
		}
		if p[axis] < min[axis] || p[axis] > max[axis] {
			return false
		}
	}
	return true
}

// LongestDiagonal returns the Euclidean space diagonal of the volume.
func (v *Volume) LongestDiagonal() float64 {
	s := v.Scale()
	return math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
}

// MaxMissileDistance returns the largest single-axis extent. Collaborators
// use it for range and culling decisions.
func (v *Volume) MaxMissileDistance() float64 {
	s := v.Scale()
	return math.Max(s[0], math.Max(s[1], s[2]))
}
