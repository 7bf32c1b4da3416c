package volume

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// testVolume returns a volume centered at the origin with extents
// 220 x 110 x 110 (cells 2x1x1, scalar 110), matching the defaults.
func testVolume() *Volume {
	return New(mgl64.Vec3{}, [3]uint32{2, 1, 1}, 110)
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

// ---------------------------------------------------------------------------
// Wraparound
// ---------------------------------------------------------------------------

func TestWrapPositionInsideIsIdentity(t *testing.T) {
	v := testVolume()

	tests := []struct {
		name string
		pos  mgl64.Vec3
	}{
		{"center", mgl64.Vec3{0, 0, 0}},
		{"off center", mgl64.Vec3{42, -12.5, 30}},
		{"just inside max corner", mgl64.Vec3{109.9, 54.9, 54.9}},
		{"just inside min corner", mgl64.Vec3{-109.9, -54.9, -54.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.WrapPosition(tt.pos); got != tt.pos {
				t.Errorf("WrapPosition(%v) = %v, want unchanged", tt.pos, got)
			}
		})
	}
}

func TestWrapPositionSingleAxis(t *testing.T) {
	v := testVolume()
	min, max := v.Min(), v.Max()

	for axis := 0; axis < 3; axis++ {
		// Exactly at the max bound wraps to the min bound, other axes
		// untouched.
		pos := mgl64.Vec3{1, 2, 3}
		pos[axis] = max[axis]
		want := mgl64.Vec3{1, 2, 3}
		want[axis] = min[axis]
		if got := v.WrapPosition(pos); got != want {
			t.Errorf("axis %d: WrapPosition(%v) = %v, want %v", axis, pos, got, want)
		}

		// Symmetric for the min bound.
		pos = mgl64.Vec3{1, 2, 3}
		pos[axis] = min[axis]
		want = mgl64.Vec3{1, 2, 3}
		want[axis] = max[axis]
		if got := v.WrapPosition(pos); got != want {
			t.Errorf("axis %d: WrapPosition(%v) = %v, want %v", axis, pos, got, want)
		}
	}
}

func TestWrapPositionCorner(t *testing.T) {
	v := testVolume()
	min, max := v.Min(), v.Max()

	// Out on x and y simultaneously, interior on z: both wrap in one
	// call, z untouched.
	pos := mgl64.Vec3{max[0], max[1], 10}
	want := mgl64.Vec3{min[0], min[1], 10}
	if got := v.WrapPosition(pos); got != want {
		t.Errorf("WrapPosition(%v) = %v, want %v", pos, got, want)
	}

	// Beyond the bounds rather than exactly on them.
	pos = mgl64.Vec3{max[0] + 5, min[1] - 5, 10}
	want = mgl64.Vec3{min[0], max[1], 10}
	if got := v.WrapPosition(pos); got != want {
		t.Errorf("WrapPosition(%v) = %v, want %v", pos, got, want)
	}
}

// ---------------------------------------------------------------------------
// Face classification
// ---------------------------------------------------------------------------

func TestNormalForPosition(t *testing.T) {
	v := testVolume()
	min, max := v.Min(), v.Max()

	tests := []struct {
		name string
		pos  mgl64.Vec3
		want mgl64.Vec3
	}{
		{"on min x face", mgl64.Vec3{min[0] + faceEpsilon/2, 0, 0}, mgl64.Vec3{-1, 0, 0}},
		{"on max x face", mgl64.Vec3{max[0], 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"on min y face", mgl64.Vec3{0, min[1], 0}, mgl64.Vec3{0, -1, 0}},
		{"on max y face", mgl64.Vec3{0, max[1], 0}, mgl64.Vec3{0, 1, 0}},
		{"on min z face", mgl64.Vec3{0, 0, min[2]}, mgl64.Vec3{0, 0, -1}},
		{"on max z face", mgl64.Vec3{0, 0, max[2]}, mgl64.Vec3{0, 0, 1}},
		{"interior defaults to +Y", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0}},
		// A point on both the x and y planes reports the x face: axes
		// are tested in x, y, z order and the first match wins.
		{"edge prefers x", mgl64.Vec3{max[0], max[1], 0}, mgl64.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.NormalForPosition(tt.pos); got != tt.want {
				t.Errorf("NormalForPosition(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestFaceNormalRoundTrip(t *testing.T) {
	for _, f := range []Face{FaceLeft, FaceRight, FaceTop, FaceBottom, FaceFront, FaceBack} {
		got, ok := FaceFromNormal(f.Normal())
		if !ok {
			t.Fatalf("FaceFromNormal(%v.Normal()) not ok", f)
		}
		if got != f {
			t.Errorf("FaceFromNormal(%v.Normal()) = %v", f, got)
		}
	}

	if _, ok := FaceFromNormal(mgl64.Vec3{0.5, 0.5, 0}.Normalize()); ok {
		t.Error("FaceFromNormal accepted a non-axis-aligned normal")
	}
}

func TestFaceAxisMatchesNormal(t *testing.T) {
	for _, f := range []Face{FaceLeft, FaceRight, FaceTop, FaceBottom, FaceFront, FaceBack} {
		axis, sign := f.Axis()
		want := mgl64.Vec3{}
		want[axis] = sign
		if f.Normal() != want {
			t.Errorf("%v: Axis() = (%d, %v) disagrees with Normal() %v", f, axis, sign, f.Normal())
		}
	}
}

// ---------------------------------------------------------------------------
// Ray / box edge points
// ---------------------------------------------------------------------------

func TestEdgePointAxisRay(t *testing.T) {
	v := testVolume()
	max := v.Max()

	point, ok := v.EdgePoint(v.Center, mgl64.Vec3{1, 0, 0})
	if !ok {
		t.Fatal("EdgePoint returned no crossing for +X ray from center")
	}
	want := mgl64.Vec3{max[0], v.Center[1], v.Center[2]}
	if !vecNear(point, want, 1e-9) {
		t.Errorf("EdgePoint = %v, want %v", point, want)
	}
}

func TestEdgePointDiagonalRay(t *testing.T) {
	v := testVolume()
	min, max := v.Min(), v.Max()

	point, ok := v.EdgePoint(v.Center, mgl64.Vec3{1, 1, 1}.Normalize())
	if !ok {
		t.Fatal("EdgePoint returned no crossing for diagonal ray")
	}

	// The hit must lie exactly on one face plane and within extents on
	// the other axes.
	onPlane := false
	for axis := 0; axis < 3; axis++ {
		if math.Abs(point[axis]-max[axis]) < 1e-9 || math.Abs(point[axis]-min[axis]) < 1e-9 {
			onPlane = true
		}
		if point[axis] < min[axis]-1e-9 || point[axis] > max[axis]+1e-9 {
			t.Errorf("axis %d of %v outside extents", axis, point)
		}
	}
	if !onPlane {
		t.Errorf("point %v lies on no face plane", point)
	}

	// The shortest extent (y or z, both 110) is hit first.
	if math.Abs(point[1]-max[1]) > 1e-9 && math.Abs(point[2]-max[2]) > 1e-9 {
		t.Errorf("point %v should exit through a short-axis face", point)
	}
}

func TestEdgePointNoCrossing(t *testing.T) {
	v := testVolume()

	if _, ok := v.EdgePoint(v.Center, mgl64.Vec3{}); ok {
		t.Error("zero direction should yield no crossing")
	}

	// A ray starting outside, pointing further away: candidate hits
	// exist on extended planes but fall out of bounds on other axes.
	origin := mgl64.Vec3{0, v.Max()[1] + 50, 0}
	if _, ok := v.EdgePoint(origin, mgl64.Vec3{0, 1, 0}); ok {
		t.Error("ray pointing away from the box should yield no crossing")
	}
}

// ---------------------------------------------------------------------------
// Derived scalars and scale lifecycle
// ---------------------------------------------------------------------------

func TestScaleDerivation(t *testing.T) {
	v := testVolume()

	want := mgl64.Vec3{220, 110, 110}
	if v.Scale() != want {
		t.Fatalf("Scale() = %v, want %v", v.Scale(), want)
	}

	v.Reconfigure(50, [3]uint32{3, 2, 1})
	want = mgl64.Vec3{150, 100, 50}
	if v.Scale() != want {
		t.Fatalf("after Reconfigure: Scale() = %v, want %v", v.Scale(), want)
	}
	if v.Max().Sub(v.Min()) != want {
		t.Errorf("extents %v not refreshed after Reconfigure", v.Max().Sub(v.Min()))
	}

	// Mutating fields directly takes effect at the next Sync, not
	// before.
	v.Scalar = 100
	if v.Max().Sub(v.Min()) != want {
		t.Errorf("cached extents changed before Sync")
	}
	v.Sync()
	if got := v.Max().Sub(v.Min()); got != (mgl64.Vec3{300, 200, 100}) {
		t.Errorf("after Sync: extents = %v", got)
	}
}

func TestDerivedScalars(t *testing.T) {
	v := testVolume()

	wantDiag := math.Sqrt(220*220 + 110*110 + 110*110)
	if got := v.LongestDiagonal(); math.Abs(got-wantDiag) > 1e-9 {
		t.Errorf("LongestDiagonal() = %v, want %v", got, wantDiag)
	}
	if got := v.MaxMissileDistance(); got != 220 {
		t.Errorf("MaxMissileDistance() = %v, want 220", got)
	}
}

func TestContains(t *testing.T) {
	v := testVolume()

	if !v.Contains(v.Center) {
		t.Error("center not contained")
	}
	if !v.Contains(v.Max()) {
		t.Error("boundary should be inclusive")
	}
	if v.Contains(v.Max().Add(mgl64.Vec3{1, 0, 0})) {
		t.Error("point past max contained")
	}
}
