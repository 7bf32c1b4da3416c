// Package volume implements the toroidal play volume: an axis-aligned
// box that moving objects wrap around when they exit one side, plus the
// portal geometry drawn where an object is mid-crossing. The volume is
// defined by a center, a cell grid and a per-cell scalar; its extents
// are recomputed once per tick before any query reads them.
package volume

import "github.com/go-gl/mathgl/mgl64"

// Face identifies one of the six planar sides of the volume. Each face
// maps bijectively to one signed axis unit normal.
type Face int

const (
	FaceLeft Face = iota
	FaceRight
	FaceTop
	FaceBottom
	FaceFront
	FaceBack
)

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	}
	return "unknown"
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl64.Vec3 {
	switch f {
	case FaceLeft:
		return mgl64.Vec3{-1, 0, 0}
	case FaceRight:
		return mgl64.Vec3{1, 0, 0}
	case FaceTop:
		return mgl64.Vec3{0, 1, 0}
	case FaceBottom:
		return mgl64.Vec3{0, -1, 0}
	case FaceFront:
		return mgl64.Vec3{0, 0, 1}
	case FaceBack:
		return mgl64.Vec3{0, 0, -1}
	}
	return mgl64.Vec3{}
}

// Axis returns the axis index (0..2) the face is perpendicular to and
// the sign of its outward normal on that axis.
func (f Face) Axis() (axis int, sign float64) {
	switch f {
	case FaceLeft:
		return 0, -1
	case FaceRight:
		return 0, 1
	case FaceTop:
		return 1, 1
	case FaceBottom:
		return 1, -1
	case FaceFront:
		return 2, 1
	case FaceBack:
		return 2, -1
	}
	return 0, 0
}

// FaceFromNormal is the partial inverse of Normal. Only the six signed
// axis unit vectors map to a face; any other input returns ok=false.
func FaceFromNormal(n mgl64.Vec3) (Face, bool) {
	switch n {
	case mgl64.Vec3{-1, 0, 0}:
		return FaceLeft, true
	case mgl64.Vec3{1, 0, 0}:
		return FaceRight, true
	case mgl64.Vec3{0, 1, 0}:
		return FaceTop, true
	case mgl64.Vec3{0, -1, 0}:
		return FaceBottom, true
	case mgl64.Vec3{0, 0, 1}:
		return FaceFront, true
	case mgl64.Vec3{0, 0, -1}:
		return FaceBack, true
	}
	return FaceLeft, false
}

// faceForAxis returns the face whose outward normal points along the
// given axis in the given direction.
func faceForAxis(axis int, sign float64) Face {
	switch axis {
	case 0:
		if sign < 0 {
			return FaceLeft
		}
		return FaceRight
	case 1:
		if sign < 0 {
			return FaceBottom
		}
		return FaceTop
	default:
		if sign < 0 {
			return FaceBack
		}
		return FaceFront
	}
}
