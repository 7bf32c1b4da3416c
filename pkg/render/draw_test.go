package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/caldway/playvolume/pkg/volume"
)

func cubeVolume() *volume.Volume {
	return volume.New(mgl64.Vec3{}, [3]uint32{1, 1, 1}, 100)
}

func TestDrawPortalInsideFace(t *testing.T) {
	v := cubeVolume()
	rec := &Recorder{}

	p := volume.Portal{Position: mgl64.Vec3{50, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Radius: 10}
	DrawPortal(v, p, rec, "#Fff")

	if len(rec.Circles) != 1 {
		t.Fatalf("got %d circles, want 1", len(rec.Circles))
	}
	if len(rec.Arcs) != 0 || len(rec.ArcBetweens) != 0 {
		t.Errorf("in-face portal drew arcs: %d main, %d seam", len(rec.Arcs), len(rec.ArcBetweens))
	}
	circle := rec.Circles[0]
	if circle.Center != p.Position || circle.Radius != p.Radius || circle.Normal != p.Normal {
		t.Errorf("circle %+v does not match portal %+v", circle, p)
	}
}

func TestDrawPortalOverhangingEdge(t *testing.T) {
	v := cubeVolume()
	rec := &Recorder{}

	p := volume.Portal{Position: mgl64.Vec3{50, 45, 0}, Normal: mgl64.Vec3{1, 0, 0}, Radius: 10}
	DrawPortal(v, p, rec, "#FFF")

	if len(rec.Circles) != 0 {
		t.Errorf("overextended portal drew %d full circles", len(rec.Circles))
	}
	if len(rec.ArcBetweens) != 1 {
		t.Fatalf("got %d seam arcs, want 1", len(rec.ArcBetweens))
	}
	if len(rec.Arcs) != 1 {
		t.Fatalf("got %d main arcs, want 1", len(rec.Arcs))
	}

	// The seam arc is centered on the folded portal center.
	seam := rec.ArcBetweens[0]
	if !vecNear(seam.Center, mgl64.Vec3{55, 50, 0}, 1e-9) {
		t.Errorf("seam center = %v, want the rotated position", seam.Center)
	}

	// Seam endpoints and main arc endpoints are the same crossing pair.
	main := rec.Arcs[0]
	if main.Start != seam.From && main.Start != seam.To {
		t.Errorf("main arc start %v is not a crossing point", main.Start)
	}
	if main.Center != p.Position || main.Radius != p.Radius {
		t.Errorf("main arc %+v not on the portal circle", main)
	}
}

func TestDrawPortalCornerDrawsBothSeams(t *testing.T) {
	v := cubeVolume()
	rec := &Recorder{}

	p := volume.Portal{Position: mgl64.Vec3{50, 45, 45}, Normal: mgl64.Vec3{1, 0, 0}, Radius: 10}
	DrawPortal(v, p, rec, "#FFF")

	// One seam + one main arc per overhung face.
	if len(rec.ArcBetweens) != 2 || len(rec.Arcs) != 2 {
		t.Errorf("corner overhang drew %d seams and %d main arcs, want 2 and 2",
			len(rec.ArcBetweens), len(rec.Arcs))
	}
}

func TestDrawGridLineCount(t *testing.T) {
	v := volume.New(mgl64.Vec3{}, [3]uint32{2, 1, 1}, 110)
	rec := &Recorder{}

	DrawGrid(v, rec, "#FFF")

	// Lines along x: (cells_y+1)*(cells_z+1) = 4; along y:
	// (cells_z+1)*(cells_x+1) = 6; along z: (cells_x+1)*(cells_y+1) = 6.
	if len(rec.Lines) != 16 {
		t.Fatalf("got %d grid lines, want 16", len(rec.Lines))
	}

	// Every line must span the full extent of exactly one axis.
	scale := v.Scale()
	for _, line := range rec.Lines {
		span := line.To.Sub(line.From)
		axes := 0
		for axis := 0; axis < 3; axis++ {
			if span[axis] != 0 {
				axes++
				if math.Abs(span[axis]-scale[axis]) > 1e-9 {
					t.Errorf("line %v spans %v on axis %d, want %v", line, span[axis], axis, scale[axis])
				}
			}
		}
		if axes != 1 {
			t.Errorf("line %v is not axis-aligned", line)
		}
	}
}

func TestSegmentsFlattenCircle(t *testing.T) {
	s := &Segments{}

	center := mgl64.Vec3{1, 2, 3}
	s.Circle(center, mgl64.Vec3{0, 0, 1}, 5, "#FFF")

	if len(s.Batch) != arcResolution {
		t.Fatalf("got %d segments, want %d", len(s.Batch), arcResolution)
	}

	// Every endpoint sits on the circle, and the loop closes.
	for _, seg := range s.Batch {
		p := mgl64.Vec3{seg.From[0], seg.From[1], seg.From[2]}
		if r := p.Sub(center).Len(); math.Abs(r-5) > 1e-9 {
			t.Errorf("segment endpoint %v at radius %v, want 5", p, r)
		}
	}
	first := s.Batch[0].From
	last := s.Batch[len(s.Batch)-1].To
	if first != last {
		t.Errorf("circle does not close: starts %v, ends %v", first, last)
	}
}

func TestSegmentsFlattenArcBetween(t *testing.T) {
	s := &Segments{}

	center := mgl64.Vec3{}
	from := mgl64.Vec3{5, 0, 0}
	to := mgl64.Vec3{0, 5, 0}
	s.ArcBetween(center, from, to, "#FFF")

	if len(s.Batch) == 0 {
		t.Fatal("no segments emitted")
	}
	start := s.Batch[0].From
	end := s.Batch[len(s.Batch)-1].To
	if !vecNear(mgl64.Vec3{start[0], start[1], start[2]}, from, 1e-9) {
		t.Errorf("arc starts at %v, want %v", start, from)
	}
	if !vecNear(mgl64.Vec3{end[0], end[1], end[2]}, to, 1e-9) {
		t.Errorf("arc ends at %v, want %v", end, to)
	}
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}
