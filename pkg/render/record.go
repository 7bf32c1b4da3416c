package render

import "github.com/go-gl/mathgl/mgl64"

// Recorder is a Surface that captures every draw call for inspection.
// Tests use it to assert on what the drawing code emitted.
type Recorder struct {
	Lines       []RecordedLine
	Circles     []RecordedCircle
	Arcs        []RecordedArc
	ArcBetweens []RecordedArcBetween
}

type RecordedLine struct {
	From, To mgl64.Vec3
	Color    Color
}

type RecordedCircle struct {
	Center, Normal mgl64.Vec3
	Radius         float64
	Color          Color
}

type RecordedArc struct {
	Center, Axis mgl64.Vec3
	Radius       float64
	Start        mgl64.Vec3
	Sweep        float64
	Color        Color
}

type RecordedArcBetween struct {
	Center, From, To mgl64.Vec3
	Color            Color
}

var _ Surface = (*Recorder)(nil)

func (r *Recorder) Line(from, to mgl64.Vec3, c Color) {
	r.Lines = append(r.Lines, RecordedLine{From: from, To: to, Color: c})
}

func (r *Recorder) Circle(center, normal mgl64.Vec3, radius float64, c Color) {
	r.Circles = append(r.Circles, RecordedCircle{Center: center, Normal: normal, Radius: radius, Color: c})
}

func (r *Recorder) Arc(center, axis mgl64.Vec3, radius float64, start mgl64.Vec3, sweep float64, c Color) {
	r.Arcs = append(r.Arcs, RecordedArc{Center: center, Axis: axis, Radius: radius, Start: start, Sweep: sweep, Color: c})
}

func (r *Recorder) ArcBetween(center, from, to mgl64.Vec3, c Color) {
	r.ArcBetweens = append(r.ArcBetweens, RecordedArcBetween{Center: center, From: from, To: to, Color: c})
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Lines = r.Lines[:0]
	r.Circles = r.Circles[:0]
	r.Arcs = r.Arcs[:0]
	r.ArcBetweens = r.ArcBetweens[:0]
}
