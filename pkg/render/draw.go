package render

import (
	"github.com/caldway/playvolume/pkg/volume"
)

// DrawPortal draws a portal onto s. A portal fully inside its face is a
// single circle. When the disc overhangs one or more face edges, each
// overhang is drawn as a short connecting arc centered on the portal
// center folded onto the adjacent face, plus the main arc on the home
// face between the two crossing points.
func DrawPortal(v *volume.Volume, p volume.Portal, s Surface, c Color) {
	faces := v.Overextension(p)
	points := v.IntersectionPoints(p, faces)

	if len(points) == 0 {
		s.Circle(p.Position, p.Normal, p.Radius, c)
		return
	}

	for face, pts := range points {
		if len(pts) < 2 {
			continue
		}
		rotated := v.RotateToFace(p.Position, p.Normal, face)
		s.ArcBetween(rotated, pts[0], pts[1], c)

		arc := v.MainArc(p, pts[0], pts[1])
		s.Arc(arc.Center, arc.Axis, arc.Radius, arc.Start, arc.Sweep, c)
	}
}

// DrawGrid draws the volume's cell lattice as lines, outer edges
// included: for each axis, one line per lattice point of the other two
// axes, running the full extent of the volume.
func DrawGrid(v *volume.Volume, s Surface, c Color) {
	min := v.Min()
	scale := v.Scale()
	cells := v.CellCount

	for axis := 0; axis < 3; axis++ {
		b := (axis + 1) % 3
		d := (axis + 2) % 3

		stepB := scale[b] / float64(cells[b])
		stepD := scale[d] / float64(cells[d])

		for i := uint32(0); i <= cells[b]; i++ {
			for j := uint32(0); j <= cells[d]; j++ {
				from := min
				from[b] += float64(i) * stepB
				from[d] += float64(j) * stepD

				to := from
				to[axis] += scale[axis]

				s.Line(from, to, c)
			}
		}
	}
}

// DrawScene draws the volume grid and every active portal.
func DrawScene(v *volume.Volume, portals []volume.Portal, s Surface, gridColor, portalColor Color) {
	DrawGrid(v, s, gridColor)
	for _, p := range portals {
		DrawPortal(v, p, s, portalColor)
	}
}
