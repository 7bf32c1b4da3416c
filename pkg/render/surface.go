// Package render defines the drawing surface the play volume geometry
// is drawn onto. Implementations (the test recorder, the segment
// flattener fed to the viewer) sit behind the Surface interface so the
// drawing code never knows how primitives reach the screen.
package render

import "github.com/go-gl/mathgl/mgl64"

// Color is a hex color string, e.g. "#93C5FD".
type Color string

// Surface is the abstract 3-D drawing surface.
type Surface interface {
	// Line draws a straight segment between two points.
	Line(from, to mgl64.Vec3, c Color)

	// Circle draws a full circle of the given radius around center, in
	// the plane perpendicular to normal.
	Circle(center, normal mgl64.Vec3, radius float64, c Color)

	// Arc draws a circular arc around center, starting at start (a
	// point on the arc) and sweeping sweep radians counterclockwise
	// around axis.
	Arc(center, axis mgl64.Vec3, radius float64, start mgl64.Vec3, sweep float64, c Color)

	// ArcBetween draws the minor arc centered at center running from
	// one point to the other. Both points are assumed equidistant from
	// center.
	ArcBetween(center, from, to mgl64.Vec3, c Color)
}
