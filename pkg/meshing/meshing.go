// Package meshing produces triangle meshes for the viewer using a
// geometry kernel. The play volume becomes a box shell and each open
// portal becomes a thin disc oriented along its face normal.
package meshing

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/caldway/playvolume/pkg/kernel"
	"github.com/caldway/playvolume/pkg/volume"
)

// discThickness is the extrusion depth of a portal disc. Thin enough to
// read as a flat opening against the volume walls.
const discThickness = 1.0

// VolumeShell meshes the play volume as a box centered on the volume.
func VolumeShell(k kernel.Kernel, v *volume.Volume) (*kernel.Mesh, error) {
	scale := v.Scale()
	solid := k.Box(scale[0], scale[1], scale[2])
	solid = k.Translate(solid, v.Center[0], v.Center[1], v.Center[2])

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("meshing: volume shell: %w", err)
	}
	mesh.Name = "volume"
	return mesh, nil
}

// PortalDisc meshes one portal as a thin cylinder rotated so its axis
// follows the portal normal and translated onto the portal position.
func PortalDisc(k kernel.Kernel, p volume.Portal) (*kernel.Mesh, error) {
	solid := k.Cylinder(discThickness, p.Radius, 64)

	rx, ry := eulerFromNormal(p.Normal)
	if rx != 0 || ry != 0 {
		solid = k.Rotate(solid, rx, ry, 0)
	}
	solid = k.Translate(solid, p.Position[0], p.Position[1], p.Position[2])

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("meshing: portal disc: %w", err)
	}
	mesh.Name = "portal"
	return mesh, nil
}

// Scene meshes the volume shell plus every open portal.
func Scene(k kernel.Kernel, v *volume.Volume, portals []volume.Portal) ([]*kernel.Mesh, error) {
	shell, err := VolumeShell(k, v)
	if err != nil {
		return nil, err
	}

	meshes := []*kernel.Mesh{shell}
	for _, p := range portals {
		disc, err := PortalDisc(k, p)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, disc)
	}
	return meshes, nil
}

// eulerFromNormal returns X and Y rotation angles in degrees that carry
// the +Z axis onto the given unit normal. The kernel applies X before Y.
func eulerFromNormal(n mgl64.Vec3) (rx, ry float64) {
	const deg = 180.0 / math.Pi

	// The poles have no defined yaw; pitch alone covers them.
	if n.Y() > 1-1e-9 {
		return -90, 0
	}
	if n.Y() < -(1 - 1e-9) {
		return 90, 0
	}

	rx = -math.Asin(n.Y()) * deg
	ry = math.Atan2(n.X(), n.Z()) * deg
	return rx, ry
}
