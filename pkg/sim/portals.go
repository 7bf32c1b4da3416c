package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caldway/playvolume/pkg/volume"
)

// portalTracker maintains one visual portal per mover: the circle on
// the face the mover is about to exit through. Portals appear inside
// the approach distance, grow toward full size until the shrink
// distance, shrink again close to the wall, and vanish when the mover
// wraps or turns away.
type portalTracker struct {
	active map[uuid.UUID]*trackedPortal
}

type trackedPortal struct {
	portal volume.Portal
}

func newPortalTracker() *portalTracker {
	return &portalTracker{active: make(map[uuid.UUID]*trackedPortal)}
}

func (t *portalTracker) drop(id uuid.UUID) {
	delete(t.active, id)
}

func (t *portalTracker) portals() []volume.Portal {
	out := make([]volume.Portal, 0, len(t.active))
	for _, tp := range t.active {
		out = append(out, tp.portal)
	}
	return out
}

func (t *portalTracker) update(w *World) {
	for _, m := range w.movers {
		t.updateMover(w, m)
	}
}

func (t *portalTracker) updateMover(w *World, m *Mover) {
	if m.Teleporter.JustTeleported {
		// The wrap-out portal disappears the moment the mover
		// re-enters on the far side.
		t.drop(m.ID)
		return
	}

	exit, ok := w.vol.EdgePoint(m.Position, m.Velocity)
	if !ok {
		t.drop(m.ID)
		return
	}

	maxDist := w.vol.MaxMissileDistance()
	approach := w.cfg.DistanceApproach * maxDist
	shrink := w.cfg.DistanceShrink * maxDist

	distance := exit.Sub(m.Position).Len()
	if distance > approach {
		t.drop(m.ID)
		return
	}

	normal := w.vol.NormalForPosition(exit)
	target := t.targetRadius(w, m, distance, approach, shrink)

	cur, exists := t.active[m.ID]
	if exists && cur.portal.Normal == normal {
		// Same wall: smooth toward the new exit point unless the
		// direction swung past the change threshold, which reads as a
		// new wall point.
		toOld := cur.portal.Position.Sub(m.Position)
		toNew := exit.Sub(m.Position)
		if angleBetween(toOld, toNew) <= w.cfg.PortalDirectionChangeFactor {
			smooth := w.cfg.PortalMovementSmoothingFactor
			cur.portal.Position = cur.portal.Position.Add(exit.Sub(cur.portal.Position).Mul(smooth))
			cur.portal.Radius += (target - cur.portal.Radius) * smooth
			return
		}
	}

	t.active[m.ID] = &trackedPortal{
		portal: volume.Portal{
			Position: exit,
			Normal:   normal,
			Radius:   w.cfg.PortalSmallest,
		},
	}
	w.log.Debug("portal opened",
		zap.String("mover", m.ID.String()),
		zap.String("face", w.vol.FaceForPosition(exit).String()),
		zap.Float64("distance", distance))
}

// targetRadius ramps the portal from its minimum at the approach
// distance up to full size at the shrink distance, then back down as
// the mover closes the final stretch to the wall.
func (t *portalTracker) targetRadius(w *World, m *Mover, distance, approach, shrink float64) float64 {
	full := w.cfg.PortalScalar * m.Radius
	smallest := w.cfg.PortalSmallest
	if full < smallest {
		full = smallest
	}

	var ramp float64
	if distance > shrink {
		if approach > shrink {
			ramp = (approach - distance) / (approach - shrink)
		}
	} else if shrink > 0 {
		ramp = distance / shrink
	}
	return smallest + (full-smallest)*ramp
}

func angleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-12 || lb < 1e-12 {
		return 0
	}
	dot := a.Dot(b) / (la * lb)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot)
}
