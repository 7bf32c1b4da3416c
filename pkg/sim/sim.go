// Package sim steps the play volume world: it owns the movable
// entities, wraps them across the volume boundary once per tick, and
// maintains the visual portals that appear where a mover is about to
// cross a face.
package sim

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caldway/playvolume/pkg/config"
	"github.com/caldway/playvolume/pkg/volume"
)

// Teleporter is a mover's transient wrap state, overwritten every tick.
// JustTeleported holds for exactly one tick after a wrap.
type Teleporter struct {
	JustTeleported bool
	LastPosition   *mgl64.Vec3
	LastNormal     *mgl64.Vec3
}

// Mover is a movable entity (ship, missile) subject to wraparound.
type Mover struct {
	ID         uuid.UUID
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Radius     float64
	Teleporter Teleporter
}

// World owns the volume, the movers and the active portals. It is
// single-threaded and frame-stepped: all mutation happens inside Step,
// configuration edits between ticks are picked up at the start of the
// next one.
type World struct {
	cfg     *config.Config
	vol     *volume.Volume
	movers  []*Mover
	portals *portalTracker
	log     *zap.Logger
	tick    uint64
}

// NewWorld builds a world centered at the origin from the given
// tuning. A nil logger keeps the world silent.
func NewWorld(cfg *config.Config, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	vol := volume.New(mgl64.Vec3{}, cfg.CellCount, cfg.Scalar)
	vol.SetLogger(log)
	return &World{
		cfg:     cfg,
		vol:     vol,
		portals: newPortalTracker(),
		log:     log,
	}
}

// Volume returns the world's play volume.
func (w *World) Volume() *volume.Volume { return w.vol }

// Movers returns the owned mover collection.
func (w *World) Movers() []*Mover { return w.movers }

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 { return w.tick }

// Spawn adds a mover and returns it.
func (w *World) Spawn(position, velocity mgl64.Vec3, radius float64) *Mover {
	m := &Mover{
		ID:       uuid.New(),
		Position: position,
		Velocity: velocity,
		Radius:   radius,
	}
	w.movers = append(w.movers, m)
	w.log.Debug("mover spawned", zap.String("id", m.ID.String()))
	return m
}

// Despawn removes a mover and its portal.
func (w *World) Despawn(id uuid.UUID) {
	for i, m := range w.movers {
		if m.ID == id {
			w.movers = append(w.movers[:i], w.movers[i+1:]...)
			break
		}
	}
	w.portals.drop(id)
}

// Step advances the world by dt seconds: configuration is applied to
// the volume, movers integrate and wrap, portals update.
func (w *World) Step(dt float64) {
	// Live tuning edits take effect here, once per tick, before any
	// geometry query reads the extents.
	w.vol.Reconfigure(w.cfg.Scalar, w.cfg.CellCount)

	for _, m := range w.movers {
		m.Position = m.Position.Add(m.Velocity.Mul(dt))

		wrapped := w.vol.WrapPosition(m.Position)
		if wrapped != m.Position {
			normal := w.vol.NormalForPosition(wrapped)
			m.Position = wrapped
			m.Teleporter = Teleporter{
				JustTeleported: true,
				LastPosition:   &wrapped,
				LastNormal:     &normal,
			}
			w.log.Debug("mover wrapped",
				zap.String("id", m.ID.String()),
				zap.Float64s("position", wrapped[:]),
				zap.Float64s("normal", normal[:]))
		} else {
			m.Teleporter = Teleporter{}
		}
	}

	w.portals.update(w)
	w.tick++
}

// Portals returns the currently visible portals.
func (w *World) Portals() []volume.Portal {
	return w.portals.portals()
}

// Run steps the world on a fixed tick until the context is canceled.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Step(dt)
		}
	}
}
