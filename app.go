package main

import (
	"context"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caldway/playvolume/pkg/config"
	"github.com/caldway/playvolume/pkg/engine"
	"github.com/caldway/playvolume/pkg/kernel"
	"github.com/caldway/playvolume/pkg/kernel/sdfx"
	"github.com/caldway/playvolume/pkg/meshing"
	"github.com/caldway/playvolume/pkg/render"
	"github.com/caldway/playvolume/pkg/sim"
)

// portalColor is the draw color for portal circles and seam arcs. The
// boundary grid color comes from the tuning config instead.
const portalColor = render.Color("#E67E22")

// App is the Wails backend. It owns the simulation world, the tuning
// config, and the Lisp console, and exposes methods to the frontend
// via bindings.
type App struct {
	ctx context.Context

	mu     sync.Mutex
	cfg    *config.Config
	world  *sim.World
	engine *engine.Engine
	kernel kernel.Kernel
	log    *zap.Logger
}

// FrameData is the per-frame payload sent to the frontend: flattened
// line segments plus portal and mover state.
type FrameData struct {
	Segments  []render.Segment `json:"segments"`
	Portals   []PortalData     `json:"portals"`
	Movers    []MoverData      `json:"movers"`
	Tick      uint64           `json:"tick"`
	LineWidth float64          `json:"lineWidth"`
}

// PortalData is a JSON-serializable open portal.
type PortalData struct {
	Position [3]float64 `json:"position"`
	Normal   [3]float64 `json:"normal"`
	Radius   float64    `json:"radius"`
}

// MoverData is a JSON-serializable mover snapshot.
type MoverData struct {
	ID             string     `json:"id"`
	Position       [3]float64 `json:"position"`
	JustTeleported bool       `json:"justTeleported"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the console result returned to the frontend.
type EvalResult struct {
	Output string          `json:"output"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates a new App with default tuning, an empty world, the
// Lisp console, and the sdfx kernel.
func NewApp(log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := config.Default()
	return &App{
		cfg:    cfg,
		world:  sim.NewWorld(cfg, log),
		engine: engine.New(cfg),
		kernel: sdfx.New(),
		log:    log,
	}
}

// startup is called by Wails on app startup. The context is saved so
// Wails runtime methods can be called later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Frame advances the simulation by dt seconds and returns the scene as
// a line-segment batch. The frontend drives this from its render loop.
func (a *App) Frame(dt float64) FrameData {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.world.Step(dt)

	portals := a.world.Portals()

	surface := &render.Segments{}
	render.DrawScene(a.world.Volume(), portals, surface, render.Color(a.cfg.Color), portalColor)

	frame := FrameData{
		Segments:  surface.Batch,
		Portals:   make([]PortalData, 0, len(portals)),
		Movers:    make([]MoverData, 0, len(a.world.Movers())),
		Tick:      a.world.Tick(),
		LineWidth: a.cfg.LineWidth,
	}
	for _, p := range portals {
		frame.Portals = append(frame.Portals, PortalData{
			Position: [3]float64(p.Position),
			Normal:   [3]float64(p.Normal),
			Radius:   p.Radius,
		})
	}
	for _, m := range a.world.Movers() {
		frame.Movers = append(frame.Movers, MoverData{
			ID:             m.ID.String(),
			Position:       [3]float64(m.Position),
			JustTeleported: m.Teleporter.JustTeleported,
		})
	}
	return frame
}

// Evaluate runs console Lisp source against the tuning config. Config
// edits take effect on the next Frame call.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{Errors: []EvalErrorData{}}

	res, err := a.engine.Eval(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("console eval failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	for _, e := range res.Errors {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	result.Output = res.Output
	return result
}

// LoadConfig replaces the tuning config from a YAML file. The new
// values take effect on the next Frame call. Returns an error string,
// empty on success.
func (a *App) LoadConfig(path string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		a.log.Error("config open failed", zap.String("path", path), zap.Error(err))
		return err.Error()
	}
	defer f.Close()

	loaded, err := config.LoadYAML(f)
	if err != nil {
		a.log.Error("config load failed", zap.String("path", path), zap.Error(err))
		return err.Error()
	}

	*a.cfg = *loaded
	a.log.Info("config loaded", zap.String("path", path))
	return ""
}

// Spawn adds a mover to the world and returns its ID.
func (a *App) Spawn(px, py, pz, vx, vy, vz, radius float64) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := a.world.Spawn(mgl64.Vec3{px, py, pz}, mgl64.Vec3{vx, vy, vz}, radius)
	return m.ID.String()
}

// Despawn removes a mover by ID. Unknown IDs are ignored.
func (a *App) Despawn(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	parsed, err := uuid.Parse(id)
	if err != nil {
		a.log.Warn("despawn with bad id", zap.String("id", id))
		return
	}
	a.world.Despawn(parsed)
}

// SceneMeshes returns solid meshes for the volume shell and every open
// portal, for the frontend's shaded view.
func (a *App) SceneMeshes() []MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()

	meshes, err := meshing.Scene(a.kernel, a.world.Volume(), a.world.Portals())
	if err != nil {
		a.log.Error("scene meshing failed", zap.Error(err))
		return []MeshData{}
	}

	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		color := a.cfg.Color
		if m.Name == "portal" {
			color = string(portalColor)
		}
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    color,
		})
	}
	return out
}
