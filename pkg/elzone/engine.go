package elzone

import (
	"fmt"
	"image"

	"github.com/skypies/util/histogram"
)

// An Engine turns one log-encoded frame into a four-quadrant
// diagnostic panel. All the expensive setup (zone table, font face,
// drawing capability) happens once in New; after that the engine is
// read-only, so a single instance can serve any number of concurrent
// Process calls, one frame per worker, no locking.
type Engine struct {
	cfg   Config
	curve LogCurve
	zones *ZoneTable
	scope *VectorScope
	wave  *Waveform
	comp  *Compositor
}

func New(cfg Config) (*Engine, error) {
	if cfg.CanvasWidth < 2 || cfg.CanvasHeight < 2 {
		return nil, fmt.Errorf("engine: bad canvas size %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.ScopeWidth < 2 || cfg.ScopeHeight < 2 {
		return nil, fmt.Errorf("engine: bad scope size %dx%d", cfg.ScopeWidth, cfg.ScopeHeight)
	}

	return &Engine{
		cfg:   cfg,
		curve: cfg.Curve(),
		zones: NewZoneTable(),
		scope: NewVectorScope(cfg.ScopeWidth, cfg.ScopeHeight, NewGraticuleDrawer(cfg.SimpleGraticule)),
		wave:  NewWaveform(cfg.ScopeWidth, cfg.ScopeHeight),
		comp:  NewCompositor(cfg.CanvasWidth, cfg.CanvasHeight, LoadLabelFont(cfg.FontPath)),
	}, nil
}

// Curve reports the curve the engine decodes with.
func (e *Engine)Curve() LogCurve { return e.curve }

// Zones exposes the precomputed zone table, mostly so callers and
// tests can ask about reference colors and boundaries.
func (e *Engine)Zones() *ZoneTable { return e.zones }

// Process renders the diagnostic panel for one frame. The zone map
// classifies decoded scene-linear light; both scopes read the log
// signal as recorded. Any failure, including a panic somewhere in
// rendering, is contained to this frame and returned as its error.
func (e *Engine)Process(f *Frame) (out *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("frame render failed: %v", r)
		}
	}()

	if f == nil || f.Dx() == 0 || f.Dy() == 0 {
		return nil, fmt.Errorf("frame render: empty frame")
	}

	linear := e.curve.DecodeFrame(f)

	var hist *histogram.Histogram
	if e.cfg.Verbosity > 0 {
		hist = &histogram.Histogram{NumBuckets: 17, ValMin: 0, ValMax: 17}
	}

	zoneMap := e.zones.Classify(linear, hist)
	if hist != nil {
		log.Debugf("zone distribution: %v", hist)
	}

	scope := e.scope.Render(f)
	wave := e.wave.Render(f)

	return e.comp.Compose(f, zoneMap, scope, wave), nil
}
