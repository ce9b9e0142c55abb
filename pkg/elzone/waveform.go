package elzone

import (
	"image"

	"gonum.org/v1/gonum/floats"

	"github.com/stillgen/elscope/pkg/emath"
)

// Vertical margin reserved above the 100% line and below the 0% line.
const waveMargin = 20

// About this many rows sampled per column, whatever the frame height.
const waveRowSamples = 200

// A Waveform rasterizes per-column luminance of a log-domain frame
// into a scope canvas with an IRE grid.
type Waveform struct {
	W, H int
}

func NewWaveform(w, h int) *Waveform {
	return &Waveform{W: w, H: h}
}

// Render plots one trace column per canvas column. Like the vector
// scope it reads the recorded log signal, so the trace shows code
// levels, not linear light.
func (wf *Waveform)Render(logFrame *Frame) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: image.Point{wf.W, wf.H}})

	// Grid first; the trace accumulates over it, so a trace sitting
	// exactly on a reference line still reads as a trace.
	wf.drawGrid(out)

	lum := logFrame.LumaPlane(0.2126, 0.7152, 0.0722) // Rec.709
	span := float64(wf.H - 2*waveMargin)

	// One source column per canvas column, spanning the frame width
	xs := make([]float64, wf.W)
	floats.Span(xs, 0, float64(logFrame.Dx()-1))

	yStep := maxInt(1, logFrame.Dy()/waveRowSamples)

	for outX := 0; outX < wf.W; outX++ {
		imgX := int(xs[outX])
		for imgY := 0; imgY < logFrame.Dy(); imgY += yStep {
			l := emath.Clamp01(lum.Get(imgX, imgY))
			y := clampInt(int((1-l)*span)+waveMargin, 0, wf.H-1)
			addRGB(out, outX, y, 16, 80, 16) // waveform green
		}
	}

	return out
}

// drawGrid paints the IRE reference lines: 0-100% in
// 25% steps, brighter 2px bands at the 0%/100% limits, the 18%-gray
// card line, and timing ticks every eighth of the width.
func (wf *Waveform)drawGrid(out *image.RGBA) {
	span := float64(wf.H - 2*waveMargin)

	for _, pct := range []float64{0, 25, 50, 75, 100} {
		y := int(span*(1-pct/100)) + waveMargin
		wf.hline(out, y, 48)
	}

	for i := 1; i < 8; i++ {
		x := wf.W * i / 8
		for y := 0; y < wf.H; y++ {
			setRGB(out, x, y, 32, 32, 32)
		}
	}

	// 100% white level
	wf.hline(out, waveMargin, 160)
	wf.hline(out, waveMargin+1, 160)

	// 75% and 50% references
	wf.hline(out, int(span*0.25)+waveMargin, 96)
	wf.hline(out, int(span*0.50)+waveMargin, 96)

	// 18% gray card
	wf.hline(out, int(span*0.82)+waveMargin, 80)

	// 0% black level
	wf.hline(out, wf.H-waveMargin-2, 160)
	wf.hline(out, wf.H-waveMargin-1, 160)
}

func (wf *Waveform)hline(out *image.RGBA, y, gray int) {
	if y < 0 || y >= wf.H {
		return
	}
	for x := 0; x < wf.W; x++ {
		setRGB(out, x, y, gray, gray, gray)
	}
}
