package elzone

import (
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"

	"github.com/stillgen/elscope/pkg/emath"
)

// How coarsely the frame is subsampled for the scope: about this many
// samples along each axis, whatever the frame resolution.
const scopeSampleGrid = 50

// Luma floor below which a sample is considered noise and not plotted.
const scopeNoiseFloor = 0.01

// Per-channel intensity added for each sample landing on a canvas
// pixel; overlapping samples build up density.
const scopeDotGain = 80

// A GraticuleDrawer renders the reference markings over a vector
// scope canvas. It's an interface so the full drawing stack can be
// swapped for a guaranteed-available fallback without touching the
// scope data path.
type GraticuleDrawer interface {
	DrawGraticule(img *image.RGBA, cx, cy int, scale float64)
}

var simpleGraticuleWarning sync.Once

// NewGraticuleDrawer picks the drawing capability once, at
// construction. The simple drawer degrades graticule fidelity only;
// the plotted chroma density is identical.
func NewGraticuleDrawer(simple bool) GraticuleDrawer {
	if simple {
		simpleGraticuleWarning.Do(func() {
			log.Warnf("full graticule drawing disabled, using crosshair fallback")
		})
		return simpleGraticule{}
	}
	return ggGraticule{}
}

// A VectorScope rasterizes the chroma distribution of a log-domain
// frame into a polar density plot with graticule.
type VectorScope struct {
	W, H   int
	Drawer GraticuleDrawer
}

func NewVectorScope(w, h int, drawer GraticuleDrawer) *VectorScope {
	return &VectorScope{W: w, H: h, Drawer: drawer}
}

// Render plots the frame's chroma onto a fresh canvas. The scope
// reads the recorded log signal directly, not decoded linear light;
// that's what a hardware scope wired to the camera would see.
func (vs *VectorScope)Render(logFrame *Frame) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: image.Point{vs.W, vs.H}})

	cx, cy := vs.W/2, vs.H/2
	scale := float64(minInt(vs.W, vs.H) / 3)

	xStep := maxInt(1, logFrame.Dx()/scopeSampleGrid)
	yStep := maxInt(1, logFrame.Dy()/scopeSampleGrid)

	for iy := 0; iy < logFrame.Dy(); iy += yStep {
		for ix := 0; ix < logFrame.Dx(); ix += xStep {
			c := logFrame.RGBAt(ix, iy)

			// Broadcast-television YUV, straight off the log RGB
			y := 0.299*c.R + 0.587*c.G + 0.114*c.B
			u := -0.14713*c.R - 0.28886*c.G + 0.436*c.B
			v := 0.615*c.R - 0.51499*c.G - 0.10001*c.B

			if y <= scopeNoiseFloor {
				continue
			}

			px := clampInt(cx+int(v*scale), 0, vs.W-1)
			py := clampInt(cy-int(u*scale), 0, vs.H-1)
			addRGB(out, px, py, scopeDotGain, scopeDotGain, scopeDotGain)
		}
	}

	vs.Drawer.DrawGraticule(out, cx, cy, scale)
	return out
}

// addRGB additively tints one canvas pixel, clamping at display max.
func addRGB(img *image.RGBA, x, y, dr, dg, db int) {
	o := img.PixOffset(x, y)
	img.Pix[o+0] = emath.ClampU8(int(img.Pix[o+0]) + dr)
	img.Pix[o+1] = emath.ClampU8(int(img.Pix[o+1]) + dg)
	img.Pix[o+2] = emath.ClampU8(int(img.Pix[o+2]) + db)
	img.Pix[o+3] = 0xff
}

// The six primary/secondary targets, at their standard hue angles.
var scopeTargets = []struct {
	angleDeg float64
	r, g, b  int
}{
	{0, 255, 0, 0},     // red
	{120, 255, 255, 0}, // yellow
	{240, 0, 255, 0},   // green
	{180, 0, 255, 255}, // cyan
	{300, 0, 0, 255},   // blue
	{60, 255, 0, 255},  // magenta
}

type ggGraticule struct{}

func (ggGraticule)DrawGraticule(img *image.RGBA, cx, cy int, scale float64) {
	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(1)

	// 75% and 100% saturation circles
	dc.SetRGB255(64, 64, 64)
	dc.DrawCircle(float64(cx), float64(cy), scale*0.75)
	dc.Stroke()
	dc.DrawCircle(float64(cx), float64(cy), scale)
	dc.Stroke()

	// I (skin tone) and Q reference axes
	dc.SetRGB255(96, 96, 96)
	for _, deg := range []float64{33, 123} {
		rad := gg.Radians(deg)
		dx, dy := scale*math.Cos(rad), scale*math.Sin(rad)
		dc.DrawLine(float64(cx)-dx, float64(cy)-dy, float64(cx)+dx, float64(cy)+dy)
		dc.Stroke()
	}

	for _, t := range scopeTargets {
		rad := gg.Radians(t.angleDeg - 90) // hue angle 0 points up on the display
		tx := float64(cx) + scale*0.75*math.Cos(rad)
		ty := float64(cy) + scale*0.75*math.Sin(rad)

		dc.SetRGB255(t.r, t.g, t.b)
		dc.DrawCircle(tx, ty, 3)
		dc.Fill()
		dc.SetRGB255(128, 128, 128)
		dc.DrawCircle(tx, ty, 4)
		dc.Stroke()
	}
}

type simpleGraticule struct{}

// The fallback: a crosshair plus coarse polygonal circles, nothing
// that needs a line rasterizer.
func (simpleGraticule)DrawGraticule(img *image.RGBA, cx, cy int, scale float64) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		setRGB(img, x, cy, 64, 64, 64)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		setRGB(img, cx, y, 64, 64, 64)
	}

	for _, r := range []float64{scale * 0.75, scale} {
		for deg := 0; deg < 360; deg += 5 {
			rad := float64(deg) * math.Pi / 180.0
			x := cx + int(r*math.Cos(rad))
			y := cy + int(r*math.Sin(rad))
			if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
				setRGB(img, x, y, 64, 64, 64)
			}
		}
	}
}

func setRGB(img *image.RGBA, x, y, r, g, b int) {
	o := img.PixOffset(x, y)
	img.Pix[o+0] = uint8(r)
	img.Pix[o+1] = uint8(g)
	img.Pix[o+2] = uint8(b)
	img.Pix[o+3] = 0xff
}

func minInt(a, b int) int {
	if a < b { return a }
	return b
}

func maxInt(a, b int) int {
	if a > b { return a }
	return b
}

func clampInt(n, lo, hi int) int {
	if n < lo { return lo }
	if n > hi { return hi }
	return n
}
