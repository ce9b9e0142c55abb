package elzone

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestComposeQuadrantGeometry(t *testing.T) {
	comp := NewCompositor(1920, 1080, LoadLabelFont(""))

	red := color.RGBA{200, 0, 0, 255}
	green := color.RGBA{0, 200, 0, 255}
	blue := color.RGBA{0, 0, 200, 255}
	white := color.RGBA{200, 200, 200, 255}

	// 16:9 inputs: fill-width resize puts topHeight at exactly 540
	out := comp.Compose(
		solidImage(192, 108, white),
		solidImage(192, 108, red),
		solidImage(480, 540, green),
		solidImage(480, 540, blue),
	)

	if got := out.Bounds(); got.Dx() != 1920 || got.Dy() != 1080 {
		t.Fatalf("output = %v, want 1920x1080", got)
	}

	near := func(a, b color.RGBA) bool {
		d := func(x, y uint8) int {
			n := int(x) - int(y)
			if n < 0 { n = -n }
			return n
		}
		return d(a.R, b.R) <= 2 && d(a.G, b.G) <= 2 && d(a.B, b.B) <= 2
	}

	// Quadrant interiors carry their sources
	if got := out.RGBAAt(480, 270); !near(got, white) {
		t.Errorf("top-left interior = %v, want original %v", got, white)
	}
	if got := out.RGBAAt(1440, 270); !near(got, red) {
		t.Errorf("top-right interior = %v, want zone map %v", got, red)
	}
	// Scopes (480x540) fit 960x540 regions at scale 1, centered at x+240
	if got := out.RGBAAt(480, 810); !near(got, green) {
		t.Errorf("bottom-left interior = %v, want scope %v", got, green)
	}
	if got := out.RGBAAt(1440, 810); !near(got, blue) {
		t.Errorf("bottom-right interior = %v, want waveform %v", got, blue)
	}

	// Letterbox margins keep the panel background
	for _, p := range []image.Point{{10, 810}, {950, 810}, {970, 810}, {1910, 810}} {
		if got := out.RGBAAt(p.X, p.Y); !near(got, color.RGBA{0, 0, 0, 255}) {
			t.Errorf("letterbox at %v = %v, want background", p, got)
		}
	}
}

func TestComposeTallOriginalLeavesNoBottomSpace(t *testing.T) {
	comp := NewCompositor(400, 300, LoadLabelFont(""))

	// A square original resized to quadrant width 200 gives topHeight
	// 200; the bottom strip is the remaining 100 rows
	out := comp.Compose(
		solidImage(100, 100, color.RGBA{90, 90, 90, 255}),
		solidImage(100, 100, color.RGBA{90, 0, 0, 255}),
		solidImage(480, 540, color.RGBA{0, 90, 0, 255}),
		solidImage(480, 540, color.RGBA{0, 0, 90, 255}),
	)

	if got := out.Bounds(); got.Dx() != 400 || got.Dy() != 300 {
		t.Fatalf("output = %v, want 400x300", got)
	}

	// Scope fits (200,100): scale = 100/540, so it occupies the
	// middle ~88 columns of the bottom-left region
	if got := out.RGBAAt(100, 250); got.G < 60 {
		t.Errorf("fitted scope missing from bottom strip, got %v", got)
	}
	if got := out.RGBAAt(5, 250); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("expected background left of fitted scope, got %v", got)
	}
}

func TestComposeLabelsWithinQuadrants(t *testing.T) {
	comp := NewCompositor(1920, 1080, LoadLabelFont(""))

	black := color.RGBA{0, 0, 0, 255}
	out := comp.Compose(
		solidImage(192, 108, black),
		solidImage(192, 108, black),
		solidImage(480, 540, black),
		solidImage(480, 540, black),
	)

	// White label glyphs near each region's lower edge, none leaking
	// across the quadrant split at x=960
	countWhite := func(r image.Rectangle) int {
		n := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := out.RGBAAt(x, y)
				if c.R > 200 && c.G > 200 && c.B > 200 {
					n++
				}
			}
		}
		return n
	}

	topH := 540
	bands := []image.Rectangle{
		image.Rect(0, topH-30, 960, topH),        // "Original Log"
		image.Rect(960, topH-30, 1920, topH),     // "EL Zone System"
		image.Rect(0, 1080-30, 960, 1080),        // "Vectorscope"
		image.Rect(960, 1080-30, 1920, 1080),     // "Waveform"
	}
	for i, band := range bands {
		if countWhite(band) == 0 {
			t.Errorf("label %d missing from its band %v", i, band)
		}
	}

	// Labels start 10px into their quadrant, so nothing paints within
	// the first few columns
	if countWhite(image.Rect(0, 0, 8, 1080)) != 0 {
		t.Errorf("label pixels leaked into the far-left margin")
	}
}
