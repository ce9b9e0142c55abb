package elzone

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/mdouchement/hdr/hdrcolor"
)

func TestZoneTableContiguity(t *testing.T) {
	zt := NewZoneTable()

	for i, z := range zt {
		if z.Low >= z.High {
			t.Errorf("zone %d (%+.1f stops): low %v >= high %v", i, z.Stops, z.Low, z.High)
		}
		if i > 0 && zt[i-1].High != z.Low {
			t.Errorf("gap between zone %d and %d: %v != %v", i-1, i, zt[i-1].High, z.Low)
		}
	}

	// Outer zones run out to +/-20 stops, effectively unbounded
	if want := Gray18 * math.Pow(2, -20); zt[0].Low != want {
		t.Errorf("zone 0 low = %v, want %v", zt[0].Low, want)
	}
	if want := Gray18 * math.Pow(2, 20); zt[16].High != want {
		t.Errorf("zone 16 high = %v, want %v", zt[16].High, want)
	}
}

func TestZoneTableTotalCoverage(t *testing.T) {
	zt := NewZoneTable()
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 10000; n++ {
		// Log-uniform over far more than the covered range
		lum := math.Pow(2, rng.Float64()*60-30) * Gray18

		matches := 0
		for _, z := range zt {
			if lum >= z.Low && lum < z.High {
				matches++
			}
		}
		if lum >= zt[0].Low && lum < zt[16].High && matches != 1 {
			t.Fatalf("lum %v matched %d zones, want exactly 1", lum, matches)
		}

		// And the lookup always lands inside its own interval when in range
		z := zt.Lookup(lum)
		if lum >= zt[0].Low && lum < zt[16].High && (lum < z.Low || lum >= z.High) {
			t.Fatalf("Lookup(%v) returned zone [%v,%v)", lum, z.Low, z.High)
		}
	}
}

func TestMidGrayIsZoneZero(t *testing.T) {
	zt := NewZoneTable()

	z := zt.Lookup(Gray18)
	if z.Stops != 0 {
		t.Fatalf("Lookup(0.18) = %+.1f stops, want 0", z.Stops)
	}
	if want := displayColor([3]uint8{144, 140, 135}); z.Color != want {
		t.Errorf("zone 0 color = %v, want display-encoded [144,140,135] = %v", z.Color, want)
	}
}

func TestLogC4MidGrayClassifiesToZoneZero(t *testing.T) {
	zt := NewZoneTable()

	lin := CurveLogC4.Decode(CurveLogC4.MidGrayCode())
	if z := zt.Lookup(lin); z.Stops != 0 {
		t.Errorf("LogC4 mid-gray code decodes to %v, zone %+.1f, want zone 0", lin, z.Stops)
	}
}

func TestHalfStopBoundariesAroundZoneZero(t *testing.T) {
	zt := NewZoneTable()

	cases := []struct {
		lum  float64
		want float64 // stops
	}{
		{Gray18, 0},
		{Gray18 * math.Pow(2, 0.3), 0.5},
		{Gray18 * math.Pow(2, -0.3), -0.5},
		{Gray18 * 2, 1},
		{Gray18 / 2, -1},
		{Gray18 * math.Pow(2, 6.9), 7},
		{Gray18 * math.Pow(2, -6.9), -7},
		{0, -7},         // below the bottom boundary still classifies
		{1e6, 7},        // and way above the top
	}
	for _, c := range cases {
		if z := zt.Lookup(c.lum); z.Stops != c.want {
			t.Errorf("Lookup(%v) = %+.1f stops, want %+.1f", c.lum, z.Stops, c.want)
		}
	}
}

func TestClassifyUniformFrame(t *testing.T) {
	zt := NewZoneTable()

	f := NewFrame(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			f.SetRGB(x, y, hdrcolor.RGB{R: Gray18, G: Gray18, B: Gray18})
		}
	}

	zoneMap := zt.Classify(f, nil)
	if zoneMap.Bounds().Dx() != 8 || zoneMap.Bounds().Dy() != 6 {
		t.Fatalf("zone map bounds = %v, want 8x6", zoneMap.Bounds())
	}

	want := zt[8].Color // zone 0
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if got := zoneMap.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want zone 0 color %v", x, y, got, want)
			}
		}
	}
}

func TestClassifyUsesBT2020Luma(t *testing.T) {
	zt := NewZoneTable()

	// A green-only pixel carrying mid-gray luminance under BT.2020
	// weights: 0.6780 * g == 0.18
	f := NewFrame(1, 1)
	f.SetRGB(0, 0, hdrcolor.RGB{G: Gray18 / 0.6780})

	zoneMap := zt.Classify(f, nil)
	if got := zoneMap.RGBAAt(0, 0); got != zt[8].Color {
		t.Errorf("green mid-gray pixel = %v, want zone 0 color %v", got, zt[8].Color)
	}
}

func TestDisplayColorEncoding(t *testing.T) {
	// Pure white survives the EOTF round trip exactly
	if got := displayColor([3]uint8{255, 255, 255}); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("white = %v", got)
	}

	// The near-black zone color stays dark but non-degenerate
	got := displayColor([3]uint8{3, 3, 3})
	if got.R == 0 || got.R > 32 {
		t.Errorf("near-black came out as %v", got)
	}
	if got.R != got.G || got.G != got.B {
		t.Errorf("neutral input must stay neutral, got %v", got)
	}
}
