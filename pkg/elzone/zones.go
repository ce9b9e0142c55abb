package elzone

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/skypies/util/histogram"
)

// 18% gray in scene-linear light; zone boundaries are stops relative to this.
const Gray18 = 0.18

// The 17 EL Zones, in stops relative to mid-gray. Half stops only
// around zone 0, where exposure judgement is finest.
var zoneStops = [17]float64{-7, -6, -5, -4, -3, -2, -1, -0.5, 0, 0.5, 1, 2, 3, 4, 5, 6, 7}

// The EL Zone reference palette, 8-bit sRGB-encoded.
var zonePalette8 = [17][3]uint8{
	{3, 3, 3},       // -7   near black
	{98, 71, 155},   // -6   dark purple
	{158, 126, 184}, // -5   purple
	{24, 116, 167},  // -4   dark blue
	{39, 174, 228},  // -3   blue
	{27, 168, 75},   // -2   dark green
	{93, 187, 71},   // -1   green
	{148, 200, 64},  // -0.5 light green
	{144, 140, 135}, //  0   18% gray
	{251, 232, 0},   // +0.5 yellow
	{255, 248, 166}, // +1   light yellow
	{244, 112, 42},  // +2   orange
	{247, 170, 71},  // +3   light orange
	{239, 28, 38},   // +4   red
	{229, 126, 140}, // +5   pink
	{243, 190, 192}, // +6   light pink
	{255, 255, 255}, // +7   white
}

// A Zone is one exposure band: a half-open scene-linear luminance
// interval [Low, High) and the false color it displays as.
type Zone struct {
	Stops     float64
	Low, High float64
	Color     color.RGBA
}

// A ZoneTable is the ordered set of 17 zones. Boundaries are
// contiguous and strictly increasing, and the outer zones run out to
// +/-20 stops so every finite luminance lands somewhere. Build one
// with NewZoneTable and treat it as read-only; a single table is safe
// to share across concurrent frame renders.
type ZoneTable [17]Zone

func NewZoneTable() *ZoneTable {
	zt := ZoneTable{}
	n := len(zoneStops)

	for i, stops := range zoneStops {
		lowStops, highStops := -20.0, 20.0
		if i > 0 {
			lowStops = stops - (stops-zoneStops[i-1])/2
		}
		if i < n-1 {
			highStops = stops + (zoneStops[i+1]-stops)/2
		}

		zt[i] = Zone{
			Stops: stops,
			Low:   Gray18 * math.Pow(2, lowStops),
			High:  Gray18 * math.Pow(2, highStops),
			Color: displayColor(zonePalette8[i]),
		}
	}

	// Force exact contiguity; recomputing the same midpoint twice can
	// differ in the last ulp.
	for i := 1; i < n; i++ {
		zt[i].Low = zt[i-1].High
	}

	return &zt
}

// displayColor decodes an 8-bit sRGB reference color to linear light,
// then re-encodes with a plain 1/2.4 power for display.
func displayColor(ref [3]uint8) color.RGBA {
	c := colorful.Color{
		R: float64(ref[0]) / 255.0,
		G: float64(ref[1]) / 255.0,
		B: float64(ref[2]) / 255.0,
	}
	lr, lg, lb := c.LinearRgb()

	enc := func(lin float64) uint8 {
		return uint8(math.Round(math.Pow(lin, 1/2.4) * 255.0))
	}
	return color.RGBA{R: enc(lr), G: enc(lg), B: enc(lb), A: 0xff}
}

// index returns which zone's [Low, High) interval holds lum. The
// intervals tile the line, so a plain scan always hits exactly one;
// anything below the first Low is floored into zone 0.
func (zt *ZoneTable)index(lum float64) int {
	for i := range zt {
		if lum < zt[i].High {
			return i
		}
	}
	return len(zt) - 1
}

func (zt *ZoneTable)Lookup(lum float64) Zone { return zt[zt.index(lum)] }

// Classify maps every pixel of a scene-linear frame to its zone's
// display color. Luminance uses the wide-gamut BT.2020 weights. When
// hist is non-nil it accumulates a zone-hit count per pixel, for
// debug reporting.
func (zt *ZoneTable)Classify(linear *Frame, hist *histogram.Histogram) *image.RGBA {
	lum := linear.LumaPlane(0.2627, 0.6780, 0.0593)

	out := image.NewRGBA(image.Rectangle{Max: image.Point{linear.Dx(), linear.Dy()}})
	for y := 0; y < linear.Dy(); y++ {
		for x := 0; x < linear.Dx(); x++ {
			i := zt.index(lum.Get(x, y))
			out.SetRGBA(x, y, zt[i].Color)
			if hist != nil {
				hist.Add(histogram.ScalarVal(i))
			}
		}
	}
	return out
}
