package elzone

import (
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/stillgen/elscope/pkg/emath"
)

// A Frame is a grid of normalized RGB samples, each channel nominally
// in [0,1] (highlights may exceed 1). Depending on where it came
// from, the samples are either log-encoded code values or
// scene-linear light. Implements image.Image and hdr.Image.
//
// The engine never mutates a Frame it was handed; every transform
// allocates a fresh one.
type Frame struct {
	rect   image.Rectangle
	stride int
	pix    []hdrcolor.RGB
}

func NewFrame(w, h int) *Frame {
	return &Frame{
		rect:   image.Rectangle{Max: image.Point{w, h}},
		stride: w,
		pix:    make([]hdrcolor.RGB, w*h),
	}
}

// Implement image.Image
func (f *Frame)ColorModel() color.Model { return hdrcolor.RGBModel }
func (f *Frame)Bounds() image.Rectangle { return f.rect }
func (f *Frame)At(x, y int) color.Color { return f.RGBAt(x, y) }

// Implement hdr.Image
func (f *Frame)HDRAt(x, y int) hdrcolor.Color { return f.RGBAt(x, y) }
func (f *Frame)Size() int                     { return len(f.pix) }

func (f *Frame)Dx() int { return f.rect.Dx() }
func (f *Frame)Dy() int { return f.rect.Dy() }

func (f *Frame)RGBAt(x, y int) hdrcolor.RGB     { return f.pix[f.stride*y + x] }
func (f *Frame)SetRGB(x, y int, c hdrcolor.RGB) { f.pix[f.stride*y + x] = c }

// NewFrameFromImage normalizes any decoded raster into a Frame. HDR
// images keep their float values; LDR images map [0,0xFFFF] channels
// to [0,1]. Alpha is dropped, and single-channel images come out with
// the gray value replicated across R, G and B.
func NewFrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	if hdrImg, ok := img.(hdr.Image); ok {
		for y := 0; y < f.Dy(); y++ {
			for x := 0; x < f.Dx(); x++ {
				c := hdrcolor.RGBModel.Convert(hdrImg.HDRAt(b.Min.X+x, b.Min.Y+y)).(hdrcolor.RGB)
				f.SetRGB(x, y, c)
			}
		}
		return f
	}

	for y := 0; y < f.Dy(); y++ {
		for x := 0; x < f.Dx(); x++ {
			r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			f.SetRGB(x, y, hdrcolor.RGB{
				R: float64(r) / float64(0xFFFF),
				G: float64(g) / float64(0xFFFF),
				B: float64(bb) / float64(0xFFFF),
			})
		}
	}
	return f
}

// LumaPlane collapses the frame to a single weighted-luminance
// channel. Different consumers want different weight sets (the zone
// classifier is BT.2020, the waveform is Rec.709), so the weights are
// an argument.
func (f *Frame)LumaPlane(wr, wg, wb float64) emath.FloatGrid {
	fg := emath.NewFloatGrid(f.Dx(), f.Dy())
	for y := 0; y < f.Dy(); y++ {
		for x := 0; x < f.Dx(); x++ {
			c := f.RGBAt(x, y)
			fg.Set(x, y, c.R*wr + c.G*wg + c.B*wb)
		}
	}
	return fg
}
