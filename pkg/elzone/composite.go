package elzone

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

// Pixel inset of the label baseline above its region's lower edge.
const labelInsetY = 25

// A Compositor assembles the four visual products into one labeled
// 2x2 diagnostic panel. Construct once; it holds only read-only
// state (canvas size, font face) so it's safe to share.
type Compositor struct {
	W, H       int
	Font       LabelFont
	Background color.RGBA
}

func NewCompositor(w, h int, lf LabelFont) *Compositor {
	return &Compositor{W: w, H: h, Font: lf, Background: color.RGBA{A: 0xff}}
}

// Compose lays out: top-left original, top-right zone map, bottom-left
// vector scope, bottom-right waveform. The top pair is scaled to fill
// quadrant width (height follows aspect ratio); the scopes are scaled
// to fit whatever height is left, centered and letterboxed.
func (c *Compositor)Compose(original, zoneMap, scope, wave image.Image) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: image.Point{c.W, c.H}})
	draw.Draw(out, out.Bounds(), &image.Uniform{c.Background}, image.Point{}, draw.Src)

	quadW := c.W / 2

	origTop := resize.Resize(uint(quadW), 0, original, resize.Lanczos3)
	zoneTop := resize.Resize(uint(quadW), 0, zoneMap, resize.Lanczos3)

	topHeight := minInt(origTop.Bounds().Dy(), c.H)
	bottomH := c.H - topHeight

	c.place(out, origTop, image.Rect(0, 0, quadW, topHeight))
	c.place(out, zoneTop, image.Rect(quadW, 0, c.W, topHeight))

	c.placeFitted(out, scope, image.Rect(0, topHeight, quadW, topHeight+bottomH))
	c.placeFitted(out, wave, image.Rect(quadW, topHeight, c.W, topHeight+bottomH))

	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(c.Font.Face()) // fresh face per render; see LabelFont
	dc.SetRGB(1, 1, 1)
	for _, l := range []struct {
		text string
		x, y int
	}{
		{"Original Log", 10, topHeight - labelInsetY},
		{"EL Zone System", quadW + 10, topHeight - labelInsetY},
		{"Vectorscope", 10, c.H - labelInsetY},
		{"Waveform", quadW + 10, c.H - labelInsetY},
	} {
		// DrawString wants a baseline; the inset positions the label's
		// top, the way the labels were originally placed.
		dc.DrawString(l.text, float64(l.x), float64(l.y+labelPointSize))
	}

	return out
}

// place copies img into region, clipping if the resized image runs
// past it.
func (c *Compositor)place(out *image.RGBA, img image.Image, region image.Rectangle) {
	draw.Draw(out, region, img, img.Bounds().Min, draw.Src)
}

// placeFitted scales img to fit inside region preserving aspect
// ratio, then centers it; the margins keep the panel background.
func (c *Compositor)placeFitted(out *image.RGBA, img image.Image, region image.Rectangle) {
	rw, rh := region.Dx(), region.Dy()
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if rw <= 0 || rh <= 0 || iw <= 0 || ih <= 0 {
		return
	}

	sx := float64(rw) / float64(iw)
	sy := float64(rh) / float64(ih)
	s := sx
	if sy < s {
		s = sy
	}

	newW := int(float64(iw) * s)
	newH := int(float64(ih) * s)
	if newW < 1 { newW = 1 }
	if newH < 1 { newH = 1 }

	fitted := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)

	off := image.Point{
		X: region.Min.X + (rw-newW)/2,
		Y: region.Min.Y + (rh-newH)/2,
	}
	draw.Draw(out, image.Rectangle{Min: off, Max: off.Add(image.Point{newW, newH})},
		fitted, fitted.Bounds().Min, draw.Src)
}
