package elzone

import (
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

const labelPointSize = 12

var fontWarning sync.Once

// A LabelFont wraps the parsed label typeface. The parsed font is
// immutable, but truetype faces carry rasterizer caches, so each
// render mints its own face via Face().
type LabelFont struct {
	tt *truetype.Font
}

// LoadLabelFont picks the monospace typeface used for quadrant
// labels. A configured TTF path wins; otherwise the embedded Go Mono
// font is used, and if even that fails to parse we degrade to the
// fixed 7x13 bitmap face. Never fatal.
func LoadLabelFont(path string) LabelFont {
	if path != "" {
		if b, err := os.ReadFile(path); err != nil {
			fontWarning.Do(func() { log.Warnf("label font %s: %v, using built-in face", path, err) })
		} else if f, err := truetype.Parse(b); err != nil {
			fontWarning.Do(func() { log.Warnf("label font %s: %v, using built-in face", path, err) })
		} else {
			return LabelFont{tt: f}
		}
	}

	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		fontWarning.Do(func() { log.Warnf("built-in Go Mono face unusable: %v, using bitmap face", err) })
		return LabelFont{}
	}
	return LabelFont{tt: f}
}

func (lf LabelFont)Face() font.Face {
	if lf.tt == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(lf.tt, &truetype.Options{Size: labelPointSize})
}
