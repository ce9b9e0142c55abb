package elzone

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/mdouchement/hdr/codec/rgbe"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"
)

// LoadFrame decodes a still from disk into a Frame. JPEG, PNG, TIFF
// and Radiance HDR are recognized. The samples come back exactly as
// stored; whether they're log code values or linear light is the
// caller's business (see DetectCurve).
func LoadFrame(filename string) (*Frame, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %v", filename, err)
	}

	return NewFrameFromImage(img), nil
}

// DetectCurve sniffs the file's EXIF camera make and guesses which
// log curve the frame was recorded with. Files with no usable EXIF
// (PNGs, scope renders, etc.) just report false; the caller falls
// back to its configured default.
func DetectCurve(filename string) (LogCurve, bool) {
	reader, err := os.Open(filename)
	if err != nil {
		return CurveGenericLog, false
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return CurveGenericLog, false
	}

	tag, err := ex.Get(exif.Make)
	if err != nil {
		return CurveGenericLog, false
	}
	make, err := tag.StringVal()
	if err != nil {
		return CurveGenericLog, false
	}

	return CurveForCamera(make)
}
