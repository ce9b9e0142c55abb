package elzone

import (
	"math"
	"strings"
	"sync"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/stillgen/elscope/pkg/logger"
)

var log = logger.Log

// A LogCurve identifies the camera transfer function that encoded a
// frame's samples, and knows how to decode a code value back to
// scene-linear light (0.18 == nominal mid-gray exposure).
type LogCurve int

const (
	CurveLinear LogCurve = iota // samples are already scene-linear
	CurveLogC4
	CurveSLog3
	CurveAppleLog
	CurveRedLog3
	CurveGenericLog // coarse exponential guess, used when nothing better is known
)

func (c LogCurve)String() string {
	switch c {
	case CurveLinear:   return "linear"
	case CurveLogC4:    return "logc4"
	case CurveSLog3:    return "slog3"
	case CurveAppleLog: return "applelog"
	case CurveRedLog3:  return "redlog3"
	}
	return "genericlog"
}

var unknownCurveWarning sync.Once

// ParseLogCurve maps a config string to a curve. An unrecognized name
// is never fatal; it degrades to the generic curve, warning once per
// process.
func ParseLogCurve(name string) LogCurve {
	switch strings.ToLower(name) {
	case "linear":               return CurveLinear
	case "logc4":                return CurveLogC4
	case "slog3":                return CurveSLog3
	case "applelog", "apple_log": return CurveAppleLog
	case "redlog3":              return CurveRedLog3
	case "genericlog":           return CurveGenericLog
	}
	unknownCurveWarning.Do(func() {
		log.Warnf("log format %q not supported, using generic fallback curve", name)
	})
	return CurveGenericLog
}

// CurveForCamera guesses a curve from an EXIF camera make. Used when
// the config doesn't pin one down.
func CurveForCamera(make string) (LogCurve, bool) {
	make = strings.ToLower(make)
	switch {
	case strings.Contains(make, "arri"):  return CurveLogC4, true
	case strings.Contains(make, "sony"):  return CurveSLog3, true
	case strings.Contains(make, "apple"): return CurveAppleLog, true
	case strings.Contains(make, "red"):   return CurveRedLog3, true
	}
	return CurveGenericLog, false
}

// ARRI LogC4 constants, from the published ARRI specification.
const (
	logc4A = 0.0647954196341293
	logc4B = 0.0799017958419154
	logc4C = 0.0851858618842153
	logc4D = 0.0562935137369496
)

// The code value where the LogC4 exponential term crosses zero. We
// branch to the linear toe there rather than at logc4C, which sits
// above the crossing and would clip mid-gray code values into the toe.
var logc4Cut = logc4D + logc4A*math.Log10(logc4B/logc4A)

// Sony S-Log3 breakpoint, in 10-bit code values.
const slog3Cut = 171.2102946929

// Decode maps one code value to scene-linear light. Pure and
// pointwise.
func (c LogCurve)Decode(v float64) float64 {
	switch c {

	case CurveLinear:
		return v

	case CurveLogC4:
		var lin float64
		if v > logc4Cut {
			lin = math.Pow(10, (v-logc4D)/logc4A) - logc4B/logc4A
		} else {
			lin = (v - logc4C) / logc4B
		}
		if lin < 0 { lin = 0 }
		return lin

	case CurveSLog3:
		if v >= slog3Cut/1023.0 {
			return math.Pow(10, (v*1023.0-420.0)/261.5) * (0.18 + 0.01) - 0.01
		}
		return (v*1023.0 - 95.0) * 0.01125 / (slog3Cut - 95.0)

	case CurveAppleLog:
		return math.Pow(10, (v-0.3584)/0.2471)

	case CurveRedLog3:
		if v < 0.01 {
			return v * 0.224282
		}
		lin := math.Pow(10, (v*1023.0-685.0)/300.0) / 1023.0
		if lin < 0 { lin = 0 }
		return lin
	}

	return math.Pow(2, (v-0.5)*14.0)
}

// MidGrayCode returns the code value this curve records nominal
// mid-gray exposure (0.18 linear) at. For RedLog3 the approximation
// runs out of range, so the generic curve's anchor is reported.
func (c LogCurve)MidGrayCode() float64 {
	switch c {
	case CurveLinear:
		return Gray18
	case CurveLogC4:
		return logc4D + logc4A*math.Log10(Gray18+logc4B/logc4A)
	case CurveSLog3:
		return (420.0 + math.Log10((Gray18+0.01)/0.19)*261.5) / 1023.0
	case CurveAppleLog:
		return 0.3584 + 0.2471*math.Log10(Gray18)
	}
	return 0.5 + math.Log2(Gray18)/14.0
}

// DecodeFrame decodes every sample of a log frame to scene-linear.
// The identity curve hands the input frame straight back; callers
// treat the result as read-only either way.
func (c LogCurve)DecodeFrame(f *Frame) *Frame {
	if c == CurveLinear {
		return f
	}

	lin := NewFrame(f.Dx(), f.Dy())
	for y := 0; y < f.Dy(); y++ {
		for x := 0; x < f.Dx(); x++ {
			s := f.RGBAt(x, y)
			lin.SetRGB(x, y, hdrcolor.RGB{
				R: c.Decode(s.R),
				G: c.Decode(s.G),
				B: c.Decode(s.B),
			})
		}
	}
	return lin
}
