package elzone

import (
	"gopkg.in/yaml.v2"
)

type Config struct {
	Verbosity int

	// Which camera curve the input frames were recorded with. Empty
	// means "work it out from EXIF, or fall back to logc4".
	LogFormat string

	// Final diagnostic panel dimensions
	CanvasWidth  int
	CanvasHeight int

	// Scope canvases are rendered at this size, then scaled into
	// their quadrants
	ScopeWidth  int
	ScopeHeight int

	// Optional TTF for the quadrant labels; empty uses the built-in
	// monospace face
	FontPath string

	// Force the minimal crosshair graticule instead of the full
	// drawing stack
	SimpleGraticule bool

	JPEGQuality int
}

func NewConfig() Config {
	return Config{
		LogFormat:    "logc4",
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		ScopeWidth:   480,
		ScopeHeight:  540,
		JPEGQuality:  95,
	}
}

func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Errorf("can't marshal config yaml: %v", err)
		return ""
	}
	return string(b)
}

func (c Config)Curve() LogCurve {
	if c.LogFormat == "" {
		return CurveLogC4
	}
	return ParseLogCurve(c.LogFormat)
}
