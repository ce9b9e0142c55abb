package main

import (
	"flag"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/schollz/progressbar/v3"

	"github.com/stillgen/elscope/pkg/elzone"
	"github.com/stillgen/elscope/pkg/logger"
)

var log = logger.Log

var (
	fVerbosity   int
	fLogFormat   string
	fOutputDir   string
	fWidth       int
	fHeight      int
	fWorkers     int
	fResume      bool
	fSimpleGrat  bool
	fFontPath    string
	fJPEGQuality int
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fLogFormat, "logformat", "", "log curve of the input frames (logc4, slog3, applelog, redlog3, linear); empty = sniff EXIF")
	flag.StringVar(&fOutputDir, "out", ".", "directory for the diagnostic JPEGs")
	flag.IntVar(&fWidth, "width", 1920, "diagnostic panel width")
	flag.IntVar(&fHeight, "height", 1080, "diagnostic panel height")
	flag.IntVar(&fWorkers, "workers", 4, "how many frames to render in parallel")
	flag.BoolVar(&fResume, "resume", false, "skip frames whose output already exists")
	flag.BoolVar(&fSimpleGrat, "simplegraticule", false, "use the crosshair scope graticule")
	flag.StringVar(&fFontPath, "font", "", "TTF for the quadrant labels (default: built-in monospace)")
	flag.IntVar(&fJPEGQuality, "quality", 95, "output JPEG quality")
	flag.Parse()

	log.Printf("elscope starting")
}

func main() {
	cfg := elzone.NewConfig()
	cfg.Verbosity = fVerbosity
	cfg.LogFormat = fLogFormat
	cfg.CanvasWidth = fWidth
	cfg.CanvasHeight = fHeight
	cfg.SimpleGraticule = fSimpleGrat
	cfg.FontPath = fFontPath
	cfg.JPEGQuality = fJPEGQuality

	frames, err := gatherInputs(&cfg, flag.Args()...)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("no input frames; usage: elscope [flags] frame.jpg dir/ [config.yaml]")
	}

	if cfg.LogFormat == "" {
		if curve, ok := elzone.DetectCurve(frames[0]); ok {
			cfg.LogFormat = curve.String()
			log.Printf("log curve %s detected from EXIF of %s", curve, filepath.Base(frames[0]))
		} else {
			cfg.LogFormat = "logc4"
			log.Printf("no EXIF hint, assuming %s", cfg.LogFormat)
		}
	}

	if cfg.Verbosity > 0 {
		log.Printf("final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	engine, err := elzone.New(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	run(engine, cfg, frames)
}

// gatherInputs walks the args; directories recurse, .yaml files
// replace the base configuration, everything else is a frame.
func gatherInputs(cfg *elzone.Config, args ...string) ([]string, error) {
	frames := []string{}

	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return nil, fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			contents, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				sub, err := gatherInputs(cfg, filepath.Join(arg, content.Name()))
				if err != nil {
					return nil, err
				}
				frames = append(frames, sub...)
			}

		case strings.EqualFold(filepath.Ext(arg), ".yaml"):
			b, err := os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("config read %s: %v", arg, err)
			}
			c, err := elzone.NewConfigFromYaml(b)
			if err != nil {
				return nil, fmt.Errorf("config parse %s: %v", arg, err)
			}
			*cfg = c
			log.Printf("loaded base configuration from %s", arg)

		default:
			switch strings.ToLower(filepath.Ext(arg)) {
			case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".hdr":
				frames = append(frames, arg)
			}
		}
	}

	return frames, nil
}

// run renders every frame across a small worker pool. The engine is
// stateless past its construction, so the workers share one instance.
func run(engine *elzone.Engine, cfg elzone.Config, frames []string) {
	bar := progressbar.Default(int64(len(frames)))
	lat := hdrhistogram.New(1, int64(10*time.Minute/time.Millisecond), 3)

	var mu sync.Mutex // guards lat and the failure count
	failed := 0

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < maxInt(1, fWorkers); i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for filename := range jobs {
				start := time.Now()
				err := renderOne(engine, cfg, filename)
				ms := time.Since(start).Milliseconds()

				mu.Lock()
				_ = lat.RecordValue(ms)
				if err != nil {
					failed++
				}
				mu.Unlock()

				if err != nil {
					// One bad frame never takes down the batch
					log.Warnf("worker %d: %s: %v", id, filepath.Base(filename), err)
				}
				_ = bar.Add(1)
			}
		}(i)
	}

	for _, filename := range frames {
		jobs <- filename
	}
	close(jobs)
	wg.Wait()

	log.Printf("rendered %d frames (%d failed), per-frame p50=%dms p99=%dms",
		len(frames)-failed, failed, lat.ValueAtQuantile(50), lat.ValueAtQuantile(99))
}

func renderOne(engine *elzone.Engine, cfg elzone.Config, filename string) error {
	outPath := outputPath(filename)

	if fResume {
		if _, err := os.Stat(outPath); err == nil {
			log.Debugf("skipping already processed %s", outPath)
			return nil
		}
	}

	frame, err := elzone.LoadFrame(filename)
	if err != nil {
		return err
	}

	panel, err := engine.Process(frame)
	if err != nil {
		return err
	}

	writer, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", outPath, err)
	}
	defer writer.Close()

	if err := jpeg.Encode(writer, panel, &jpeg.Options{Quality: cfg.JPEGQuality}); err != nil {
		return fmt.Errorf("jpeg encode '%s': %v", outPath, err)
	}
	return nil
}

func outputPath(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(fOutputDir, base+"_exp_tool.jpg")
}

func maxInt(a, b int) int {
	if a > b { return a }
	return b
}
