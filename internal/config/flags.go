package config

import (
	"flag"

	"github.com/Faultbox/vesselshot/internal/capture"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagVessel      = flag.String("vessel", "", "Path to the vessel file to capture")
	flagPick        = flag.Bool("pick", false, "Choose the vessel file in a file dialog")
	flagBackend     = flag.String("backend", "", "Renderer backend: raster or gl")
	flagPerspective = flag.Bool("perspective", false, "Use a perspective camera")
	flagWidth       = flag.Int("width", 0, "Output width (0 = auto)")
	flagHeight      = flag.Int("height", 0, "Output height (0 = auto)")
	flagRotate      = flag.Float64("rotate", 0, "Rotate the view by degrees before capturing")
	flagBlueprint   = flag.Bool("blueprint", false, "Draw a blueprint outline on a transparent background")
	flagOut         = flag.String("out", "", "Screenshot output folder")
	flagSaveConfig  = flag.Bool("save-config", false, "Write the effective config to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// VesselPath returns the vessel file given via --vessel.
func VesselPath() string {
	return *flagVessel
}

// PickRequested reports whether --pick was given.
func PickRequested() bool {
	return *flagPick
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagBackend != "" {
		cfg.Render.Backend = *flagBackend
	}
	if *flagPerspective {
		cfg.Capture.Projection = "perspective"
	}
	if *flagWidth > 0 {
		cfg.Capture.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Capture.Height = *flagHeight
	}
	if *flagRotate != 0 {
		cfg.Capture.Rotate = float32(*flagRotate)
	}
	if *flagBlueprint {
		if cfg.Capture.Effects == nil {
			cfg.Capture.Effects = map[string]bool{}
		}
		cfg.Capture.Effects[capture.BlueprintEffect] = true
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
}
