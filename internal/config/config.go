// Package config handles vesselshot configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/screenshot"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// Config holds all settings.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// CaptureConfig holds camera framing and image settings.
type CaptureConfig struct {
	Projection string `yaml:"projection"` // orthographic or perspective
	// Orientation is VAB or SPH. Empty takes the vessel's facility.
	Orientation   string     `yaml:"orientation"`
	Offset        [3]float32 `yaml:"offset"`
	FairingOffset float32    `yaml:"fairing_offset"`
	ExportScale   float32    `yaml:"export_scale"`
	MaxWidth      int        `yaml:"max_width"`
	MaxHeight     int        `yaml:"max_height"`
	// Width and Height request a fixed output size; zero means auto.
	Width       int             `yaml:"width"`
	Height      int             `yaml:"height"`
	Rotate      float32         `yaml:"rotate"` // degrees
	NearClip    float32         `yaml:"near_clip"`
	FieldOfView float32         `yaml:"field_of_view"`
	Background  [4]uint8        `yaml:"background"`
	Effects     map[string]bool `yaml:"effects"`
}

// OutputConfig holds where screenshots go.
type OutputConfig struct {
	AppRoot string `yaml:"app_root"` // screenshots go to <app_root>/../Screenshots
	Dir     string `yaml:"dir"`      // overrides the folder derived from app_root
}

// RenderConfig selects the renderer.
type RenderConfig struct {
	Backend      string `yaml:"backend"` // raster or gl
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Renderer backends.
const (
	BackendRaster = "raster"
	BackendGL     = "gl"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	c := capture.DefaultConfig()
	return &Config{
		Capture: CaptureConfig{
			Projection:  "orthographic",
			ExportScale: c.ExportScale,
			MaxWidth:    c.MaxSize.Width,
			MaxHeight:   c.MaxSize.Height,
			NearClip:    c.NearClip,
			FieldOfView: c.FieldOfView,
			Background:  [4]uint8{c.Background.R, c.Background.G, c.Background.B, c.Background.A},
			Effects:     map[string]bool{},
		},
		Output: OutputConfig{
			AppRoot: ".",
		},
		Render: RenderConfig{
			Backend:      BackendRaster,
			WindowWidth:  640,
			WindowHeight: 480,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CaptureConfig converts the capture section. fallback is used when no
// orientation is configured.
func (c *Config) CaptureConfig(fallback capture.Orientation) (capture.Config, error) {
	cc := c.Capture
	out := capture.Config{
		Orientation:   fallback,
		Offset:        math.Vec3{X: cc.Offset[0], Y: cc.Offset[1], Z: cc.Offset[2]},
		FairingOffset: cc.FairingOffset,
		ExportScale:   cc.ExportScale,
		MaxSize:       capture.Size{Width: cc.MaxWidth, Height: cc.MaxHeight},
		NearClip:      cc.NearClip,
		FieldOfView:   cc.FieldOfView,
		Background:    color.NRGBA{R: cc.Background[0], G: cc.Background[1], B: cc.Background[2], A: cc.Background[3]},
		Effects:       cc.Effects,
	}

	switch strings.ToLower(cc.Projection) {
	case "", "orthographic", "ortho":
		out.Projection = capture.Orthographic
	case "perspective":
		out.Projection = capture.Perspective
	default:
		return capture.Config{}, fmt.Errorf("unknown projection %q", cc.Projection)
	}

	switch strings.ToUpper(cc.Orientation) {
	case "":
	case "VAB":
		out.Orientation = capture.OrientationVAB
	case "SPH":
		out.Orientation = capture.OrientationSPH
	default:
		return capture.Config{}, fmt.Errorf("unknown orientation %q", cc.Orientation)
	}
	return out, nil
}

// RequestedSize returns the fixed output size, or nil for auto sizing.
func (c *Config) RequestedSize() *capture.Size {
	s := capture.Size{Width: c.Capture.Width, Height: c.Capture.Height}
	if !s.Valid() {
		return nil
	}
	return &s
}

// OutputDir returns the screenshot folder.
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	return screenshot.Dir(c.Output.AppRoot)
}
