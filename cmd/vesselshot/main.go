// Package main is the vesselshot command: it renders a still image of a
// vessel file the way the editor's snapshot tool would.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/config"
	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/postfx"
	"github.com/Faultbox/vesselshot/internal/render/glrender"
	"github.com/Faultbox/vesselshot/internal/render/raster"
	"github.com/Faultbox/vesselshot/internal/screenshot"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/internal/vessel"
	"github.com/Faultbox/vesselshot/internal/window"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== vesselshot ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	path, err := run(cfg)
	if err != nil {
		logger.Error("capture failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	fmt.Println(path)
}

func run(cfg *config.Config) (string, error) {
	vesselPath := config.VesselPath()
	if vesselPath == "" && config.PickRequested() {
		picked, err := pickVessel()
		if err != nil {
			return "", err
		}
		vesselPath = picked
	}
	if vesselPath == "" {
		return "", errors.New("no vessel file given (use -vessel or -pick)")
	}
	v, err := vessel.Load(vesselPath)
	if err != nil {
		return "", err
	}

	orientation := capture.OrientationVAB
	if v.Facility() == vessel.FacilitySPH {
		orientation = capture.OrientationSPH
	}
	cc, err := cfg.CaptureConfig(orientation)
	if err != nil {
		return "", fmt.Errorf("capture config: %w", err)
	}

	r, closeRenderer, err := newRenderer(cfg)
	if err != nil {
		return "", err
	}
	defer closeRenderer()

	store := screenshot.NewStore(cfg.OutputDir())
	shot := capture.NewShot(v, r, shader.DefaultRegistry(), postfx.Default(), store)
	defer shot.Close()

	if cfg.Capture.Rotate != 0 {
		shot.Rotate(cfg.Capture.Rotate, cc.Orientation)
	}

	if req := cfg.RequestedSize(); req != nil {
		if _, err := shot.Capture(cc, req); err != nil {
			return "", err
		}
		return shot.Save("")
	}
	_, out, err := shot.CaptureAndSave(cc, "")
	return out, err
}

// pickVessel asks for a vessel file with a native file dialog.
func pickVessel() (string, error) {
	filename, err := dialog.File().
		Filter("Vessel Files", "yaml", "yml").
		Filter("All Files", "*").
		Title("Open Vessel").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", errors.New("no vessel file chosen")
	}
	if err != nil {
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return filename, nil
}

// newRenderer builds the configured backend and returns its cleanup func.
func newRenderer(cfg *config.Config) (capture.Renderer, func(), error) {
	switch cfg.Render.Backend {
	case config.BackendGL:
		win, err := window.New(window.Config{
			Title:  "vesselshot",
			Width:  cfg.Render.WindowWidth,
			Height: cfg.Render.WindowHeight,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating GL context: %w", err)
		}
		r, err := glrender.New()
		if err != nil {
			win.Close()
			return nil, nil, err
		}
		return r, func() {
			r.Close()
			win.Close()
		}, nil
	default:
		return raster.New(), func() {}, nil
	}
}
