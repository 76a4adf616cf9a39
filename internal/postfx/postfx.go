// Package postfx holds the full-screen passes applied to captured frames.
// Pass parameters ship as YAML blobs embedded in the binary.
package postfx

import (
	"embed"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/resource"
)

//go:embed effects/*.yaml
var embedded embed.FS

type effectBlob struct {
	Name        string       `yaml:"name"`
	Enabled     bool         `yaml:"enabled"`
	ColorAdjust *ColorAdjust `yaml:"color_adjust"`
	EdgeDetect  *EdgeDetect  `yaml:"edge_detect"`
	Blueprint   *Blueprint   `yaml:"blueprint"`
	FXAA        *FXAA        `yaml:"fxaa"`
}

func (b effectBlob) pass() (capture.Pass, error) {
	var passes []capture.Pass
	if b.ColorAdjust != nil {
		passes = append(passes, *b.ColorAdjust)
	}
	if b.EdgeDetect != nil {
		passes = append(passes, *b.EdgeDetect)
	}
	if b.Blueprint != nil {
		passes = append(passes, *b.Blueprint)
	}
	if b.FXAA != nil {
		passes = append(passes, *b.FXAA)
	}
	if len(passes) != 1 {
		return nil, fmt.Errorf("want exactly one pass section, got %d", len(passes))
	}
	return passes[0], nil
}

// Order lists the effect blobs in application order.
var Order = []string{"coloradjust", "edgedetect", "blueprint", "fxaa"}

// Default builds the chain from the embedded blobs.
func Default() *capture.EffectChain {
	sub, err := fs.Sub(embedded, "effects")
	if err != nil {
		panic(err)
	}
	entries, _ := Load(sub)
	return capture.NewEffectChain(entries...)
}

// Load reads "<name>.yaml" for every name in Order. A blob that fails to load
// is logged and left out of the result; its error is returned alongside the
// entries that did load.
func Load(fsys fs.FS) ([]capture.EffectEntry, []error) {
	var (
		entries []capture.EffectEntry
		errs    []error
	)
	for _, name := range Order {
		var blob effectBlob
		err := resource.Load(fsys, name+".yaml", &blob)
		var p capture.Pass
		if err == nil {
			if p, err = blob.pass(); err != nil {
				err = fmt.Errorf("%w: %s: %w", resource.ErrLoad, name, err)
			}
		}
		if err == nil && blob.Name == "" {
			err = fmt.Errorf("%w: %s: missing name", resource.ErrLoad, name)
		}
		if err != nil {
			logger.Error("failed to load effect", zap.String("effect", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		entries = append(entries, capture.EffectEntry{Name: blob.Name, Pass: p, Enabled: blob.Enabled})
	}
	logger.Debug("effects loaded",
		zap.Int("loaded", len(entries)),
		zap.Int("failed", len(errs)),
	)
	return entries, errs
}
