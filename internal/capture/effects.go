package capture

import (
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/logger"
)

// Effect names in the editor's declared order.
const (
	ColorAdjustEffect = "Color Adjust"
	EdgeDetectEffect  = "Edge Detect"
	BlueprintEffect   = "Blue Print"
	FXAAEffect        = "FXAA"
)

// Pass is one full-screen post-processing step.
type Pass interface {
	Apply(src *image.RGBA) (*image.RGBA, error)
}

// EffectEntry is a named, toggleable pass.
type EffectEntry struct {
	Name    string
	Pass    Pass
	Enabled bool
}

// EffectChain applies its enabled passes in declared order, each pass reading
// the previous one's output.
type EffectChain struct {
	entries []EffectEntry
	log     *zap.Logger
}

// NewEffectChain creates a chain; the argument order is the application order.
func NewEffectChain(entries ...EffectEntry) *EffectChain {
	return &EffectChain{
		entries: append([]EffectEntry(nil), entries...),
		log:     logger.Named("effects"),
	}
}

// Names returns the entry names in declared order.
func (c *EffectChain) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// SetEnabled toggles an entry. It reports false if the chain has no such entry.
func (c *EffectChain) SetEnabled(name string, on bool) bool {
	for i := range c.entries {
		if c.entries[i].Name == name {
			c.entries[i].Enabled = on
			return true
		}
	}
	return false
}

// Enabled reports whether the named entry is present and enabled.
func (c *EffectChain) Enabled(name string) bool {
	return c.enabled(name, nil)
}

func (c *EffectChain) enabled(name string, overrides map[string]bool) bool {
	for _, e := range c.entries {
		if e.Name != name {
			continue
		}
		if on, ok := overrides[name]; ok {
			return on
		}
		return e.Enabled
	}
	return false
}

// BackgroundFor returns the clear color for a capture: fully transparent when the
// blueprint outline is enabled, the configured background otherwise.
func (c *EffectChain) BackgroundFor(cfg Config) color.NRGBA {
	if c.enabled(BlueprintEffect, cfg.Effects) {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	}
	return cfg.Background
}

// Apply runs every enabled pass over the frame. overrides, keyed by effect
// name, take precedence over the entries' own flags; names the chain does not
// know are ignored.
func (c *EffectChain) Apply(frame *Frame, overrides map[string]bool) error {
	for _, e := range c.entries {
		if !c.enabled(e.Name, overrides) || e.Pass == nil {
			continue
		}
		out, err := e.Pass.Apply(frame.Image)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrEffect, e.Name, err)
		}
		if out.Bounds().Size() != frame.Image.Bounds().Size() {
			return fmt.Errorf("%w: %s changed the frame size", ErrEffect, e.Name)
		}
		frame.Image = out
		c.log.Debug("effect applied", zap.String("effect", e.Name))
	}
	return nil
}
