package capture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// DefaultShipName is used for saved files when the scene has no name.
const DefaultShipName = "vessel"

// State is a step of the capture sequence.
type State int

const (
	StateIdle State = iota
	StateBoundsComputed
	StateMaterialsSubstituted
	StateRendered
	StateEffectsApplied
	StateMaterialsRestored
	StatePersisted
	StatePreviewed
)

var stateNames = [...]string{
	StateIdle:                 "idle",
	StateBoundsComputed:       "bounds computed",
	StateMaterialsSubstituted: "materials substituted",
	StateRendered:             "rendered",
	StateEffectsApplied:       "effects applied",
	StateMaterialsRestored:    "materials restored",
	StatePersisted:            "persisted",
	StatePreviewed:            "previewed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Shot captures still images of one scene. It is not safe for concurrent use.
type Shot struct {
	scene    scene.Scene
	renderer Renderer
	subst    *Substituter
	chain    *EffectChain
	store    Store
	bounds   *BoundsTracker

	direction math.Vec3
	target    Target
	frame     *Frame
	state     State
	history   []State

	log *zap.Logger
}

// NewShot wires a capture pipeline for sc. store may be nil when frames are
// only previewed.
func NewShot(sc scene.Scene, r Renderer, registry *shader.Registry, chain *EffectChain, store Store) *Shot {
	if chain == nil {
		chain = NewEffectChain()
	}
	return &Shot{
		scene:     sc,
		renderer:  r,
		subst:     NewSubstituter(registry),
		chain:     chain,
		store:     store,
		bounds:    NewBoundsTracker(sc),
		direction: math.Forward,
		log:       logger.Named("shot"),
	}
}

// State returns the current step.
func (s *Shot) State() State { return s.state }

// History returns the steps the last capture went through, in order.
func (s *Shot) History() []State { return append([]State(nil), s.history...) }

// Direction returns the view direction.
func (s *Shot) Direction() math.Vec3 { return s.direction }

// SetDirection replaces the view direction.
func (s *Shot) SetDirection(d math.Vec3) { s.direction = d.Normalize() }

// Chain returns the effect chain.
func (s *Shot) Chain() *EffectChain { return s.chain }

// Bounds returns the current vessel bounds.
func (s *Shot) Bounds() math.Bounds { return s.bounds.Bounds() }

// Frame returns the latest frame, or nil before the first capture.
func (s *Shot) Frame() *Frame { return s.frame }

// Rotate turns the view direction by degrees about world up for VAB vessels
// or world forward for SPH vessels.
func (s *Shot) Rotate(degrees float32, o Orientation) {
	s.direction = math.AngleAxis(degrees, o.rotateAxis()).Rotate(s.direction)
	s.log.Debug("view rotated",
		zap.Stringer("orientation", o),
		zap.Float32("degrees", degrees),
	)
}

func (s *Shot) enter(st State) {
	s.state = st
	s.history = append(s.history, st)
	s.log.Debug("capture state", zap.Stringer("state", st))
}

// Capture renders one frame for preview. A nil requested size selects auto
// sizing. The scene's original programs are restored before Capture returns,
// whatever happens during rendering or post-processing.
func (s *Shot) Capture(cfg Config, requested *Size) (*Frame, error) {
	frame, err := s.capture(cfg, requested)
	if err != nil {
		return nil, err
	}
	s.enter(StatePreviewed)
	s.enter(StateIdle)
	return frame, nil
}

// capture runs the sequence up to MaterialsRestored and keeps the frame.
func (s *Shot) capture(cfg Config, requested *Size) (*Frame, error) {
	s.history = s.history[:0]
	s.enter(StateIdle)

	bounds := s.bounds.Bounds()
	s.enter(StateBoundsComputed)

	place := Fit(bounds, s.direction, cfg, requested)

	frame, err := s.render(cfg, place)
	if err != nil {
		s.enter(StateIdle)
		return nil, err
	}

	s.frame = frame
	s.log.Info("captured",
		zap.Stringer("projection", place.Projection),
		zap.Int("width", place.File.Width),
		zap.Int("height", place.File.Height),
		zap.Bool("auto", place.Auto),
	)
	return frame, nil
}

func (s *Shot) render(cfg Config, place Placement) (frame *Frame, err error) {
	// Begin opens the ledger before it touches a surface, so a traversal that
	// fails halfway is still undone.
	defer func() {
		report := s.subst.End(s.subst.Open(), s.scene.Parts())
		s.enter(StateMaterialsRestored)
		if report.MissingSurfaces > 0 {
			s.log.Warn("surfaces removed before restore",
				zap.Int("parts", report.MissingParts),
				zap.Int("surfaces", report.MissingSurfaces),
			)
		}
	}()
	s.subst.Begin(s.scene.Parts())
	s.enter(StateMaterialsSubstituted)

	target, err := s.acquire(place.File)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire %dx%d target: %w", ErrRender, place.File.Width, place.File.Height, err)
	}
	if err := s.renderer.Render(target, s.scene, place, s.chain.BackgroundFor(cfg)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	img, err := target.Image()
	if err != nil {
		return nil, fmt.Errorf("%w: read back: %w", ErrRender, err)
	}
	s.enter(StateRendered)

	frame = &Frame{Image: img, Encoding: EncodingSRGB, Placement: place}
	if err := s.chain.Apply(frame, cfg.Effects); err != nil {
		return nil, err
	}
	s.enter(StateEffectsApplied)
	return frame, nil
}

// acquire reuses the current target when it already has the right size.
func (s *Shot) acquire(size Size) (Target, error) {
	if s.target != nil {
		if s.target.Size() == size {
			return s.target, nil
		}
		s.target.Release()
		s.target = nil
	}
	t, err := s.renderer.Acquire(size)
	if err != nil {
		return nil, err
	}
	s.target = t
	return t, nil
}

// SaveName returns the base file name for the scene.
func (s *Shot) SaveName() string {
	name := s.scene.Name()
	if name == "" {
		name = DefaultShipName
	}
	return "front_" + name
}

// Save writes the latest frame under name, or under SaveName when name is
// empty. The frame stays available for preview when saving fails.
func (s *Shot) Save(name string) (string, error) {
	if s.frame == nil {
		return "", ErrNoFrame
	}
	if s.store == nil {
		return "", fmt.Errorf("%w: no store configured", ErrPersistence)
	}
	if name == "" {
		name = s.SaveName()
	}
	path, err := s.store.Save(s.frame.Image, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.enter(StatePersisted)
	s.enter(StateIdle)
	s.log.Info("frame saved", zap.String("path", path))
	return path, nil
}

// CaptureAndSave captures an auto-sized frame and saves it. On a persistence
// failure the frame is still returned and kept for preview.
func (s *Shot) CaptureAndSave(cfg Config, name string) (*Frame, string, error) {
	frame, err := s.capture(cfg, nil)
	if err != nil {
		return nil, "", err
	}
	path, err := s.Save(name)
	if err != nil {
		s.log.Error("save failed", zap.Error(err))
		s.enter(StatePreviewed)
		s.enter(StateIdle)
		return frame, "", err
	}
	return frame, path, nil
}

// Close releases the render target and unsubscribes from the scene.
func (s *Shot) Close() {
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	s.bounds.Close()
}
