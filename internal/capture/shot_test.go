package capture_test

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/internal/vessel"
	"github.com/Faultbox/vesselshot/pkg/math"
)

type panicPass struct{}

func (panicPass) Apply(*image.RGBA) (*image.RGBA, error) { panic("pass exploded") }

func newShot(v *vessel.Vessel, r *fakeRenderer, store capture.Store, entries ...capture.EffectEntry) *capture.Shot {
	return capture.NewShot(v, r, shader.DefaultRegistry(), capture.NewEffectChain(entries...), store)
}

func assertRestored(t *testing.T, v *vessel.Vessel) {
	t.Helper()
	for id, kind := range programs(v) {
		if kind != "host" {
			t.Errorf("%s left with a capture program", id)
		}
	}
}

func TestShotCapture(t *testing.T) {
	v := rocket()
	r := &fakeRenderer{}
	shot := newShot(v, r, nil, capture.EffectEntry{Name: "add", Pass: addPass{1}, Enabled: true})
	defer shot.Close()

	frame, err := shot.Capture(smallConfig(), nil)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	want := []capture.State{
		capture.StateIdle,
		capture.StateBoundsComputed,
		capture.StateMaterialsSubstituted,
		capture.StateRendered,
		capture.StateEffectsApplied,
		capture.StateMaterialsRestored,
		capture.StatePreviewed,
		capture.StateIdle,
	}
	if got := shot.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
	if r.during["tank/body"] != "capture" || r.during["pod/decal"] != "host" {
		t.Errorf("programs while rendering = %v", r.during)
	}
	assertRestored(t, v)

	if frame.Size() != r.placement.File {
		t.Errorf("frame %+v, want file size %+v", frame.Size(), r.placement.File)
	}
	if frame.Image.Pix[0] != 1 {
		t.Errorf("effect not applied: red = %d", frame.Image.Pix[0])
	}
	if shot.Frame() != frame {
		t.Error("Frame() is not the latest capture")
	}
	if r.background != capture.DefaultConfig().Background {
		t.Errorf("background = %v", r.background)
	}

	// toggling through the shot's chain takes effect on the next capture
	if !shot.Chain().SetEnabled("add", false) {
		t.Fatal("SetEnabled(add) found no entry")
	}
	frame, err = shot.Capture(smallConfig(), nil)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if frame.Image.Pix[0] != 0 {
		t.Errorf("disabled effect applied: red = %d", frame.Image.Pix[0])
	}
}

func TestShotRenderFailureRestores(t *testing.T) {
	v := rocket()
	r := &fakeRenderer{err: errors.New("device lost")}
	shot := newShot(v, r, nil)
	defer shot.Close()

	frame, err := shot.Capture(smallConfig(), nil)
	if !errors.Is(err, capture.ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
	if frame != nil || shot.Frame() != nil {
		t.Error("failed capture produced a frame")
	}
	assertRestored(t, v)

	h := shot.History()
	if h[len(h)-2] != capture.StateMaterialsRestored || shot.State() != capture.StateIdle {
		t.Errorf("history = %v", h)
	}
}

func TestShotPanicRestores(t *testing.T) {
	v := rocket()
	shot := newShot(v, &fakeRenderer{}, nil, capture.EffectEntry{Name: "boom", Pass: panicPass{}, Enabled: true})
	defer shot.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic was swallowed")
			}
		}()
		shot.Capture(smallConfig(), nil)
	}()
	assertRestored(t, v)
}

// brokenPart fails when its model is read, as a host part torn down mid-edit can.
type brokenPart struct {
	scene.Part
}

func (brokenPart) Model() (scene.Model, bool) { panic("model unavailable") }

// brokenScene is a vessel whose last part cannot be traversed.
type brokenScene struct {
	*vessel.Vessel
	extra scene.Part
}

func (s brokenScene) Parts() []scene.Part {
	return append(s.Vessel.Parts(), s.extra)
}

func TestShotTraversalFailureRestores(t *testing.T) {
	v := rocket()
	sc := brokenScene{
		Vessel: v,
		extra:  brokenPart{vessel.NewPart("antenna", math.Vec3{Y: 12}, vessel.WithCollider(box(-0.1, 11, -0.1, 0.1, 13, 0.1)))},
	}
	r := &fakeRenderer{}
	shot := capture.NewShot(sc, r, shader.DefaultRegistry(), capture.NewEffectChain(), nil)
	defer shot.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("traversal panic was swallowed")
			}
		}()
		shot.Capture(smallConfig(), nil)
	}()
	assertRestored(t, v)

	h := shot.History()
	if last := h[len(h)-1]; last != capture.StateMaterialsRestored {
		t.Errorf("last state = %v, want materials restored", last)
	}
	if r.during != nil {
		t.Error("renderer ran after a failed traversal")
	}
}

func TestShotReusesTarget(t *testing.T) {
	v := rocket()
	r := &fakeRenderer{}
	shot := newShot(v, r, nil)

	req := capture.Size{Width: 320, Height: 200}
	for i := 0; i < 2; i++ {
		if _, err := shot.Capture(smallConfig(), &req); err != nil {
			t.Fatalf("Capture %d: %v", i, err)
		}
	}
	if len(r.acquired) != 1 {
		t.Fatalf("targets acquired = %d, want 1", len(r.acquired))
	}

	req = capture.Size{Width: 640, Height: 400}
	if _, err := shot.Capture(smallConfig(), &req); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(r.acquired) != 2 || !r.acquired[0].released {
		t.Errorf("resize did not release the old target")
	}

	shot.Close()
	if !r.acquired[1].released {
		t.Error("Close did not release the target")
	}
}

func TestShotSave(t *testing.T) {
	v := rocket()
	store := &fakeStore{}
	shot := newShot(v, &fakeRenderer{}, store)
	defer shot.Close()

	if _, err := shot.Save(""); !errors.Is(err, capture.ErrNoFrame) {
		t.Errorf("save before capture: err = %v", err)
	}

	frame, path, err := shot.CaptureAndSave(smallConfig(), "")
	if err != nil {
		t.Fatalf("CaptureAndSave: %v", err)
	}
	if frame == nil || path != "/shots/front_Kerbal X_1.png" {
		t.Errorf("path = %q", path)
	}
	if len(store.saved) != 1 || store.saved[0] != "front_Kerbal X" {
		t.Errorf("saved = %v", store.saved)
	}
	want := []capture.State{
		capture.StateIdle,
		capture.StateBoundsComputed,
		capture.StateMaterialsSubstituted,
		capture.StateRendered,
		capture.StateEffectsApplied,
		capture.StateMaterialsRestored,
		capture.StatePersisted,
		capture.StateIdle,
	}
	if got := shot.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
}

func TestShotSaveFailureKeepsFrame(t *testing.T) {
	v := rocket()
	store := &fakeStore{err: errDiskFull}
	shot := newShot(v, &fakeRenderer{}, store)
	defer shot.Close()

	frame, path, err := shot.CaptureAndSave(smallConfig(), "")
	if !errors.Is(err, capture.ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want ErrPersistence wrapping disk full", err)
	}
	if frame == nil || shot.Frame() != frame || path != "" {
		t.Errorf("frame = %v, path = %q; want the frame kept for preview", frame, path)
	}
	assertRestored(t, v)
	h := shot.History()
	if h[len(h)-2] != capture.StatePreviewed || shot.State() != capture.StateIdle {
		t.Errorf("history = %v, want preview then idle", h)
	}
}

func TestShotSaveNameDefault(t *testing.T) {
	shot := newShot(vessel.New("", vessel.FacilityVAB), &fakeRenderer{}, nil)
	defer shot.Close()
	if got := shot.SaveName(); got != "front_vessel" {
		t.Errorf("SaveName = %q", got)
	}
}

func TestShotRotate(t *testing.T) {
	shot := newShot(rocket(), &fakeRenderer{}, nil)
	defer shot.Close()

	shot.Rotate(90, capture.OrientationVAB)
	if !near(shot.Direction(), math.Vec3{X: 1}) {
		t.Errorf("VAB rotate: direction = %v, want +X", shot.Direction())
	}

	shot.SetDirection(math.Up)
	shot.Rotate(90, capture.OrientationSPH)
	if !near(shot.Direction(), math.Vec3{X: -1}) {
		t.Errorf("SPH rotate: direction = %v, want -X", shot.Direction())
	}
}
