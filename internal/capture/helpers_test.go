package capture_test

import (
	"errors"
	"image"
	"image/color"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/vessel"
	"github.com/Faultbox/vesselshot/pkg/math"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) math.Bounds {
	return math.BoundsFromMinMax(math.Vec3{X: minX, Y: minY, Z: minZ}, math.Vec3{X: maxX, Y: maxY, Z: maxZ})
}

func near(a, b math.Vec3) bool {
	return a.Sub(b).Length() < 1e-4
}

// rocket builds a small stack: a pod over a tank, plus a launch clamp that is
// excluded from physics and a glowing decal nothing replaces.
func rocket() *vessel.Vessel {
	v := vessel.New("Kerbal X", vessel.FacilityVAB)
	v.SetFallbackCenter(math.Vec3{Y: 5})

	hull := box(-1, 9, -1, 1, 11, 1)
	v.Attach(
		vessel.NewPart("pod", math.Vec3{Y: 10},
			vessel.WithCollider(hull),
			vessel.WithModel(
				vessel.NewSurface("pod/hull", vessel.NewMaterial("KSP/Diffuse"), hull, color.NRGBA{220, 220, 220, 255}),
				vessel.NewSurface("pod/window", vessel.NewMaterial("KSP/Specular"), box(-0.5, 10, -1.1, 0.5, 10.5, -1), color.NRGBA{40, 60, 90, 255}),
				vessel.NewSurface("pod/decal", vessel.NewMaterial("Custom/Glow"), box(-0.2, 10.8, -1.05, 0.2, 10.9, -1), color.NRGBA{255, 200, 0, 255}),
			),
		),
		vessel.NewPart("tank", math.Vec3{Y: 6},
			vessel.WithCollider(box(-1.25, 3, -1.25, 1.25, 9, 1.25)),
			vessel.WithModel(
				vessel.NewSurface("tank/body", vessel.NewMaterial("KSP/Bumped"), box(-1.25, 3, -1.25, 1.25, 9, 1.25), color.NRGBA{240, 240, 240, 255}),
			),
		),
		vessel.NewPart("clamp", math.Vec3{X: 3, Y: 3},
			vessel.Excluded(),
			vessel.WithCollider(box(2.5, 0, -0.5, 3.5, 8, 0.5)),
			vessel.WithModel(
				vessel.NewSurface("clamp/frame", vessel.NewMaterial("KSP/Diffuse"), box(2.5, 0, -0.5, 3.5, 8, 0.5), color.NRGBA{90, 90, 90, 255}),
			),
		),
	)
	return v
}

// programs maps surface id to the name of its current program type, "host"
// for vessel materials and "capture" for registry programs.
func programs(sc scene.Scene) map[string]string {
	out := make(map[string]string)
	for _, p := range sc.Parts() {
		m, ok := p.Model()
		if !ok {
			continue
		}
		for _, s := range m.Surfaces() {
			switch s.Program().(type) {
			case *vessel.Material:
				out[s.ID()] = "host"
			default:
				out[s.ID()] = "capture"
			}
		}
	}
	return out
}

type fakeTarget struct {
	size     capture.Size
	released bool
}

func (t *fakeTarget) Size() capture.Size { return t.size }
func (t *fakeTarget) Release()           { t.released = true }

func (t *fakeTarget) Image() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, t.size.Width, t.size.Height)), nil
}

type fakeRenderer struct {
	err      error
	acquired []*fakeTarget
	// during records the program kinds seen while rendering.
	during     map[string]string
	background color.NRGBA
	placement  capture.Placement
}

func (r *fakeRenderer) Acquire(size capture.Size) (capture.Target, error) {
	t := &fakeTarget{size: size}
	r.acquired = append(r.acquired, t)
	return t, nil
}

func (r *fakeRenderer) Render(t capture.Target, sc scene.Scene, cam capture.Placement, bg color.NRGBA) error {
	r.during = programs(sc)
	r.background = bg
	r.placement = cam
	return r.err
}

type fakeStore struct {
	err   error
	saved []string
}

func (s *fakeStore) Save(img image.Image, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, name)
	return "/shots/" + name + "_1.png", nil
}

var errDiskFull = errors.New("disk full")

// smallConfig keeps auto-sized frames small.
func smallConfig() capture.Config {
	cfg := capture.DefaultConfig()
	cfg.MaxSize = capture.Size{Width: 64, Height: 64}
	cfg.ExportScale = 1
	return cfg
}
