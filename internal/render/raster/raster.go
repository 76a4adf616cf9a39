// Package raster is a software renderer that ray casts the box surfaces of a
// scene. It needs no GPU, so it runs headless and in tests.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/render"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// ErrReleased is returned when rendering into a released target.
var ErrReleased = errors.New("target released")

type target struct {
	img      *image.RGBA
	released bool
}

func (t *target) Size() capture.Size {
	b := t.img.Bounds()
	return capture.Size{Width: b.Dx(), Height: b.Dy()}
}

func (t *target) Image() (*image.RGBA, error) {
	if t.released {
		return nil, ErrReleased
	}
	return clone.AsRGBA(t.img), nil
}

func (t *target) Release() {
	t.released = true
	t.img = image.NewRGBA(image.Rectangle{})
}

// Renderer ray casts scenes into in-memory targets.
type Renderer struct {
	log *zap.Logger
}

// New creates a software renderer.
func New() *Renderer {
	return &Renderer{log: logger.Named("raster")}
}

// Acquire allocates a target of size.
func (r *Renderer) Acquire(size capture.Size) (capture.Target, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("invalid target size %dx%d", size.Width, size.Height)
	}
	r.log.Debug("target allocated", zap.Int("width", size.Width), zap.Int("height", size.Height))
	return &target{img: image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))}, nil
}

type hit struct {
	dist   float32
	item   *render.Item
	normal math.Vec3
}

// Render clears t to background and draws every drawable surface of sc seen
// through cam. Texels a program discards let the surface behind show through.
func (r *Renderer) Render(t capture.Target, sc scene.Scene, cam capture.Placement, background color.NRGBA) error {
	tg, ok := t.(*target)
	if !ok {
		return fmt.Errorf("target %T was not acquired from this renderer", t)
	}
	if tg.released {
		return ErrReleased
	}

	items := render.Collect(sc)
	toLight := render.KeyLight(cam)
	size := tg.Size()
	w, h := size.Width, size.Height

	parallel.Line(h, func(start, end int) {
		var hits []hit
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				ray := cam.Ray((float32(x)+0.5)/float32(w), (float32(y)+0.5)/float32(h))
				hits = hits[:0]
				for i := range items {
					dist, n, ok := ray.IntersectBounds(items[i].Bounds)
					if !ok {
						continue
					}
					depth := cam.Depth(ray, dist)
					if depth < cam.NearClip || depth > cam.FarClip {
						continue
					}
					hits = append(hits, hit{dist: dist, item: &items[i], normal: n})
				}
				sort.Slice(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

				c := background
				toEye := ray.Direction.Neg()
				for _, hh := range hits {
					shaded := hh.item.Shade(hh.normal, toLight, toEye)
					if shaded.A == 0 {
						continue
					}
					c = shaded
					break
				}
				tg.img.Set(x, y, c)
			}
		}
	})

	r.log.Debug("frame rendered",
		zap.String("scene", sc.Name()),
		zap.Int("surfaces", len(items)),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return nil
}
