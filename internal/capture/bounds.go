package capture

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// BoundsMargin is added to the framed size on every axis so edges are not clipped.
const BoundsMargin = 1

// ComputeBounds returns the box enclosing every part that is not physics
// excluded and has a collider, grown by BoundsMargin. The box is seeded at the
// origin of the first part that is not excluded, or of the first part when all
// are. With no parts the box sits at fallback with zero size before the margin.
func ComputeBounds(parts []scene.Part, fallback math.Vec3) math.Bounds {
	if len(parts) == 0 {
		return math.NewBounds(fallback, math.Vec3{}).Expand(BoundsMargin)
	}

	seed := parts[0]
	for _, p := range parts {
		if !p.PhysicsExcluded() {
			seed = p
			break
		}
	}
	result := math.NewBounds(seed.Origin(), math.Vec3{})
	for _, p := range parts {
		if p.PhysicsExcluded() {
			continue
		}
		if col, ok := p.Collider(); ok {
			result = result.Encapsulate(col)
		}
	}
	return result.Expand(BoundsMargin)
}

// BoundsTracker keeps the vessel bounds current. When the scene reports
// structure changes the bounds are recomputed on each change and cached;
// otherwise they are recomputed on every read.
type BoundsTracker struct {
	scene  scene.Scene
	bounds math.Bounds
	cancel func()
	log    *zap.Logger
}

// NewBoundsTracker computes the initial bounds and subscribes to structure
// changes if the scene offers them. Close must be called to unsubscribe.
func NewBoundsTracker(sc scene.Scene) *BoundsTracker {
	t := &BoundsTracker{scene: sc, log: logger.Named("bounds")}
	t.Refresh()
	if n, ok := sc.(scene.StructureNotifier); ok {
		t.cancel = n.OnStructureChanged(t.onStructureChanged)
	}
	return t
}

func (t *BoundsTracker) onStructureChanged() {
	b := t.Refresh()
	t.log.Debug("vessel structure changed",
		zap.Int("parts", len(t.scene.Parts())),
		zap.Float32("size", b.Size().Length()),
	)
}

// Refresh recomputes and caches the bounds.
func (t *BoundsTracker) Refresh() math.Bounds {
	t.bounds = ComputeBounds(t.scene.Parts(), t.scene.FallbackCenter())
	return t.bounds
}

// Bounds returns the current bounds.
func (t *BoundsTracker) Bounds() math.Bounds {
	if t.cancel == nil {
		return t.Refresh()
	}
	return t.bounds
}

// Size returns the current framed size.
func (t *BoundsTracker) Size() math.Vec3 {
	return t.Bounds().Size()
}

// Close unsubscribes from structure changes. It is safe to call twice.
func (t *BoundsTracker) Close() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
