package object

import (
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Target is a static hittable object beside the path. Hit is one-way.
type Target struct {
	body

	FlashDuration float64
	ShakeAmount   float64

	hit    bool
	effect float64 // remaining shake/flash time
}

// NewTarget creates an unhit target at pos.
func NewTarget(p scene.Presenter, pos physics.Vec3, flash float64) *Target {
	return &Target{
		body:          newBody(p, "target", pos),
		FlashDuration: flash,
		ShakeAmount:   0.25,
	}
}

// Hit transitions unhit -> hit. Returns false if already hit.
func (t *Target) Hit() bool {
	if t.hit {
		return false
	}
	t.hit = true
	t.effect = t.FlashDuration
	if t.node != nil {
		t.node.SetFlash(true)
	}
	return true
}

// IsHit reports whether the target has been hit.
func (t *Target) IsHit() bool {
	return t.hit
}

// Update runs the post-hit shake and flash, then dims for good. Targets never
// retire themselves.
func (t *Target) Update(ctx UpdateContext) bool {
	if t.destroyed {
		return true
	}
	if t.effect <= 0 || t.node == nil {
		return false
	}

	t.effect -= ctx.Delta
	if t.effect > 0 {
		var jitter physics.Vec3
		if ctx.Rand != nil {
			jitter.X = (ctx.Rand.Float64()*2 - 1) * t.ShakeAmount
			jitter.Y = (ctx.Rand.Float64()*2 - 1) * t.ShakeAmount
		}
		t.node.SetOffset(jitter)
		return false
	}

	t.effect = 0
	t.node.SetOffset(physics.Vec3{})
	t.node.SetFlash(false)
	t.node.SetDim(true)
	return false
}
