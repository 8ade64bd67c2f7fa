package object

import (
	"math/rand"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta   float64      // Seconds since last frame, already clamped
	Player  physics.Vec3 // Player position at the start of the frame
	Speed   float64      // Current forward speed
	Lateral float64      // Steering input in [-1, 1]
	Tuning  *config.Tuning
	Rand    *rand.Rand
}

// Updatable advances its own timers and motion.
type Updatable interface {
	// Update advances the entity. Returns true once the entity is no longer alive.
	Update(ctx UpdateContext) (remove bool)
}

// Collidable exposes what the orchestrator reads for collision scans.
type Collidable interface {
	Position() physics.Vec3
	Alive() bool
}

// Disposable releases presentation resources.
type Disposable interface {
	Dispose()
}

// Destructible is implemented by entities the orchestrator may retire.
type Destructible interface {
	// MarkDestroyed sets alive to false. Terminal; entities never come back.
	MarkDestroyed()
	IsDestroyed() bool
}

// Entity is the full capability set of a pool member.
type Entity interface {
	Updatable
	Collidable
	Disposable
	Destructible
}

// body is the shared position/liveness/node part of every entity.
type body struct {
	pos       physics.Vec3
	prev      physics.Vec3 // position before the last Update
	destroyed bool
	node      *scene.Node
	presenter scene.Presenter
}

func newBody(p scene.Presenter, model string, pos physics.Vec3) body {
	b := body{pos: pos, prev: pos, presenter: p}
	if p != nil {
		b.node = p.Place(model, pos)
	}
	return b
}

func (b *body) Position() physics.Vec3 { return b.pos }
func (b *body) Alive() bool            { return !b.destroyed }
func (b *body) MarkDestroyed()         { b.destroyed = true }
func (b *body) IsDestroyed() bool      { return b.destroyed }
func (b *body) Previous() physics.Vec3 { return b.prev }

// Node returns the presentation node, nil after Dispose.
func (b *body) Node() *scene.Node { return b.node }

// Dispose removes the node and marks the entity dead. Safe to call twice.
func (b *body) Dispose() {
	b.destroyed = true
	if b.node != nil && b.presenter != nil {
		b.presenter.Remove(b.node)
	}
	b.node = nil
}

// remember records the current position as the start of this frame's move.
func (b *body) remember() {
	b.prev = b.pos
}

// sync pushes the simulated position to the node.
func (b *body) sync() {
	if b.node != nil {
		b.node.SetPosition(b.pos)
	}
}

// ShouldRenderBlink returns true if an object with remaining protection/invincibility
// time should be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0 (no protection).
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}

// Sweep disposes dead entities and compacts the slice in place.
func Sweep[T Entity](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if it.Alive() {
			kept = append(kept, it)
			continue
		}
		it.Dispose()
	}
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}

// DisposeAll disposes every entity and returns an empty slice.
func DisposeAll[T Entity](items []T) []T {
	for _, it := range items {
		it.Dispose()
	}
	clear(items)
	return items[:0]
}
