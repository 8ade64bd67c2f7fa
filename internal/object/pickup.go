package object

import (
	"math"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Pickup is a collectible dropped by a critter.
type Pickup struct {
	body

	cfg       config.Pickup
	base      physics.Vec3
	age       float64
	collected bool
	collectT  float64 // time spent in the collected animation
}

// NewPickup creates a pickup resting at pos.
func NewPickup(p scene.Presenter, t config.Pickup, pos physics.Vec3) *Pickup {
	return &Pickup{
		body: newBody(p, "pickup", pos),
		cfg:  t,
		base: pos,
	}
}

// Update bobs and spins the pickup, plays the collect animation, and expires
// it after its lifetime.
func (p *Pickup) Update(ctx UpdateContext) bool {
	if p.destroyed {
		return true
	}
	dt := ctx.Delta

	if p.collected {
		p.collectT += dt
		if p.collectT >= p.cfg.CollectTime {
			p.MarkDestroyed()
			return true
		}
		// Rise and shrink toward nothing.
		progress := p.collectT / p.cfg.CollectTime
		p.pos = p.base
		p.pos.Y += progress
		p.sync()
		if p.node != nil {
			p.node.SetScale(1 - progress)
		}
		return false
	}

	p.age += dt
	if p.age >= p.cfg.Lifetime {
		p.MarkDestroyed()
		return true
	}

	p.pos = p.base
	p.pos.Y += math.Sin(p.age*math.Pi*2) * p.cfg.BobHeight
	p.sync()
	if p.node != nil {
		p.node.SetSpin(p.age * p.cfg.SpinSpeed)
	}
	return false
}

// Collect starts the collected animation. Returns false if already collected
// or dead.
func (p *Pickup) Collect() bool {
	if p.collected || p.destroyed {
		return false
	}
	p.collected = true
	return true
}

// Collected reports whether Collect has succeeded.
func (p *Pickup) Collected() bool {
	return p.collected
}
