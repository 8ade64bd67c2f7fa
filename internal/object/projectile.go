package object

import (
	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Projectile is thrown by the player. Straight throws fly along -Z; targeted
// throws fly toward the aim point along a parabolic height arc.
type Projectile struct {
	body

	origin    physics.Vec3
	dir       physics.Vec3 // unit direction in the ground plane plus height slope
	speed     float64
	maxRange  float64
	travelled float64

	targeted  bool
	aimDist   float64 // distance to the aim point at launch
	arcHeight float64
}

// NewProjectile creates a straight projectile at origin.
func NewProjectile(p scene.Presenter, t config.Projectile, origin physics.Vec3) *Projectile {
	return &Projectile{
		body:     newBody(p, "projectile", origin),
		origin:   origin,
		dir:      physics.Vec3{Z: -1},
		speed:    t.Speed,
		maxRange: t.Range,
	}
}

// NewTargetedProjectile creates a projectile aimed at aim.
func NewTargetedProjectile(p scene.Presenter, t config.Projectile, origin, aim physics.Vec3) *Projectile {
	pr := NewProjectile(p, t, origin)
	delta := aim.Sub(origin)
	dist := delta.Length()
	if dist == 0 {
		return pr
	}
	pr.targeted = true
	pr.dir = delta.Scale(1 / dist)
	pr.aimDist = dist
	pr.arcHeight = t.ArcHeight
	return pr
}

// Update moves the projectile and retires it past its range.
func (p *Projectile) Update(ctx UpdateContext) bool {
	if p.destroyed {
		return true
	}

	p.remember()
	p.travelled += p.speed * ctx.Delta
	if p.travelled >= p.maxRange {
		p.MarkDestroyed()
		return true
	}

	p.pos = p.origin.Add(p.dir.Scale(p.travelled))
	if p.targeted {
		p.pos.Y += p.Arc()
	}

	p.sync()
	if p.node != nil {
		p.node.SetSpin(p.travelled)
	}
	return false
}

// Arc returns the height added by the throw arc at the current distance.
// Zero for straight throws and once the aim point is passed.
func (p *Projectile) Arc() float64 {
	if !p.targeted || p.aimDist <= 0 {
		return 0
	}
	t := p.travelled / p.aimDist
	if t <= 0 || t >= 1 {
		return 0
	}
	return p.arcHeight * 4 * t * (1 - t)
}

// Targeted reports whether the projectile was aimed at a target.
func (p *Projectile) Targeted() bool {
	return p.targeted
}

// Travelled returns the distance flown.
func (p *Projectile) Travelled() float64 {
	return p.travelled
}
