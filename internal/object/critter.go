package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Critter is the reaction entity released by a hit target. It flees, drops
// pickups at a fixed interval, and expires.
type Critter struct {
	body

	cfg         config.Critter
	dir         physics.Vec3
	age         float64
	emitTimer   float64
	jitterTimer float64
	pending     []physics.Vec3
}

// NewCritter creates a critter at pos fleeing toward the path center and
// ahead, with a random spread.
func NewCritter(p scene.Presenter, t config.Critter, pos physics.Vec3, rng *rand.Rand) *Critter {
	side := -1.0
	if pos.X < 0 {
		side = 1
	}
	heading := math.Atan2(side, -1) // toward center and -Z
	if rng != nil {
		heading += (rng.Float64()*2 - 1) * math.Pi / 6
	}
	return &Critter{
		body:        newBody(p, "critter", pos),
		cfg:         t,
		dir:         physics.Vec3{X: math.Sin(heading), Z: math.Cos(heading)},
		emitTimer:   t.PickupInterval,
		jitterTimer: t.JitterInterval,
	}
}

// Update moves the critter, queues pickups and expires it after its lifetime.
func (c *Critter) Update(ctx UpdateContext) bool {
	if c.destroyed {
		return true
	}
	dt := ctx.Delta

	c.age += dt
	if c.age >= c.cfg.Lifetime {
		c.MarkDestroyed()
		return true
	}

	c.jitterTimer -= dt
	if c.jitterTimer <= 0 {
		c.jitterTimer += c.cfg.JitterInterval
		if ctx.Rand != nil {
			c.turn((ctx.Rand.Float64()*2 - 1) * c.cfg.JitterAngle)
		}
	}

	c.pos = c.pos.Add(c.dir.Scale(c.cfg.Speed * dt))

	c.emitTimer -= dt
	if c.emitTimer <= 0 {
		c.emitTimer += c.cfg.PickupInterval
		drop := c.pos
		drop.Y = 0
		c.pending = append(c.pending, drop)
	}

	c.sync()
	return false
}

// turn rotates the heading in the ground plane.
func (c *Critter) turn(angle float64) {
	sin, cos := math.Sincos(angle)
	c.dir = physics.Vec3{
		X: c.dir.X*cos - c.dir.Z*sin,
		Z: c.dir.X*sin + c.dir.Z*cos,
	}
}

// DrainPickups returns and clears the pickup positions queued since the last call.
func (c *Critter) DrainPickups() []physics.Vec3 {
	if len(c.pending) == 0 {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}

// Direction returns the current unit heading.
func (c *Critter) Direction() physics.Vec3 {
	return c.dir
}
