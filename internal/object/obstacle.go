package object

import (
	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Obstacle moves toward the player and damages on contact, at most once.
type Obstacle struct {
	body

	Speed          float64 // Units per second toward +Z
	RetireDistance float64 // Distance behind the player at which it retires
	RotationSpeed  float64 // Cosmetic spin, radians/sec

	angle    float64
	collided bool
}

// NewObstacle creates an obstacle at pos.
func NewObstacle(p scene.Presenter, t config.Obstacle, pos physics.Vec3, rotation float64) *Obstacle {
	return &Obstacle{
		body:           newBody(p, "obstacle", pos),
		Speed:          t.Speed,
		RetireDistance: t.RetireDistance,
		RotationSpeed:  rotation,
	}
}

// Update moves the obstacle and retires it once it is behind the player.
func (a *Obstacle) Update(ctx UpdateContext) bool {
	if a.destroyed {
		return true
	}

	dt := ctx.Delta
	a.remember()
	a.pos.Z += a.Speed * dt
	a.angle += a.RotationSpeed * dt

	if a.pos.Z > ctx.Player.Z+a.RetireDistance {
		a.MarkDestroyed()
		return true
	}

	a.sync()
	if a.node != nil {
		a.node.SetSpin(a.angle)
	}
	return false
}

// Collide marks the obstacle as having hit the player. Returns false if it
// already had.
func (a *Obstacle) Collide() bool {
	if a.collided {
		return false
	}
	a.collided = true
	if a.node != nil {
		a.node.SetDim(true)
	}
	return true
}

// Collided reports whether the obstacle has damaged the player.
func (a *Obstacle) Collided() bool {
	return a.collided
}
