package object

import (
	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Player is the runner. It auto-advances toward -Z and steers laterally.
type Player struct {
	body

	LateralSpeed  float64 // Units per second at full steer
	PathHalfWidth float64 // |X| never exceeds this
	ThrowCooldown float64 // Minimum seconds between throws
	Invincibility float64 // Seconds of protection after damage
	BlinkHz       float64

	throwTimer  float64 // Time until next throw allowed
	invincible  float64 // Remaining protection
	projectiles []*Projectile
	projTuning  config.Projectile
}

// NewPlayer creates a player at pos.
func NewPlayer(p scene.Presenter, t *config.Tuning, pos physics.Vec3) *Player {
	return &Player{
		body:          newBody(p, "player", pos),
		LateralSpeed:  t.Player.LateralSpeed,
		PathHalfWidth: t.Player.PathHalfWidth,
		ThrowCooldown: t.Player.ThrowCooldown,
		Invincibility: t.Player.Invincibility,
		BlinkHz:       t.Player.BlinkHz,
		projTuning:    t.Projectile,
	}
}

// Update handles steering, forward motion, timers and owned projectiles.
func (u *Player) Update(ctx UpdateContext) bool {
	dt := ctx.Delta
	u.remember()

	u.pos.X = physics.Clamp(u.pos.X+ctx.Lateral*u.LateralSpeed*dt, -u.PathHalfWidth, u.PathHalfWidth)
	u.pos.Z -= ctx.Speed * dt

	u.throwTimer = max(0, u.throwTimer-dt)
	u.invincible = max(0, u.invincible-dt)

	u.sync()
	if u.node != nil {
		u.node.SetVisible(ShouldRenderBlink(u.invincible, u.BlinkHz))
	}

	for _, p := range u.projectiles {
		p.Update(ctx)
	}
	u.projectiles = Sweep(u.projectiles)

	return false
}

// CanThrow reports whether the cooldown has elapsed.
func (u *Player) CanThrow() bool {
	return u.throwTimer <= 0
}

// Throw spawns a projectile toward aim, or straight ahead when aim is nil.
// Returns nil while on cooldown.
func (u *Player) Throw(aim *physics.Vec3) *Projectile {
	if !u.CanThrow() || u.destroyed {
		return nil
	}
	u.throwTimer = u.ThrowCooldown

	origin := u.pos
	origin.Y += u.projTuning.LaunchHeight

	var pr *Projectile
	if aim != nil {
		pr = NewTargetedProjectile(u.presenter, u.projTuning, origin, *aim)
	} else {
		pr = NewProjectile(u.presenter, u.projTuning, origin)
	}
	u.projectiles = append(u.projectiles, pr)
	return pr
}

// Projectiles returns the live owned projectiles. The slice must not be retained.
func (u *Player) Projectiles() []*Projectile {
	return u.projectiles
}

// Invincible reports whether damage is currently ignored.
func (u *Player) Invincible() bool {
	return u.invincible > 0
}

// InvincibleRemaining returns remaining protection in seconds.
func (u *Player) InvincibleRemaining() float64 {
	return u.invincible
}

// StartInvincibility begins the post-damage protection window.
func (u *Player) StartInvincibility() {
	u.invincible = u.Invincibility
}

// Dispose removes the player and every owned projectile.
func (u *Player) Dispose() {
	u.projectiles = DisposeAll(u.projectiles)
	u.body.Dispose()
}
