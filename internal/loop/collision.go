package loop

import (
	"math"

	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
)

// checkCollisions runs the projectile, obstacle and near-miss scans. Nothing
// moves between them, so all three read the same positions.
func (g *Game) checkCollisions(dt float64) {
	g.checkProjectileTargetCollisions()
	if g.checkPlayerObstacleCollisions(dt) && g.state.GameOver() {
		return
	}
	g.checkNearMisses()
}

// checkProjectileTargetCollisions handles projectile hits on targets. Each
// projectile is swept along this frame's move so a long frame cannot carry
// it through a target. A projectile hits at most one target, and a target
// is hit at most once.
func (g *Game) checkProjectileTargetCollisions() {
	radius := g.tuning.Projectile.HitRadius
	scan := g.tuning.Projectile.CollisionScan

	for _, p := range g.player.Projectiles() {
		if p.IsDestroyed() {
			continue
		}
		from, to := p.Previous(), p.Position()
		mid := (from.Z + to.Z) / 2
		reach := scan + math.Abs(to.Z-from.Z)/2
		for _, t := range g.world.TargetsInRange(mid, reach) {
			if !physics.SegmentInSphere(from, to, t.Position(), radius) {
				continue
			}
			if !t.Hit() {
				continue
			}
			p.MarkDestroyed()
			g.targetHit(t)
			break
		}
	}
}

func (g *Game) targetHit(t *object.Target) {
	s := g.state
	s.IncrementCombo()
	points := s.AddScore(g.tuning.Rules.TargetPoints)
	mult := s.AddScore(0)

	g.bus.Publish(event.TargetHit{Position: t.Position(), Combo: s.Combo(), Multiplier: mult, Points: points})
	g.bus.Publish(event.ScoreChanged{Score: s.Score(), BestScore: s.BestScore()})
	g.bus.Publish(event.ComboChanged{Combo: s.Combo(), BestCombo: s.BestCombo(), Multiplier: mult})
	g.SpawnCritter(t.Position())
}

// checkPlayerObstacleCollisions damages the player on the first obstacle
// overlap this frame. The test runs in the player's frame of reference: the
// obstacle's relative position is swept from the start of the frame to now.
// Returns true if the player was hit.
func (g *Game) checkPlayerObstacleCollisions(dt float64) bool {
	if g.player.Invincible() {
		return false
	}
	pos, prev := g.player.Position(), g.player.Previous()
	radius := g.tuning.Player.HitRadius
	scan := g.tuning.Obstacle.CollisionScan + math.Abs(pos.Z-prev.Z) + g.tuning.Obstacle.Speed*dt

	for _, o := range g.world.ObstaclesInRange(pos.Z, scan) {
		from := o.Previous().Sub(prev)
		to := o.Position().Sub(pos)
		if physics.SegmentDistanceSquared(from, to, physics.Vec3{}) >= radius*radius {
			continue
		}
		if !o.Collide() {
			continue
		}
		g.damagePlayer(o)
		return true
	}
	return false
}

func (g *Game) damagePlayer(o *object.Obstacle) {
	s := g.state
	dead := s.LoseLife()
	hadCombo := s.Combo() > 0
	s.ResetCombo()
	g.player.StartInvincibility()

	g.log.Debug("player hit", "lives", s.Lives())
	g.bus.Publish(event.PlayerHit{Position: o.Position(), Lives: s.Lives()})
	g.bus.Publish(event.LivesChanged{Lives: s.Lives()})
	if hadCombo {
		g.bus.Publish(event.ComboReset{Expired: false})
	}
	if dead {
		g.endGame()
	}
}

// checkNearMisses publishes a near miss for every uncollided obstacle in the
// band between the hit radius and the near-miss radius. It fires every frame
// the condition holds.
func (g *Game) checkNearMisses() {
	pos := g.player.Position()
	hit := g.tuning.Player.HitRadius
	near := g.tuning.Obstacle.NearMissRadius

	for _, o := range g.world.ObstaclesInRange(pos.Z, near) {
		d := physics.Distance(pos, o.Position())
		if d >= hit && d < near {
			g.bus.Publish(event.NearMiss{Position: o.Position(), Distance: d, Frame: g.frame})
		}
	}
}
