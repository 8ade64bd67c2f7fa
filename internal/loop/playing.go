package loop

import (
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/input"
	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/state"
)

// Update advances the game by dt seconds. dt is clamped to the configured
// maximum. Outside the playing phase the world stays frozen.
func (g *Game) Update(dt float64, c input.Controls) {
	dt = physics.Clamp(dt, 0, g.tuning.Frame.MaxDelta)
	g.frame++

	if g.state.Phase() == state.PhasePlaying {
		g.updatePlaying(dt, c)
	}
	g.camera.Track(g.player.Position())
}

// updatePlaying runs one playing frame in order: throw, player, world,
// collisions, critters, pickups, combo timer.
func (g *Game) updatePlaying(dt float64, c input.Controls) {
	s := g.state
	s.Accelerate(dt)

	if c != nil && c.ConsumeThrow() {
		g.throw()
	}

	ctx := object.UpdateContext{
		Delta:  dt,
		Player: g.player.Position(),
		Speed:  s.CurrentSpeed(),
		Tuning: g.tuning,
		Rand:   g.rng,
	}
	if c != nil {
		ctx.Lateral = input.Steer(c)
	}
	g.player.Update(ctx)
	ctx.Player = g.player.Position()

	g.world.Update(ctx)

	g.checkCollisions(dt)
	if s.GameOver() {
		g.FlushSpawned()
		return
	}

	g.updateCritters(ctx)
	g.updatePickups(ctx)
	g.FlushSpawned()

	if s.UpdateComboTimer(dt) {
		g.bus.Publish(event.ComboReset{Expired: true})
	}
}

// throw aims at the nearest unhit target ahead, or straight ahead when there
// is none. Requests during the cooldown are dropped.
func (g *Game) throw() {
	if !g.player.CanThrow() {
		return
	}
	var aim *physics.Vec3
	if t := g.nearestTarget(); t != nil {
		p := t.Position()
		aim = &p
	}
	pr := g.player.Throw(aim)
	if pr == nil {
		return
	}
	g.bus.Publish(event.ProjectileThrown{Position: pr.Position(), Targeted: pr.Targeted()})
}

// nearestTarget returns the closest unhit target ahead of the player within
// the throw scan range. Ties go to the first one found.
func (g *Game) nearestTarget() *object.Target {
	pos := g.player.Position()
	scan := g.tuning.Projectile.ThrowScanRange

	var best *object.Target
	bestDist := 0.0
	for _, t := range g.world.Targets() {
		if !t.Alive() || t.IsHit() {
			continue
		}
		ahead := pos.Z - t.Position().Z
		if ahead <= 0 || ahead > scan {
			continue
		}
		d := physics.DistanceSquared(pos, t.Position())
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// updateCritters advances critters and spawns the pickups they dropped,
// including the last ones of a critter that expired this frame.
func (g *Game) updateCritters(ctx object.UpdateContext) {
	for _, c := range g.critters {
		c.Update(ctx)
		for _, pos := range c.DrainPickups() {
			g.spawnPickup(pos)
		}
	}
	g.critters = object.Sweep(g.critters)
}

func (g *Game) spawnPickup(pos physics.Vec3) {
	g.pickups = append(g.pickups, object.NewPickup(g.presenter, g.tuning.Pickup, pos))
	g.bus.Publish(event.PickupSpawned{Position: pos})
}

// updatePickups advances pickups and collects those the player touches.
func (g *Game) updatePickups(ctx object.UpdateContext) {
	pos := g.player.Position()
	radius := g.tuning.Pickup.CollectRadius
	for _, p := range g.pickups {
		p.Update(ctx)
		if !p.Alive() || p.Collected() {
			continue
		}
		if physics.Distance(pos, p.Position()) > radius {
			continue
		}
		if p.Collect() {
			g.collect(p)
		}
	}
	g.pickups = object.Sweep(g.pickups)
}

func (g *Game) collect(p *object.Pickup) {
	s := g.state
	points := s.AddScore(g.tuning.Rules.PickupPoints)
	g.bus.Publish(event.PickupCollected{Position: p.Position(), Points: points})
	g.bus.Publish(event.ScoreChanged{Score: s.Score(), BestScore: s.BestScore()})
}

// SpawnCritter queues a critter at pos. It joins the pool after the current
// update cycle.
func (g *Game) SpawnCritter(pos physics.Vec3) {
	g.toSpawn = append(g.toSpawn, pos)
}

// FlushSpawned adds all queued critters and clears the queue.
func (g *Game) FlushSpawned() {
	for _, pos := range g.toSpawn {
		g.critters = append(g.critters, object.NewCritter(g.presenter, g.tuning.Critter, pos, g.rng))
	}
	g.toSpawn = g.toSpawn[:0]
}
