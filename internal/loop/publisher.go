package loop

import (
	"math"
	"sync/atomic"

	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/snapshot"
)

// Snapshot returns a point-in-time copy of the run with every entity within
// the snapshot range of the player. Reading it never changes the game.
func (g *Game) Snapshot() *snapshot.Snapshot {
	s := g.state
	pos := g.player.Position()
	snap := &snapshot.Snapshot{
		RunID:      g.runID,
		Frame:      g.frame,
		Phase:      s.Phase().String(),
		Score:      s.Score(),
		BestScore:  s.BestScore(),
		Lives:      s.Lives(),
		Combo:      s.Combo(),
		BestCombo:  s.BestCombo(),
		Multiplier: s.AddScore(0),
		Speed:      s.CurrentSpeed(),
		Muted:      s.IsMuted(),
		Invincible: g.player.Invincible(),
		CanThrow:   g.player.CanThrow(),
		Player:     snapshot.FromVec3(pos),
		Entities:   make([]snapshot.Entity, 0, 32),
	}

	rng := g.tuning.World.SnapshotRange
	add := func(k snapshot.Kind, e object.Collidable, hit bool) {
		p := e.Position()
		if !e.Alive() || math.Abs(p.Z-pos.Z) > rng {
			return
		}
		snap.Entities = append(snap.Entities, snapshot.Entity{Kind: k, Position: snapshot.FromVec3(p), Hit: hit})
	}
	for _, t := range g.world.Targets() {
		add(snapshot.KindTarget, t, t.IsHit())
	}
	for _, o := range g.world.Obstacles() {
		add(snapshot.KindObstacle, o, o.Collided())
	}
	for _, p := range g.pickups {
		add(snapshot.KindPickup, p, p.Collected())
	}
	for _, p := range g.player.Projectiles() {
		add(snapshot.KindProjectile, p, false)
	}
	for _, c := range g.critters {
		add(snapshot.KindCritter, c, false)
	}
	return snap
}

// Publisher hands the latest snapshot from the frame loop to other
// goroutines without locking the simulation.
type Publisher struct {
	latest atomic.Pointer[snapshot.Snapshot]
}

// NewPublisher creates a publisher holding an empty menu snapshot.
func NewPublisher() *Publisher {
	p := &Publisher{}
	p.latest.Store(&snapshot.Snapshot{
		Phase:    "menu",
		Player:   snapshot.FromVec3(physics.Vec3{}),
		Entities: []snapshot.Entity{},
	})
	return p
}

// Publish stores s as the latest snapshot. s must not be modified afterwards.
func (p *Publisher) Publish(s *snapshot.Snapshot) {
	p.latest.Store(s)
}

// Latest returns the most recent snapshot. Never nil.
func (p *Publisher) Latest() *snapshot.Snapshot {
	return p.latest.Load()
}
