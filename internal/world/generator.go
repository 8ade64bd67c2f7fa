// Package world generates the street ahead of the player and retires what
// falls behind.
package world

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Generator owns the target, obstacle and scenery pools. Rows of targets are
// generated at fixed spacing up to SpawnDistance ahead of the player; scenery
// extends independently up to SceneryAhead.
type Generator struct {
	presenter scene.Presenter
	tuning    *config.Tuning
	rng       *rand.Rand
	log       *log.Logger

	targets   []*object.Target
	obstacles []*object.Obstacle
	segments  []*object.Segment

	generatedZ float64 // far edge of generated rows; only decreases
	sceneryZ   float64 // far edge of the last segment
	spawner    *ObstacleSpawner

	// OnObstacle is called for every spawned obstacle.
	OnObstacle func(o *object.Obstacle)

	targetBuf   []*object.Target
	obstacleBuf []*object.Obstacle
}

// NewGenerator creates a generator and pre-fills the window ahead of playerZ.
func NewGenerator(p scene.Presenter, t *config.Tuning, rng *rand.Rand, logger *log.Logger, playerZ float64) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	g := &Generator{
		presenter: p,
		tuning:    t,
		rng:       rng,
		log:       logger,
		spawner:   NewObstacleSpawner(t.Obstacle, t.Rules),
	}
	g.Reset(playerZ)
	return g
}

// Reset disposes everything and regenerates as on construction.
func (g *Generator) Reset(playerZ float64) {
	g.targets = object.DisposeAll(g.targets)
	g.obstacles = object.DisposeAll(g.obstacles)
	g.segments = object.DisposeAll(g.segments)

	g.generatedZ = playerZ
	g.sceneryZ = playerZ + g.tuning.World.CleanupDistance
	g.spawner.Reset()

	g.fillRows(playerZ)
	g.extendScenery(playerZ)
}

// Update generates, spawns, advances and cleans up for this frame.
func (g *Generator) Update(ctx object.UpdateContext) {
	playerZ := ctx.Player.Z

	g.fillRows(playerZ)
	g.extendScenery(playerZ)

	if g.spawner.Update(ctx.Delta, ctx.Speed, g.rng) {
		g.spawnObstacle(ctx.Player)
	}

	for _, t := range g.targets {
		t.Update(ctx)
	}
	for _, o := range g.obstacles {
		o.Update(ctx)
	}

	g.cleanup(playerZ)
}

func (g *Generator) fillRows(playerZ float64) {
	w := g.tuning.World
	for g.generatedZ > playerZ-w.SpawnDistance {
		g.generatedZ -= w.RowSpacing
		g.generateRow(g.generatedZ)
	}
}

// generateRow places 0-2 targets; each side is included independently.
func (g *Generator) generateRow(z float64) {
	w := g.tuning.World
	for _, side := range [2]float64{-1, 1} {
		if g.rng.Float64() >= w.TargetSideChance {
			continue
		}
		pos := physics.Vec3{X: side * w.TargetOffset, Y: w.TargetHeight, Z: z}
		g.targets = append(g.targets, object.NewTarget(g.presenter, pos, g.tuning.Spectacle.FlashDuration))
	}
}

func (g *Generator) extendScenery(playerZ float64) {
	w := g.tuning.World
	for g.sceneryZ > playerZ-w.SceneryAhead {
		near := physics.Vec3{Z: g.sceneryZ}
		g.segments = append(g.segments, object.NewSegment(g.presenter, near, w.SegmentLength, g.props()))
		g.sceneryZ -= w.SegmentLength
	}
}

func (g *Generator) props() []object.Prop {
	edge := g.tuning.Player.PathHalfWidth + 1
	props := []object.Prop{
		{Model: "lamp", Offset: physics.Vec3{X: -edge}},
		{Model: "lamp", Offset: physics.Vec3{X: edge}},
	}
	if g.rng.Intn(2) == 0 {
		side := 1.0
		if g.rng.Intn(2) == 0 {
			side = -1
		}
		props = append(props, object.Prop{
			Model:  "building",
			Offset: physics.Vec3{X: side * (edge + 4), Z: -g.tuning.World.SegmentLength / 2},
		})
	}
	return props
}

func (g *Generator) spawnObstacle(player physics.Vec3) {
	cfg := g.tuning.Obstacle
	half := g.tuning.Player.PathHalfWidth
	pos := physics.Vec3{
		X: (g.rng.Float64()*2 - 1) * half,
		Z: player.Z - cfg.SpawnAhead,
	}
	rotation := (g.rng.Float64() - 0.5) * 2
	o := object.NewObstacle(g.presenter, cfg, pos, rotation)
	g.obstacles = append(g.obstacles, o)
	g.log.Debug("obstacle spawned", "x", pos.X, "z", pos.Z)
	if g.OnObstacle != nil {
		g.OnObstacle(o)
	}
}

// AddObstacle places an obstacle directly, bypassing the spawn timer.
func (g *Generator) AddObstacle(pos physics.Vec3) *object.Obstacle {
	o := object.NewObstacle(g.presenter, g.tuning.Obstacle, pos, 0)
	g.obstacles = append(g.obstacles, o)
	if g.OnObstacle != nil {
		g.OnObstacle(o)
	}
	return o
}

// AddTarget places a target directly, outside row generation.
func (g *Generator) AddTarget(pos physics.Vec3) *object.Target {
	t := object.NewTarget(g.presenter, pos, g.tuning.Spectacle.FlashDuration)
	g.targets = append(g.targets, t)
	return t
}

// cleanup retires targets and scenery too far behind, and dead obstacles.
func (g *Generator) cleanup(playerZ float64) {
	limit := playerZ + g.tuning.World.CleanupDistance

	for _, t := range g.targets {
		if t.Position().Z > limit {
			t.MarkDestroyed()
		}
	}
	g.targets = object.Sweep(g.targets)

	for _, s := range g.segments {
		if s.FarZ() > limit {
			s.MarkDestroyed()
		}
	}
	g.segments = object.Sweep(g.segments)

	g.obstacles = object.Sweep(g.obstacles)
}

// TargetsInRange returns live, unhit targets within rng of z. The slice is
// reused by the next call.
func (g *Generator) TargetsInRange(z, rng float64) []*object.Target {
	g.targetBuf = InRange(g.targetBuf[:0], g.targets, z, rng, func(t *object.Target) bool {
		return !t.IsHit()
	})
	return g.targetBuf
}

// ObstaclesInRange returns live obstacles that have not collided, within rng
// of z. The slice is reused by the next call.
func (g *Generator) ObstaclesInRange(z, rng float64) []*object.Obstacle {
	g.obstacleBuf = InRange(g.obstacleBuf[:0], g.obstacles, z, rng, func(o *object.Obstacle) bool {
		return !o.Collided()
	})
	return g.obstacleBuf
}

func (g *Generator) Targets() []*object.Target     { return g.targets }
func (g *Generator) Obstacles() []*object.Obstacle { return g.obstacles }
func (g *Generator) Segments() []*object.Segment   { return g.segments }
func (g *Generator) GeneratedZ() float64           { return g.generatedZ }
func (g *Generator) SceneryZ() float64             { return g.sceneryZ }
func (g *Generator) Spawner() *ObstacleSpawner     { return g.spawner }

// Dispose releases every owned entity.
func (g *Generator) Dispose() {
	g.targets = object.DisposeAll(g.targets)
	g.obstacles = object.DisposeAll(g.obstacles)
	g.segments = object.DisposeAll(g.segments)
}
