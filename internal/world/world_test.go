package world

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

type fixture struct {
	tuning config.Tuning
	graph  *scene.Graph
	gen    *Generator
}

func newFixture(t *testing.T, mutate func(*config.Tuning)) *fixture {
	t.Helper()
	quiet := log.New(io.Discard)
	lib, err := scene.NewDefaultLibrary(quiet)
	require.NoError(t, err)

	f := &fixture{tuning: config.Default(), graph: scene.NewGraph(lib)}
	if mutate != nil {
		mutate(&f.tuning)
	}
	f.gen = NewGenerator(f.graph, &f.tuning, rand.New(rand.NewSource(42)), quiet, 0)
	return f
}

func (f *fixture) step(playerZ, dt, speed float64) {
	f.gen.Update(object.UpdateContext{
		Delta:  dt,
		Player: physics.Vec3{Z: playerZ},
		Speed:  speed,
		Tuning: &f.tuning,
	})
}

func TestPrefillCoversSpawnWindow(t *testing.T) {
	f := newFixture(t, nil)
	w := f.tuning.World

	assert.LessOrEqual(t, f.gen.GeneratedZ(), -w.SpawnDistance)
	assert.Greater(t, f.gen.GeneratedZ(), -w.SpawnDistance-w.RowSpacing)
	assert.LessOrEqual(t, f.gen.SceneryZ(), -w.SceneryAhead)
	assert.NotEmpty(t, f.gen.Segments())
}

func TestWindowRefilledEveryUpdate(t *testing.T) {
	f := newFixture(t, nil)
	w := f.tuning.World

	z := 0.0
	prev := f.gen.GeneratedZ()
	for i := 0; i < 2000; i++ {
		dt := 1.0 / 60
		if i%97 == 0 {
			dt = 0.1 // clamped stall
		}
		z -= 30 * dt
		f.step(z, dt, 30)

		gz := f.gen.GeneratedZ()
		require.LessOrEqual(t, gz, z-w.SpawnDistance, "frame %d", i)
		require.LessOrEqual(t, gz, prev, "generatedZ only decreases")
		prev = gz
	}
}

func TestRowsPlaceZeroToTwoTargets(t *testing.T) {
	f := newFixture(t, nil)
	rows := map[float64]int{}
	for _, tg := range f.gen.Targets() {
		rows[tg.Position().Z]++
		assert.Equal(t, f.tuning.World.TargetOffset, abs(tg.Position().X))
	}
	for z, n := range rows {
		assert.LessOrEqual(t, n, 2, "row %v", z)
	}
}

func TestSideChanceZeroPlacesNoTargets(t *testing.T) {
	f := newFixture(t, func(tn *config.Tuning) { tn.World.TargetSideChance = 0 })
	assert.Empty(t, f.gen.Targets())

	f = newFixture(t, func(tn *config.Tuning) { tn.World.TargetSideChance = 1 })
	rows := int(f.tuning.World.SpawnDistance / f.tuning.World.RowSpacing)
	assert.Len(t, f.gen.Targets(), rows*2)
}

func TestCleanupBehindPlayer(t *testing.T) {
	f := newFixture(t, func(tn *config.Tuning) { tn.World.TargetSideChance = 1 })
	limitBehind := f.tuning.World.CleanupDistance

	z := -200.0
	f.step(z, 0.01, 0)

	for _, tg := range f.gen.Targets() {
		assert.LessOrEqual(t, tg.Position().Z, z+limitBehind)
	}
	for _, s := range f.gen.Segments() {
		assert.LessOrEqual(t, s.FarZ(), z+limitBehind)
	}
}

func TestObstacleSpawnCadence(t *testing.T) {
	f := newFixture(t, nil)
	spawned := 0
	f.gen.OnObstacle = func(*object.Obstacle) { spawned++ }

	f.step(0, f.tuning.Obstacle.FirstSpawnDelay-0.01, 12)
	assert.Equal(t, 0, spawned)
	f.step(0, 0.02, 12)
	assert.Equal(t, 1, spawned)

	o := f.gen.Obstacles()[0]
	assert.InDelta(t, -f.tuning.Obstacle.SpawnAhead, o.Position().Z, 0.5)
	assert.LessOrEqual(t, abs(o.Position().X), f.tuning.Player.PathHalfWidth)

	next := f.gen.Spawner().Remaining()
	lo := f.tuning.Obstacle.IntervalMax * (1 - f.tuning.Obstacle.Jitter)
	hi := f.tuning.Obstacle.IntervalMax * (1 + f.tuning.Obstacle.Jitter)
	assert.GreaterOrEqual(t, next, lo)
	assert.LessOrEqual(t, next, hi)
}

func TestSpawnIntervalShrinksWithSpeed(t *testing.T) {
	tn := config.Default()
	s := NewObstacleSpawner(tn.Obstacle, tn.Rules)
	assert.Equal(t, tn.Obstacle.IntervalMax, s.Interval(tn.Rules.InitialSpeed))
	assert.InDelta(t, tn.Obstacle.IntervalMin, s.Interval(tn.Rules.MaxSpeed), 1e-9)
	assert.InDelta(t, tn.Obstacle.IntervalMin, s.Interval(1000), 1e-9)
	mid := s.Interval((tn.Rules.InitialSpeed + tn.Rules.MaxSpeed) / 2)
	assert.InDelta(t, (tn.Obstacle.IntervalMax+tn.Obstacle.IntervalMin)/2, mid, 1e-9)
}

func TestDeadObstaclesRemoved(t *testing.T) {
	f := newFixture(t, nil)
	o := f.gen.AddObstacle(physics.Vec3{Z: -5})
	before := f.graph.Len()

	o.MarkDestroyed()
	f.step(0, 0.001, 0)

	assert.NotContains(t, f.gen.Obstacles(), o)
	assert.Equal(t, before-1, f.graph.Len())
}

func TestResetMatchesConstruction(t *testing.T) {
	f := newFixture(t, nil)
	fresh := f.gen.GeneratedZ()
	freshScenery := f.gen.SceneryZ()

	for i := 0; i < 300; i++ {
		f.step(-float64(i), 0.05, 20)
	}
	require.NotEmpty(t, f.gen.Obstacles())

	f.gen.Reset(0)
	assert.Equal(t, fresh, f.gen.GeneratedZ())
	assert.Equal(t, freshScenery, f.gen.SceneryZ())
	assert.Empty(t, f.gen.Obstacles())
	assert.Equal(t, f.tuning.Obstacle.FirstSpawnDelay, f.gen.Spawner().Remaining())

	f.gen.Dispose()
	assert.Equal(t, 0, f.graph.Len(), "no leaked nodes")
}

func TestInRangeFilters(t *testing.T) {
	f := newFixture(t, func(tn *config.Tuning) { tn.World.TargetSideChance = 0 })
	near := f.gen.AddTarget(physics.Vec3{Z: -10})
	hit := f.gen.AddTarget(physics.Vec3{Z: -12})
	far := f.gen.AddTarget(physics.Vec3{Z: -80})
	dead := f.gen.AddTarget(physics.Vec3{Z: -5})
	hit.Hit()
	dead.MarkDestroyed()

	got := f.gen.TargetsInRange(0, 50)
	assert.Equal(t, []*object.Target{near}, got)
	assert.NotContains(t, got, far)

	o := f.gen.AddObstacle(physics.Vec3{Z: -2})
	assert.Len(t, f.gen.ObstaclesInRange(0, 4), 1)
	o.Collide()
	assert.Empty(t, f.gen.ObstaclesInRange(0, 4))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
