package loop

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/object"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/prefs"
	"github.com/tomz197/streetrunner/internal/scene"
	"github.com/tomz197/streetrunner/internal/state"
	"github.com/tomz197/streetrunner/internal/world"
)

// Options configures a Game. Only Tuning and Bus are required.
type Options struct {
	Tuning    *config.Tuning
	Bus       *event.Bus
	Presenter scene.Presenter // nil runs headless
	Prefs     *prefs.Prefs    // nil keeps everything in memory
	Rand      *rand.Rand
	Logger    *log.Logger
}

// Game is the orchestrator. It owns the run state, the player, the world
// generator and the critter and pickup pools, and advances them in a fixed
// order every frame.
//
// A Game belongs to one goroutine; use a Publisher to hand snapshots to others.
type Game struct {
	tuning    *config.Tuning
	bus       *event.Bus
	presenter scene.Presenter
	prefs     *prefs.Prefs
	rng       *rand.Rand
	log       *log.Logger

	state    *state.State
	player   *object.Player
	world    *world.Generator
	critters []*object.Critter
	pickups  []*object.Pickup
	toSpawn  []physics.Vec3 // critters to add after the current update cycle
	camera   scene.Camera

	runID      string
	frame      uint64
	restartSub event.Subscription
}

// New creates a game at the menu with the world generated ahead of the
// player. Mute and best score are seeded from prefs.
func New(opts Options) *Game {
	if opts.Tuning == nil {
		t := config.Default()
		opts.Tuning = &t
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus(opts.Logger)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}

	g := &Game{
		tuning:    opts.Tuning,
		bus:       opts.Bus,
		presenter: opts.Presenter,
		prefs:     opts.Prefs,
		rng:       opts.Rand,
		log:       opts.Logger,
		state:     state.New(opts.Tuning.Rules),
		camera:    scene.NewCamera(),
	}
	if g.prefs != nil {
		g.state.SetMuted(g.prefs.LoadMuted())
		g.state.SetBestScore(g.prefs.LoadBestScore())
	}
	g.build()
	g.restartSub = event.On(g.bus, func(event.RestartRequested) { g.Restart() })
	return g
}

// build creates the player and a fresh generator at the origin.
func (g *Game) build() {
	g.player = object.NewPlayer(g.presenter, g.tuning, physics.Vec3{})
	g.world = world.NewGenerator(g.presenter, g.tuning, g.rng, g.log, 0)
	g.world.OnObstacle = func(o *object.Obstacle) {
		g.bus.Publish(event.ObstacleSpawned{Position: o.Position()})
	}
	g.camera.Track(g.player.Position())
}

// teardown disposes every entity the game owns.
func (g *Game) teardown() {
	if g.player != nil {
		g.player.Dispose()
	}
	if g.world != nil {
		g.world.Dispose()
	}
	g.critters = object.DisposeAll(g.critters)
	g.pickups = object.DisposeAll(g.pickups)
	g.toSpawn = g.toSpawn[:0]
}

// Start leaves the menu, or restarts after game over. Ignored while playing.
func (g *Game) Start() {
	switch g.state.Phase() {
	case state.PhaseMenu:
		g.begin()
	case state.PhaseGameOver:
		g.Restart()
	}
}

// Restart disposes and rebuilds the player, every pool and the generator,
// then begins a new run. Only acts at game over. Best score, best combo and
// mute carry over.
func (g *Game) Restart() {
	if g.state.Phase() != state.PhaseGameOver {
		return
	}
	g.teardown()
	g.state.Reset()
	g.build()
	g.begin()
}

func (g *Game) begin() {
	g.state.Start()
	g.runID = uuid.NewString()
	g.log.Info("run started", "run", g.runID, "best", g.state.BestScore())
	g.bus.Publish(event.GameStarted{RunID: g.runID, Lives: g.state.Lives()})
}

func (g *Game) endGame() {
	s := g.state
	s.EndGame()
	if g.prefs != nil {
		g.prefs.SaveBestScore(s.BestScore())
	}
	g.log.Info("run over", "run", g.runID, "score", s.Score(), "best", s.BestScore(), "best_combo", s.BestCombo())
	g.bus.Publish(event.GameOver{Score: s.Score(), BestScore: s.BestScore(), BestCombo: s.BestCombo()})
}

// ToggleMute flips and persists the mute preference.
func (g *Game) ToggleMute() {
	muted := !g.state.IsMuted()
	g.state.SetMuted(muted)
	if g.prefs != nil {
		g.prefs.SaveMuted(muted)
	}
	g.bus.Publish(event.MuteToggled{Muted: muted})
}

// Dispose releases every entity and drops the restart subscription.
func (g *Game) Dispose() {
	g.bus.Unsubscribe(g.restartSub)
	g.teardown()
}

func (g *Game) State() *state.State         { return g.state }
func (g *Game) Player() *object.Player      { return g.player }
func (g *Game) World() *world.Generator     { return g.world }
func (g *Game) Critters() []*object.Critter { return g.critters }
func (g *Game) Pickups() []*object.Pickup   { return g.pickups }
func (g *Game) Camera() scene.Camera        { return g.camera }
func (g *Game) Tuning() *config.Tuning      { return g.tuning }
func (g *Game) Bus() *event.Bus             { return g.bus }
func (g *Game) RunID() string               { return g.runID }
func (g *Game) Frame() uint64               { return g.frame }
