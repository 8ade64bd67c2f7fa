package loop

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/audio"
	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/hud"
	"github.com/tomz197/streetrunner/internal/input"
	"github.com/tomz197/streetrunner/internal/prefs"
	"github.com/tomz197/streetrunner/internal/render"
	"github.com/tomz197/streetrunner/internal/scene"
	"github.com/tomz197/streetrunner/internal/spectacle"
	"github.com/tomz197/streetrunner/internal/state"
)

// demoRestartDelay is how long the demo game lingers on game over.
const demoRestartDelay = 3.0

// SessionOptions configures one playable session. Every field is optional.
type SessionOptions struct {
	Tuning *config.Tuning
	Prefs  *prefs.Prefs
	Audio  audio.Player
	Logger *log.Logger
	Rand   *rand.Rand

	// IdleTimeout ends the session after this long without a key press.
	// Zero disables it.
	IdleTimeout time.Duration

	// Demo lets the autopilot play and restart on its own.
	Demo bool

	// Publisher receives a snapshot after every frame.
	Publisher *Publisher
}

// Session wires a Game to its collaborators: the scene graph, the spectacle
// layer, the HUD, the audio bridge and the renderer.
type Session struct {
	opts     SessionOptions
	log      *log.Logger
	bus      *event.Bus
	graph    *scene.Graph
	game     *Game
	fx       *spectacle.Layer
	hud      *hud.HUD
	bridge   *audio.Bridge
	renderer *render.Renderer
	keys     *input.Keys
	pilot    *input.Autopilot

	phase     state.Phase
	overTimer float64
	idleWarn  bool
	started   time.Time
}

// NewSession builds a session at the menu.
func NewSession(opts SessionOptions) *Session {
	if opts.Tuning == nil {
		t := config.Default()
		opts.Tuning = &t
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger

	lib, err := scene.NewDefaultLibrary(logger)
	if err != nil {
		logger.Warn("model catalog unavailable, using placeholders", "err", err)
	}

	s := &Session{
		opts:     opts,
		log:      logger,
		bus:      event.NewBus(logger),
		graph:    scene.NewGraph(lib),
		renderer: render.New(nil),
		keys:     input.NewKeys(),
		started:  time.Now(),
	}
	s.game = New(Options{
		Tuning:    opts.Tuning,
		Bus:       s.bus,
		Presenter: s.graph,
		Prefs:     opts.Prefs,
		Rand:      opts.Rand,
		Logger:    logger,
	})
	st := s.game.State()
	s.fx = spectacle.New(s.bus, opts.Tuning.Spectacle, st, opts.Rand, logger)
	s.hud = hud.New(s.bus, logger)
	s.hud.SetBest(st.BestScore(), st.BestCombo())
	s.hud.SetMuted(st.IsMuted())
	s.bridge = audio.NewBridge(s.bus, opts.Audio, st.IsMuted, logger)

	if opts.Demo {
		src := s.game.Snapshot
		if opts.Publisher != nil {
			src = opts.Publisher.Latest
		}
		s.pilot = input.NewAutopilot(src)
		s.pilot.HalfWidth = opts.Tuning.Player.PathHalfWidth
	}
	s.phase = st.Phase()
	return s
}

func (s *Session) controls() input.Controls {
	if s.pilot != nil {
		return s.pilot
	}
	return s.keys
}

// Step handles meta commands and advances the game, the spectacle layer and
// the published snapshot by dt seconds. It returns true when the session
// should end.
func (s *Session) Step(dt float64) (quit bool) {
	g := s.game
	k := s.keys

	if k.ConsumeCommand(input.CommandQuit) {
		return true
	}
	if s.idle() {
		s.log.Info("session idle, disconnecting")
		return true
	}
	if k.ConsumeCommand(input.CommandMute) {
		g.ToggleMute()
	}

	switch g.State().Phase() {
	case state.PhaseMenu:
		if k.ConsumeCommand(input.CommandStart) || s.pilot != nil {
			g.Start()
		}
	case state.PhasePlaying:
		k.ConsumeCommand(input.CommandStart)
		k.ConsumeCommand(input.CommandRestart)
	case state.PhaseGameOver:
		s.overTimer += dt
		if k.ConsumeCommand(input.CommandRestart) || (s.pilot != nil && s.overTimer >= demoRestartDelay) {
			s.hud.RequestRestart()
		}
	}

	if s.pilot != nil {
		s.pilot.Advance(dt)
	}
	g.Update(dt, s.controls())
	s.fx.Update(dt)

	if p := g.State().Phase(); p != s.phase {
		s.phase = p
		s.overTimer = 0
		k.Reset()
	}
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(g.Snapshot())
	}
	return false
}

// idle reports whether the idle timeout has passed and updates the warning.
func (s *Session) idle() bool {
	if s.opts.IdleTimeout <= 0 || s.pilot != nil {
		return false
	}
	last := s.keys.LastPress()
	if last.IsZero() {
		last = s.started
	}
	since := time.Since(last)
	s.idleWarn = since > s.opts.IdleTimeout*2/3
	return since > s.opts.IdleTimeout
}

func (s *Session) Game() *Game               { return s.game }
func (s *Session) Keys() *input.Keys         { return s.keys }
func (s *Session) Bus() *event.Bus           { return s.bus }
func (s *Session) Graph() *scene.Graph       { return s.graph }
func (s *Session) Effects() *spectacle.Layer { return s.fx }
func (s *Session) HUD() *hud.HUD             { return s.hud }

// Close tears down the game and every subscriber.
func (s *Session) Close() {
	s.bridge.Close()
	s.hud.Close()
	s.fx.Dispose()
	s.game.Dispose()
	s.bus.RemoveAll()
}
