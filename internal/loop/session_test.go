package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/input"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/prefs"
	"github.com/tomz197/streetrunner/internal/state"
)

func newSession(t *testing.T, opts SessionOptions) *Session {
	t.Helper()
	if opts.Tuning == nil {
		opts.Tuning = quietTuning()
	}
	opts.Logger = log.New(io.Discard)
	opts.Rand = rand.New(rand.NewSource(3))
	s := NewSession(opts)
	t.Cleanup(s.Close)
	return s
}

func screenText(g *draw.Grid) string {
	w, h := g.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sb.WriteRune(g.Cell(x, y).Rune)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestSessionCommands(t *testing.T) {
	store := &prefs.MemoryStore{}
	s := newSession(t, SessionOptions{Prefs: prefs.New(store, nil)})
	k := s.Keys()

	assert.False(t, s.Step(frame))
	assert.Equal(t, state.PhaseMenu, s.Game().State().Phase())

	k.Press(input.KeyStart)
	assert.False(t, s.Step(frame))
	assert.Equal(t, state.PhasePlaying, s.Game().State().Phase())
	assert.True(t, s.HUD().View().Playing)

	k.Press(input.KeyMute)
	s.Step(frame)
	assert.True(t, s.Game().State().IsMuted())
	assert.True(t, s.HUD().View().Muted)
	assert.True(t, prefs.New(store, nil).LoadMuted())

	k.Press(input.KeyQuit)
	assert.True(t, s.Step(frame))
}

func TestSessionRestartKey(t *testing.T) {
	tuning := quietTuning()
	tuning.Rules.InitialLives = 1
	s := newSession(t, SessionOptions{Tuning: tuning})
	k := s.Keys()

	k.Press(input.KeyStart)
	s.Step(frame)
	k.Press(input.KeyRestart)
	s.Step(frame)
	assert.Equal(t, state.PhasePlaying, s.Game().State().Phase(), "restart ignored while playing")

	s.Game().World().AddObstacle(physics.Vec3{Z: s.Game().Player().Position().Z - 0.5})
	s.Step(frame)
	require.Equal(t, state.PhaseGameOver, s.Game().State().Phase())
	assert.True(t, s.HUD().View().GameOver)

	k.Press(input.KeyThrow)
	s.Step(frame)
	assert.Equal(t, state.PhaseGameOver, s.Game().State().Phase(), "throw does not restart")

	k.Press(input.KeyRestart)
	s.Step(frame)
	assert.Equal(t, state.PhasePlaying, s.Game().State().Phase())
}

func TestSessionDraw(t *testing.T) {
	s := newSession(t, SessionOptions{})
	grid := draw.NewGrid(100, 30)

	s.Draw(grid)
	assert.Contains(t, screenText(grid), "S T R E E T   R U N N E R")

	s.Keys().Press(input.KeyStart)
	s.Step(frame)
	s.Draw(grid)
	text := screenText(grid)
	assert.Contains(t, text, "Score: 0")
	assert.Contains(t, text, "Lives: 3")
	assert.NotContains(t, text, "S T R E E T")
}

func TestSessionIdleTimeout(t *testing.T) {
	s := newSession(t, SessionOptions{IdleTimeout: time.Nanosecond})
	time.Sleep(time.Millisecond)
	assert.True(t, s.Step(frame))
}

func TestDemoSessionPlaysAndPublishes(t *testing.T) {
	tuning := config.Default()
	pub := NewPublisher()
	s := newSession(t, SessionOptions{Tuning: &tuning, Demo: true, Publisher: pub})

	s.Step(frame)
	snap := pub.Latest()
	assert.Equal(t, "playing", snap.Phase)
	assert.NotEmpty(t, snap.RunID)

	for range 300 {
		require.False(t, s.Step(frame))
	}
	assert.Equal(t, uint64(301), pub.Latest().Frame)
}

func TestRunStopsOnContext(t *testing.T) {
	s := newSession(t, SessionOptions{Demo: true})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, Run(ctx, NewHeadlessFrontend(80, 24), s))
	assert.Positive(t, s.Game().Frame())
}

func TestRunOverStream(t *testing.T) {
	var out bytes.Buffer
	size := func() (int, int, error) { return 80, 24, nil }
	fe := NewStreamFrontend(bufio.NewReader(strings.NewReader("\rq")), &out, size)
	s := newSession(t, SessionOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, Run(ctx, fe, s))
	require.NoError(t, fe.Close())

	assert.Contains(t, out.String(), "\033[?25l", "cursor hidden")
	assert.True(t, strings.HasSuffix(out.String(), "\033[?25h"), "cursor restored")
}

func TestStreamFrontendPoll(t *testing.T) {
	var out bytes.Buffer
	fe := NewStreamFrontend(bufio.NewReader(strings.NewReader("m")), &out, func() (int, int, error) { return 10, 4, nil })
	keys := input.NewKeys()

	assert.Eventually(t, func() bool {
		fe.Poll(keys)
		return keys.ConsumeCommand(input.CommandMute)
	}, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return !fe.Poll(keys) }, time.Second, time.Millisecond, "reports closed input")
}

func TestTcellFrontend(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)

	fe := NewTcellFrontend(screen)
	keys := input.NewKeys()

	screen.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return fe.Poll(keys) && keys.ConsumeCommand(input.CommandMute)
	}, time.Second, time.Millisecond)

	s := newSession(t, SessionOptions{})
	s.Draw(fe.Surface())
	require.NoError(t, fe.Surface().Flush())
	w, h := fe.Surface().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)

	require.NoError(t, fe.Close())
	require.NoError(t, fe.Close())
}
