package spectacle

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/physics"
)

type fakeSpeed struct{ v float64 }

func (f *fakeSpeed) CurrentSpeed() float64     { return f.v }
func (f *fakeSpeed) SetCurrentSpeed(v float64) { f.v = v }

func newLayer(t *testing.T, speed float64) (*Layer, *event.Bus, *fakeSpeed) {
	t.Helper()
	quiet := log.New(io.Discard)
	bus := event.NewBus(quiet)
	sp := &fakeSpeed{v: speed}
	l := New(bus, config.Default().Spectacle, sp, rand.New(rand.NewSource(3)), quiet)
	return l, bus, sp
}

func TestSlowMotionRestoresSavedSpeed(t *testing.T) {
	l, bus, sp := newLayer(t, 20)
	cfg := config.Default().Spectacle

	bus.Publish(event.NearMiss{Distance: 2})
	require.True(t, l.SlowMotion())
	assert.InDelta(t, 20*cfg.SlowMoScale, sp.v, 1e-9)

	// The game keeps accelerating the scaled value meanwhile.
	sp.v += 3

	l.Update(cfg.SlowMoDuration + 0.01)
	assert.False(t, l.SlowMotion())
	assert.Equal(t, 20.0, sp.v)
}

func TestRepeatNearMissExtendsSlowMotion(t *testing.T) {
	l, bus, sp := newLayer(t, 10)
	cfg := config.Default().Spectacle

	bus.Publish(event.NearMiss{})
	l.Update(cfg.SlowMoDuration * 0.8)
	require.True(t, l.SlowMotion())

	bus.Publish(event.NearMiss{})
	assert.InDelta(t, cfg.SlowMoDuration, l.SlowMoRemaining(), 1e-9)
	assert.InDelta(t, 10*cfg.SlowMoScale, sp.v, 1e-9, "speed is not scaled twice")

	saved, active := l.SavedSpeed()
	assert.True(t, active)
	assert.Equal(t, 10.0, saved)

	l.Update(cfg.SlowMoDuration * 0.5)
	assert.True(t, l.SlowMotion())
	l.Update(cfg.SlowMoDuration)
	assert.False(t, l.SlowMotion())
	assert.Equal(t, 10.0, sp.v)
}

func TestNearMissTextOnlyOnFirst(t *testing.T) {
	l, bus, _ := newLayer(t, 10)
	bus.Publish(event.NearMiss{})
	bus.Publish(event.NearMiss{})
	require.Len(t, l.Texts(), 1)
	assert.Equal(t, "CLOSE!", l.Texts()[0].Value)
}

func TestGameStartedCancelsSlowMotion(t *testing.T) {
	l, bus, sp := newLayer(t, 16)
	bus.Publish(event.NearMiss{})
	require.True(t, l.SlowMotion())
	scaled := sp.v

	bus.Publish(event.GameStarted{Lives: 3})
	assert.False(t, l.SlowMotion())
	assert.Zero(t, l.SlowMoRemaining())
	assert.Equal(t, scaled, sp.v, "cancel leaves speed to the new run")
	assert.Zero(t, l.Particles().Live())
}

func TestGameOverCancelsSlowMotion(t *testing.T) {
	l, bus, _ := newLayer(t, 16)
	bus.Publish(event.NearMiss{})
	bus.Publish(event.GameOver{Score: 4})
	assert.False(t, l.SlowMotion())
	assert.Equal(t, 1.0, l.FlashAlpha())
}

func TestFlashDecaysLinearly(t *testing.T) {
	l, bus, _ := newLayer(t, 10)
	cfg := config.Default().Spectacle

	bus.Publish(event.PlayerHit{Lives: 2})
	assert.Equal(t, 1.0, l.FlashAlpha())
	assert.Equal(t, "danger", l.FlashStyle())

	l.Update(cfg.FlashDuration / 4)
	assert.InDelta(t, 0.75, l.FlashAlpha(), 1e-9)
	l.Update(cfg.FlashDuration / 4)
	assert.InDelta(t, 0.5, l.FlashAlpha(), 1e-9)
	l.Update(cfg.FlashDuration)
	assert.Zero(t, l.FlashAlpha())
}

func TestShakeDecaysToZero(t *testing.T) {
	l, bus, _ := newLayer(t, 10)
	bus.Publish(event.PlayerHit{})
	start := l.ShakeMagnitude()
	require.Greater(t, start, 0.0)

	l.Update(0.05)
	assert.Less(t, l.ShakeMagnitude(), start)

	for range 100 {
		l.Update(0.05)
	}
	assert.Zero(t, l.ShakeMagnitude())
	assert.InDelta(t, 0, l.CameraOffset().Length(), 1e-6)
}

func TestTargetHitFeedback(t *testing.T) {
	l, bus, _ := newLayer(t, 10)
	bus.Publish(event.TargetHit{Position: physics.Vec3{X: 5, Y: 1, Z: -20}, Combo: 3, Multiplier: 3, Points: 3})

	assert.Greater(t, l.Particles().Live(), 0)
	require.Len(t, l.Texts(), 2)
	assert.Equal(t, "+3", l.Texts()[0].Value)
	assert.Equal(t, "x3", l.Texts()[1].Value)
	require.Len(t, l.Lights(), 1)
	assert.Greater(t, l.Zoom(), 0.0)

	l.Update(config.Default().Spectacle.TextLifetime + 0.01)
	assert.Empty(t, l.Texts())
	assert.Empty(t, l.Lights())
}

func TestDisposeUnsubscribes(t *testing.T) {
	l, bus, _ := newLayer(t, 10)
	require.Positive(t, bus.HandlerCount(event.KindTargetHit))

	l.Dispose()
	assert.Zero(t, bus.HandlerCount(event.KindTargetHit))
	assert.Zero(t, bus.HandlerCount(event.KindNearMiss))

	bus.Publish(event.TargetHit{Points: 1})
	assert.Empty(t, l.Texts())
}

func TestParticlePoolReusesExpiredSlots(t *testing.T) {
	pp := NewParticlePool(2)
	assert.True(t, pp.Emit(Particle{Lifetime: 1, Drag: 1}))
	assert.True(t, pp.Emit(Particle{Lifetime: 0.2, Drag: 1}))
	assert.False(t, pp.Emit(Particle{Lifetime: 1, Drag: 1}), "full pool drops")
	assert.Equal(t, 2, pp.Live())

	pp.Update(0.2)
	assert.Equal(t, 1, pp.Live(), "age equal to lifetime frees the slot")
	assert.True(t, pp.Emit(Particle{Lifetime: 1, Drag: 1, Symbol: 'x'}))
	assert.False(t, pp.Emit(Particle{Lifetime: 1, Drag: 1}))

	symbols := ""
	pp.Each(func(p *Particle) { symbols += string(p.Symbol) })
	assert.Contains(t, symbols, "x")
}

func TestSpawnBurstStopsWhenFull(t *testing.T) {
	pp := NewParticlePool(5)
	n := pp.SpawnBurst(physics.Vec3{}, burstHit, rand.New(rand.NewSource(1)))
	assert.Equal(t, 5, n)
	assert.Equal(t, pp.Cap(), pp.Live())
}

func TestParticlesStayAboveGround(t *testing.T) {
	pp := NewParticlePool(1)
	pp.Emit(Particle{Pos: physics.Vec3{Y: 0.1}, Vel: physics.Vec3{Y: -5}, Lifetime: 2, Drag: 1})
	pp.Update(0.5)
	pp.Each(func(p *Particle) {
		assert.GreaterOrEqual(t, p.Pos.Y, 0.0)
	})
}

func TestFloatingTextRises(t *testing.T) {
	ft := FloatingText{Anchor: physics.Vec3{Y: 1}, Lifetime: 1}
	ft.Age = 0.5
	assert.InDelta(t, 1+textRise/2, ft.Position().Y, 1e-9)
	assert.InDelta(t, 0.5, ft.Fade(), 1e-9)
}
