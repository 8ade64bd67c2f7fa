package hud

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/tomz197/streetrunner/internal/event"
)

func newHUD() (*HUD, *event.Bus) {
	bus := event.NewBus(log.New(io.Discard))
	return New(bus, log.New(io.Discard)), bus
}

func TestViewFollowsEvents(t *testing.T) {
	h, bus := newHUD()

	bus.Publish(event.GameStarted{RunID: "run-1", Lives: 3})
	bus.Publish(event.ComboChanged{Combo: 2, BestCombo: 2, Multiplier: 2})
	bus.Publish(event.ScoreChanged{Score: 3, BestScore: 3})
	bus.Publish(event.LivesChanged{Lives: 2})

	v := h.View()
	assert.Equal(t, "run-1", v.RunID)
	assert.Equal(t, 3, v.Score)
	assert.Equal(t, 2, v.Lives)
	assert.Equal(t, 2, v.Multiplier)
	assert.True(t, v.Playing)

	bus.Publish(event.ComboReset{Expired: true})
	v = h.View()
	assert.Zero(t, v.Combo)
	assert.Equal(t, 1, v.Multiplier)
	assert.Equal(t, 2, v.BestCombo)

	bus.Publish(event.GameOver{Score: 3, BestScore: 10, BestCombo: 2})
	v = h.View()
	assert.True(t, v.GameOver)
	assert.False(t, v.Playing)
	assert.Equal(t, 10, v.BestScore)
}

func TestNewRunClearsScore(t *testing.T) {
	h, bus := newHUD()
	bus.Publish(event.ScoreChanged{Score: 9, BestScore: 9})
	bus.Publish(event.GameOver{Score: 9, BestScore: 9})
	bus.Publish(event.GameStarted{Lives: 3})

	v := h.View()
	assert.Zero(t, v.Score)
	assert.Equal(t, 9, v.BestScore)
	assert.False(t, v.GameOver)
}

func TestRequestRestartPublishes(t *testing.T) {
	h, bus := newHUD()
	got := 0
	event.On(bus, func(event.RestartRequested) { got++ })

	h.RequestRestart()
	assert.Equal(t, 1, got)
}

func TestStatusLines(t *testing.T) {
	v := View{Score: 4, BestScore: 12, Lives: 2, Combo: 3, Multiplier: 3, Muted: true}
	left, right := v.Status()
	assert.Equal(t, "Score: 4  Best: 12  Combo: 3 (x3)", left)
	assert.Equal(t, "[muted]  Lives: 2", right)

	v.Combo = 1
	left, _ = v.Status()
	assert.NotContains(t, left, "Combo")
}

func TestSeedsAndClose(t *testing.T) {
	h, bus := newHUD()
	h.SetBest(40, 5)
	h.SetBest(10, 1)
	h.SetMuted(true)
	v := h.View()
	assert.Equal(t, 40, v.BestScore)
	assert.Equal(t, 5, v.BestCombo)
	assert.True(t, v.Muted)

	h.Close()
	bus.Publish(event.LivesChanged{Lives: 1})
	assert.Zero(t, h.View().Lives)
}
