// Package hud keeps the heads-up display model. It learns everything from
// events and talks back to the game only by requesting a restart.
package hud

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/event"
)

// View is what the HUD shows.
type View struct {
	RunID      string
	Score      int
	BestScore  int
	Lives      int
	Combo      int
	BestCombo  int
	Multiplier int
	Muted      bool
	Playing    bool
	GameOver   bool
}

// HUD tracks a View from bus events.
type HUD struct {
	bus  *event.Bus
	view View
	subs []event.Subscription
	log  *log.Logger
}

func New(bus *event.Bus, logger *log.Logger) *HUD {
	if logger == nil {
		logger = log.Default()
	}
	h := &HUD{bus: bus, log: logger, view: View{Multiplier: 1}}
	h.subs = append(h.subs,
		event.On(bus, func(e event.GameStarted) {
			h.view.RunID = e.RunID
			h.view.Lives = e.Lives
			h.view.Score = 0
			h.view.Combo = 0
			h.view.Multiplier = 1
			h.view.Playing = true
			h.view.GameOver = false
		}),
		event.On(bus, func(e event.ScoreChanged) {
			h.view.Score = e.Score
			h.view.BestScore = e.BestScore
		}),
		event.On(bus, func(e event.LivesChanged) { h.view.Lives = e.Lives }),
		event.On(bus, func(e event.ComboChanged) {
			h.view.Combo = e.Combo
			h.view.BestCombo = e.BestCombo
			h.view.Multiplier = e.Multiplier
		}),
		event.On(bus, func(event.ComboReset) {
			h.view.Combo = 0
			h.view.Multiplier = 1
		}),
		event.On(bus, func(e event.GameOver) {
			h.view.Score = e.Score
			h.view.BestScore = e.BestScore
			h.view.BestCombo = e.BestCombo
			h.view.Playing = false
			h.view.GameOver = true
		}),
		event.On(bus, func(e event.MuteToggled) { h.view.Muted = e.Muted }),
	)
	return h
}

// View returns a copy of the current display model.
func (h *HUD) View() View {
	return h.view
}

// SetBest seeds the best values shown before the first run ends.
func (h *HUD) SetBest(score, combo int) {
	h.view.BestScore = max(h.view.BestScore, score)
	h.view.BestCombo = max(h.view.BestCombo, combo)
}

// SetMuted seeds the mute indicator from persisted preferences.
func (h *HUD) SetMuted(muted bool) {
	h.view.Muted = muted
}

// RequestRestart asks the game to start a new run. Ignored by the game
// unless the current run is over.
func (h *HUD) RequestRestart() {
	h.log.Debug("restart requested")
	h.bus.Publish(event.RestartRequested{})
}

// Close unsubscribes from the bus.
func (h *HUD) Close() {
	for _, s := range h.subs {
		h.bus.Unsubscribe(s)
	}
	h.subs = nil
}

// Status returns the left and right HUD lines shown while playing.
func (v View) Status() (left, right string) {
	left = fmt.Sprintf("Score: %d  Best: %d", v.Score, v.BestScore)
	if v.Combo >= 2 {
		left += fmt.Sprintf("  Combo: %d (x%d)", v.Combo, v.Multiplier)
	}
	right = fmt.Sprintf("Lives: %d", v.Lives)
	if v.Muted {
		right = "[muted]  " + right
	}
	return left, right
}
