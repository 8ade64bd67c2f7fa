// Package state holds the single mutable record of a run: score, lives,
// combo, speed and the mute flag.
package state

import "github.com/tomz197/streetrunner/internal/config"

// Phase is the run lifecycle position.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game-over"
	}
	return "unknown"
}

// State is owned by the orchestrator. Methods are not safe for concurrent use.
type State struct {
	rules config.Rules

	score     int
	bestScore int
	lives     int

	combo      int
	bestCombo  int
	comboTimer float64

	currentSpeed float64

	started  bool
	gameOver bool
	muted    bool
}

// New creates a state at menu with session fields initialized from rules.
func New(rules config.Rules) *State {
	s := &State{rules: rules}
	s.Reset()
	return s
}

// Reset reinitializes session fields. Best score, best combo and mute survive.
func (s *State) Reset() {
	s.score = 0
	s.lives = s.rules.InitialLives
	s.combo = 0
	s.comboTimer = 0
	s.currentSpeed = s.rules.InitialSpeed
	s.started = false
	s.gameOver = false
}

// Multiplier returns the score multiplier for the current combo.
func (s *State) Multiplier() int {
	return max(1, min(s.combo, s.rules.MultiplierCap))
}

// AddScore awards base times the combo multiplier and returns the points
// awarded. AddScore(0) reads the multiplier without changing score.
func (s *State) AddScore(base int) int {
	points := base * s.Multiplier()
	s.score += points
	if s.score > s.bestScore {
		s.bestScore = s.score
	}
	return points
}

// IncrementCombo adds one to the combo and restarts its timeout.
func (s *State) IncrementCombo() {
	s.combo++
	if s.combo > s.bestCombo {
		s.bestCombo = s.combo
	}
	s.comboTimer = s.rules.ComboTimeout
}

// ResetCombo zeroes combo and its timer.
func (s *State) ResetCombo() {
	s.combo = 0
	s.comboTimer = 0
}

// UpdateComboTimer counts the combo timeout down by dt seconds and reports
// true on the frame it expires.
func (s *State) UpdateComboTimer(dt float64) bool {
	if s.combo <= 0 {
		return false
	}
	s.comboTimer -= dt
	if s.comboTimer <= 0 {
		s.ResetCombo()
		return true
	}
	return false
}

// LoseLife removes one life and reports whether none are left.
// Lives never go below zero.
func (s *State) LoseLife() bool {
	if s.lives > 0 {
		s.lives--
	}
	return s.lives == 0
}

// Accelerate ramps current speed toward the cap.
func (s *State) Accelerate(dt float64) {
	s.currentSpeed = min(s.currentSpeed+s.rules.Acceleration*dt, s.rules.MaxSpeed)
}

// Start marks the run as playing.
func (s *State) Start() {
	s.started = true
	s.gameOver = false
}

// EndGame marks the run as over.
func (s *State) EndGame() {
	s.started = false
	s.gameOver = true
}

// Phase derives the lifecycle phase from the started/gameOver flags.
func (s *State) Phase() Phase {
	switch {
	case s.gameOver:
		return PhaseGameOver
	case s.started:
		return PhasePlaying
	}
	return PhaseMenu
}

// SetBestScore raises the best score to at least v. Used to seed from prefs.
func (s *State) SetBestScore(v int) {
	if v > s.bestScore {
		s.bestScore = v
	}
}

func (s *State) Score() int                { return s.score }
func (s *State) BestScore() int            { return s.bestScore }
func (s *State) Lives() int                { return s.lives }
func (s *State) Combo() int                { return s.combo }
func (s *State) BestCombo() int            { return s.bestCombo }
func (s *State) ComboTimer() float64       { return s.comboTimer }
func (s *State) CurrentSpeed() float64     { return s.currentSpeed }
func (s *State) SetCurrentSpeed(v float64) { s.currentSpeed = v }
func (s *State) Started() bool             { return s.started }
func (s *State) GameOver() bool            { return s.gameOver }
func (s *State) IsMuted() bool             { return s.muted }
func (s *State) SetMuted(m bool)           { s.muted = m }
