package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/streetrunner/internal/config"
)

func newState() *State {
	return New(config.Default().Rules)
}

func TestAddScoreMultiplier(t *testing.T) {
	cases := []struct {
		combo int
		want  int
	}{
		{0, 1},
		{1, 1},
		{4, 4},
		{10, 10},
		{15, 10},
	}
	for _, tc := range cases {
		s := newState()
		for i := 0; i < tc.combo; i++ {
			s.IncrementCombo()
		}
		assert.Equal(t, 3*tc.want, s.AddScore(3), "combo %d", tc.combo)
		assert.Equal(t, 3*tc.want, s.Score())
	}
}

func TestAddScoreZeroIsQuery(t *testing.T) {
	s := newState()
	s.IncrementCombo()
	s.IncrementCombo()
	assert.Equal(t, 0, s.AddScore(0))
	assert.Equal(t, 2, s.Multiplier())
	assert.Equal(t, 0, s.Score())
}

func TestBestScoreIsMonotonic(t *testing.T) {
	s := newState()
	s.AddScore(5)
	assert.Equal(t, 5, s.BestScore())
	s.Reset()
	s.AddScore(2)
	assert.Equal(t, 5, s.BestScore())
	s.SetBestScore(3)
	assert.Equal(t, 5, s.BestScore())
}

func TestResetComboIdempotent(t *testing.T) {
	s := newState()
	s.IncrementCombo()
	for i := 0; i < 2; i++ {
		s.ResetCombo()
		assert.Equal(t, 0, s.Combo())
		assert.Zero(t, s.ComboTimer())
	}
}

func TestComboTimerFiresOnce(t *testing.T) {
	s := newState()
	s.IncrementCombo()
	assert.Equal(t, 3.0, s.ComboTimer())

	assert.True(t, s.UpdateComboTimer(3.0))
	assert.False(t, s.UpdateComboTimer(0.001))
	assert.Equal(t, 0, s.Combo())
}

func TestComboTimerInvariant(t *testing.T) {
	s := newState()
	assert.False(t, s.UpdateComboTimer(1), "no combo, no countdown")
	s.IncrementCombo()
	for i := 0; i < 100; i++ {
		s.UpdateComboTimer(0.05)
		assert.Equal(t, s.Combo() > 0, s.ComboTimer() > 0)
	}
}

func TestIncrementComboTracksBest(t *testing.T) {
	s := newState()
	s.IncrementCombo()
	s.IncrementCombo()
	s.ResetCombo()
	s.IncrementCombo()
	assert.Equal(t, 2, s.BestCombo())
}

func TestLoseLifeFloor(t *testing.T) {
	rules := config.Default().Rules
	rules.InitialLives = 1
	s := New(rules)

	assert.True(t, s.LoseLife())
	assert.Equal(t, 0, s.Lives())
	assert.True(t, s.LoseLife(), "already dead stays dead")
	assert.Equal(t, 0, s.Lives())
}

func TestResetPreservesBests(t *testing.T) {
	s := newState()
	s.SetMuted(true)
	for i := 0; i < 5; i++ {
		s.IncrementCombo()
	}
	s.AddScore(10)
	s.Accelerate(10)
	s.LoseLife()
	s.Start()

	s.Reset()

	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 3, s.Lives())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 12.0, s.CurrentSpeed())
	assert.Equal(t, 50, s.BestScore())
	assert.Equal(t, 5, s.BestCombo())
	assert.True(t, s.IsMuted())
	assert.Equal(t, PhaseMenu, s.Phase())
}

func TestAccelerateCapped(t *testing.T) {
	s := newState()
	s.Accelerate(4)
	assert.InDelta(t, 13.0, s.CurrentSpeed(), 1e-9)
	s.Accelerate(1000)
	assert.Equal(t, 30.0, s.CurrentSpeed())
}

func TestPhaseTransitions(t *testing.T) {
	s := newState()
	assert.Equal(t, PhaseMenu, s.Phase())
	s.Start()
	assert.Equal(t, PhasePlaying, s.Phase())
	s.EndGame()
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.False(t, s.Started())
}
