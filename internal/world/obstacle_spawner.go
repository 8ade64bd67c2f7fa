package world

import (
	"math/rand"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/physics"
)

// ObstacleSpawner decides when the next obstacle appears. The interval
// shrinks from IntervalMax to IntervalMin as speed ramps up, with jitter so
// the cadence is not perceptible.
type ObstacleSpawner struct {
	cfg   config.Obstacle
	rules config.Rules
	timer float64
}

// NewObstacleSpawner creates a spawner armed with the first spawn delay.
func NewObstacleSpawner(cfg config.Obstacle, rules config.Rules) *ObstacleSpawner {
	s := &ObstacleSpawner{cfg: cfg, rules: rules}
	s.Reset()
	return s
}

// Reset re-arms the first spawn delay.
func (s *ObstacleSpawner) Reset() {
	s.timer = s.cfg.FirstSpawnDelay
}

// Interval returns the un-jittered interval at speed.
func (s *ObstacleSpawner) Interval(speed float64) float64 {
	span := s.rules.MaxSpeed - s.rules.InitialSpeed
	frac := 1.0
	if span > 0 {
		frac = physics.Clamp((speed-s.rules.InitialSpeed)/span, 0, 1)
	}
	return physics.Lerp(s.cfg.IntervalMax, s.cfg.IntervalMin, frac)
}

// Update counts down and reports whether an obstacle should spawn now.
func (s *ObstacleSpawner) Update(dt, speed float64, rng *rand.Rand) bool {
	s.timer -= dt
	if s.timer > 0 {
		return false
	}
	jitter := 1.0
	if rng != nil {
		jitter += (rng.Float64()*2 - 1) * s.cfg.Jitter
	}
	s.timer = s.Interval(speed) * jitter
	return true
}

// Remaining returns seconds until the next spawn.
func (s *ObstacleSpawner) Remaining() float64 {
	return s.timer
}
