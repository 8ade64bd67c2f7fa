package input

import (
	"math"

	"github.com/tomz197/streetrunner/internal/snapshot"
)

// Autopilot plays the attract-mode game: it sidesteps obstacles in its lane
// and throws at targets in range. It sees only snapshots.
type Autopilot struct {
	Source func() *snapshot.Snapshot

	LookAhead     float64 // how far ahead obstacles are considered
	ClearWidth    float64 // lateral distance that counts as "in my lane"
	ThrowRange    float64
	ThrowInterval float64
	HalfWidth     float64 // path half-width; goals outside are not reachable

	steer      float64
	throwTimer float64
	throwReady bool
}

// NewAutopilot creates an autopilot reading from source.
func NewAutopilot(source func() *snapshot.Snapshot) *Autopilot {
	return &Autopilot{
		Source:        source,
		LookAhead:     30,
		ClearWidth:    2.2,
		ThrowRange:    40,
		ThrowInterval: 0.6,
		HalfWidth:     4,
	}
}

// Advance decides this frame's steering and throw from the latest snapshot.
func (a *Autopilot) Advance(dt float64) {
	a.steer = 0
	a.throwTimer -= dt

	s := a.Source()
	if s == nil {
		return
	}
	px, pz := s.Player.X, s.Player.Z

	goal := 0.0
	nearest := math.Inf(1)
	for _, o := range s.Filter(snapshot.KindObstacle) {
		ahead := pz - o.Position.Z
		if ahead <= 0 || ahead > a.LookAhead || ahead >= nearest {
			continue
		}
		if math.Abs(o.Position.X-px) < a.ClearWidth {
			nearest = ahead
			goal = a.dodge(px, o.Position.X)
		}
	}

	switch {
	case goal < px-0.3:
		a.steer = -1
	case goal > px+0.3:
		a.steer = 1
	}

	if a.throwTimer > 0 || !s.CanThrow {
		return
	}
	for _, t := range s.Filter(snapshot.KindTarget) {
		ahead := pz - t.Position.Z
		if !t.Hit && ahead > 0 && ahead <= a.ThrowRange {
			a.throwReady = true
			a.throwTimer = a.ThrowInterval
			return
		}
	}
}

// dodge picks the reachable side of an obstacle closest to px.
func (a *Autopilot) dodge(px, ox float64) float64 {
	left := ox - a.ClearWidth*1.5
	right := ox + a.ClearWidth*1.5
	switch {
	case left < -a.HalfWidth:
		return right
	case right > a.HalfWidth:
		return left
	case math.Abs(left-px) <= math.Abs(right-px):
		return left
	}
	return right
}

func (a *Autopilot) LaneLeft() bool  { return a.steer < 0 }
func (a *Autopilot) LaneRight() bool { return a.steer > 0 }

func (a *Autopilot) ConsumeThrow() bool {
	t := a.throwReady
	a.throwReady = false
	return t
}
