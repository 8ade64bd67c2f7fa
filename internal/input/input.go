// Package input normalizes keyboard sources (raw terminal bytes, tcell events,
// scripted or automatic players) into the Controls the simulation polls.
package input

import (
	"sync"
	"time"
)

// keyHoldDuration is how long a lane key is considered "held" after its last
// press. Terminals only report key repeats, never releases.
const keyHoldDuration = 150 * time.Millisecond

// Controls is what the simulation reads each frame.
type Controls interface {
	LaneLeft() bool
	LaneRight() bool
	// ConsumeThrow reports a pending throw request and clears it.
	ConsumeThrow() bool
}

// Key is a normalized key press.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyThrow
	KeyStart
	KeyRestart
	KeyMute
	KeyQuit
)

// Command is a meta action outside gameplay.
type Command int

const (
	CommandStart Command = iota
	CommandRestart
	CommandMute
	CommandQuit
	commandCount
)

// Keys accumulates presses from any key source. Safe for concurrent use:
// key sources run on their own goroutine, the frame loop reads.
type Keys struct {
	mu       sync.Mutex
	now      func() time.Time
	left     time.Time
	right    time.Time
	throw    bool
	commands [commandCount]bool
	last     time.Time
}

// NewKeys creates an empty key state.
func NewKeys() *Keys {
	return &Keys{now: time.Now}
}

// Press records a key press.
func (k *Keys) Press(key Key) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	k.last = now
	switch key {
	case KeyLeft:
		k.left = now
		k.right = time.Time{}
	case KeyRight:
		k.right = now
		k.left = time.Time{}
	case KeyThrow:
		k.throw = true
		k.commands[CommandStart] = true
	case KeyStart:
		k.commands[CommandStart] = true
		k.commands[CommandRestart] = true
	case KeyRestart:
		k.commands[CommandRestart] = true
	case KeyMute:
		k.commands[CommandMute] = true
	case KeyQuit:
		k.commands[CommandQuit] = true
	}
}

func (k *Keys) held(t time.Time) bool {
	return !t.IsZero() && k.now().Sub(t) < keyHoldDuration
}

func (k *Keys) LaneLeft() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held(k.left)
}

func (k *Keys) LaneRight() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held(k.right)
}

func (k *Keys) ConsumeThrow() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	t := k.throw
	k.throw = false
	return t
}

// ConsumeCommand reports whether c was requested since the last call.
func (k *Keys) ConsumeCommand(c Command) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	v := k.commands[c]
	k.commands[c] = false
	return v
}

// LastPress returns when any key was last pressed, zero if never.
func (k *Keys) LastPress() time.Time {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}

// Reset drops all pending presses, e.g. on a phase change.
func (k *Keys) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.left, k.right = time.Time{}, time.Time{}
	k.throw = false
	k.commands = [commandCount]bool{}
}

// Steer converts level state into a lateral axis value.
func Steer(c Controls) float64 {
	v := 0.0
	if c.LaneLeft() {
		v--
	}
	if c.LaneRight() {
		v++
	}
	return v
}

// Scripted is a Controls for tests and replays.
type Scripted struct {
	Left   bool
	Right  bool
	throws int
}

// QueueThrow requests one throw.
func (s *Scripted) QueueThrow() { s.throws++ }

func (s *Scripted) LaneLeft() bool  { return s.Left }
func (s *Scripted) LaneRight() bool { return s.Right }

func (s *Scripted) ConsumeThrow() bool {
	if s.throws == 0 {
		return false
	}
	s.throws--
	return true
}
