// Package audio turns gameplay events into sound. The simulation core only
// publishes events; the Bridge here is the sole listener that knows about
// sound.
package audio

// Cue is a short sound effect.
type Cue int

const (
	CueThrow     Cue = iota // Projectile leaves the hand
	CueHit                  // Target struck
	CueDamage               // Player hit by an obstacle
	CueNearMiss             // Obstacle brushed past
	CuePickup               // Pickup collected
	CueComboLost            // Combo timer ran out
	CueStart                // Run started
	CueGameOver             // Last life lost
	cueCount
)

var cueNames = [cueCount]string{
	"throw", "hit", "damage", "near-miss", "pickup", "combo-lost", "start", "game-over",
}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Player plays cues and the background music bed.
type Player interface {
	Play(c Cue)
	SetMusic(on bool)
	Close()
}

// NopPlayer discards everything.
type NopPlayer struct{}

func (NopPlayer) Play(Cue)      {}
func (NopPlayer) SetMusic(bool) {}
func (NopPlayer) Close()        {}
