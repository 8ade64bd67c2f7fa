package audio

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/event"
)

// Bridge maps gameplay events to cues. Nothing plays while muted.
type Bridge struct {
	bus    *event.Bus
	player Player
	muted  func() bool
	log    *log.Logger
	subs   []event.Subscription

	running bool // a run is in progress, so music belongs on

	// Near-miss events repeat every frame; the cue plays once per streak.
	nearMissSeen  bool
	nearMissFrame uint64
}

// NewBridge subscribes to bus. muted is polled on every cue; nil means never muted.
func NewBridge(bus *event.Bus, player Player, muted func() bool, logger *log.Logger) *Bridge {
	if player == nil {
		player = NopPlayer{}
	}
	if muted == nil {
		muted = func() bool { return false }
	}
	if logger == nil {
		logger = log.Default()
	}
	b := &Bridge{bus: bus, player: player, muted: muted, log: logger}
	b.subs = append(b.subs,
		event.On(bus, func(event.GameStarted) {
			b.running = true
			b.nearMissSeen = false
			b.play(CueStart)
			b.syncMusic()
		}),
		event.On(bus, func(event.ProjectileThrown) { b.play(CueThrow) }),
		event.On(bus, func(event.TargetHit) { b.play(CueHit) }),
		event.On(bus, func(event.PlayerHit) { b.play(CueDamage) }),
		event.On(bus, b.nearMiss),
		event.On(bus, func(event.PickupCollected) { b.play(CuePickup) }),
		event.On(bus, func(e event.ComboReset) {
			if e.Expired {
				b.play(CueComboLost)
			}
		}),
		event.On(bus, func(event.GameOver) {
			b.running = false
			b.play(CueGameOver)
			b.syncMusic()
		}),
		event.On(bus, func(e event.MuteToggled) {
			b.log.Debug("audio mute", "muted", e.Muted)
			b.syncMusic()
		}),
	)
	return b
}

// nearMiss plays on the first frame of a streak. A streak ends when a frame
// passes without a near miss.
func (b *Bridge) nearMiss(e event.NearMiss) {
	rising := !b.nearMissSeen || e.Frame > b.nearMissFrame+1
	b.nearMissSeen = true
	if e.Frame > b.nearMissFrame {
		b.nearMissFrame = e.Frame
	}
	if rising {
		b.play(CueNearMiss)
	}
}

func (b *Bridge) play(c Cue) {
	if b.muted() {
		return
	}
	b.player.Play(c)
}

func (b *Bridge) syncMusic() {
	b.player.SetMusic(b.running && !b.muted())
}

// Close unsubscribes and releases the player.
func (b *Bridge) Close() {
	for _, s := range b.subs {
		b.bus.Unsubscribe(s)
	}
	b.subs = nil
	b.player.Close()
}
