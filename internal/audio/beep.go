package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// BeepPlayer synthesizes cues on the local sound device. When the device
// cannot be opened it stays silent instead of failing.
type BeepPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	music  *beep.Ctrl
	volume float64
	ready  bool
	log    *log.Logger
}

// NewBeepPlayer opens the speaker. volume is linear in [0, 1].
func NewBeepPlayer(volume float64, logger *log.Logger) *BeepPlayer {
	if logger == nil {
		logger = log.Default()
	}
	p := &BeepPlayer{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    logger,
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		logger.Warn("audio unavailable, continuing silently", "err", err)
		return p
	}
	speaker.Play(withVolume(p.mixer, volume))
	p.ready = true
	return p
}

// Enabled reports whether a sound device is attached.
func (p *BeepPlayer) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *BeepPlayer) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	s := cueStreamer(c, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// SetMusic starts or pauses the background bed.
func (p *BeepPlayer) SetMusic(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if p.music == nil {
		if !on {
			return
		}
		p.music = &beep.Ctrl{Streamer: withVolume(newBed(sampleRate), 0.35)}
		p.mixer.Add(p.music)
		return
	}
	p.music.Paused = !on
}

// Close silences everything.
func (p *BeepPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	if p.music != nil {
		p.music.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
	p.ready = false
}
