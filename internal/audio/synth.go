package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

// tone is a fixed-length oscillator with a linear frequency sweep and an
// attack/release envelope.
type tone struct {
	rate     beep.SampleRate
	wave     wave
	from, to float64 // Hz at start and end
	total    int
	attack   int
	release  int
	pos      int
	phase    float64
	rng      *rand.Rand
}

func newTone(rate beep.SampleRate, w wave, from, to float64, d, attack, release time.Duration) *tone {
	return &tone{
		rate:    rate,
		wave:    w,
		from:    from,
		to:      to,
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
		rng:     rand.New(rand.NewSource(int64(from*1000 + to))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		frac := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*frac

		var v float64
		switch t.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case waveSquare:
			if t.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case waveSaw:
			v = 2 * (t.phase - 0.5)
		case waveNoise:
			v = t.rng.Float64()*2 - 1
		}
		v *= t.envelope()

		samples[i][0] = v
		samples[i][1] = v

		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if rs := t.total - t.release; t.release > 0 && t.pos >= rs {
		return float64(t.total-t.pos) / float64(t.release)
	}
	return 1
}

func (t *tone) Err() error { return nil }

// bed is an endless pulse used as background music while a run is active.
type bed struct {
	rate beep.SampleRate
	beat int
	pos  int
}

func newBed(rate beep.SampleRate) *bed {
	return &bed{rate: rate, beat: rate.N(500 * time.Millisecond)}
}

func (b *bed) Stream(samples [][2]float64) (n int, ok bool) {
	kickLen := b.rate.N(90 * time.Millisecond)
	for i := range samples {
		bp := b.pos % b.beat
		t := float64(bp) / float64(b.rate)

		kick := 0.0
		if bp < kickLen {
			env := 1 - float64(bp)/float64(kickLen)
			kick = 0.35 * env * math.Sin(2*math.Pi*55*(1+2*env)*t)
		}
		// Bass alternates between A and E every four beats.
		root := 110.0
		if (b.pos/b.beat)%8 >= 4 {
			root = 82.41
		}
		bass := 0.12 * math.Sin(2*math.Pi*root*t)

		v := kick + bass
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *bed) Err() error { return nil }

// withVolume scales s linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// cueStreamer builds a fresh streamer for c. Each call returns a new
// instance, so the same cue can overlap itself in the mixer.
func cueStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	switch c {
	case CueThrow:
		return withVolume(newTone(rate, waveNoise, 0, 0, ms(80), ms(5), ms(60)), 0.3)
	case CueHit:
		return beep.Mix(
			withVolume(newTone(rate, waveSine, 880, 880, ms(220), ms(5), ms(180)), 0.7),
			withVolume(newTone(rate, waveSine, 1760, 1760, ms(220), ms(5), ms(120)), 0.3),
		)
	case CueDamage:
		return withVolume(newTone(rate, waveSaw, 140, 60, ms(300), ms(5), ms(200)), 0.6)
	case CueNearMiss:
		return withVolume(newTone(rate, waveNoise, 0, 0, ms(180), ms(40), ms(120)), 0.4)
	case CuePickup:
		return withVolume(beep.Seq(
			newTone(rate, waveSquare, 987.77, 987.77, ms(70), ms(2), ms(30)),
			newTone(rate, waveSquare, 1318.51, 1318.51, ms(140), ms(2), ms(110)),
		), 0.25)
	case CueComboLost:
		return withVolume(newTone(rate, waveSine, 440, 220, ms(250), ms(5), ms(150)), 0.4)
	case CueStart:
		return withVolume(beep.Seq(
			newTone(rate, waveSquare, 523.25, 523.25, ms(90), ms(2), ms(40)),
			newTone(rate, waveSquare, 659.25, 659.25, ms(90), ms(2), ms(40)),
			newTone(rate, waveSquare, 783.99, 783.99, ms(160), ms(2), ms(120)),
		), 0.25)
	case CueGameOver:
		return withVolume(newTone(rate, waveSaw, 330, 80, ms(900), ms(10), ms(500)), 0.5)
	default:
		return nil
	}
}
