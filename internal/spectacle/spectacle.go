// Package spectacle is the cosmetic feedback layer. It reacts to gameplay
// events with particles, flashes, shake, lights, floating text and camera
// pulses. The only state it writes back is the brief near-miss slow motion.
package spectacle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/physics"
)

// SpeedControl is the slice of game state slow motion may touch.
type SpeedControl interface {
	CurrentSpeed() float64
	SetCurrentSpeed(v float64)
}

// Layer owns every cosmetic timer. Update it once per frame after the
// simulation step.
type Layer struct {
	cfg   config.Spectacle
	speed SpeedControl
	rng   *rand.Rand
	log   *log.Logger
	bus   *event.Bus
	subs  []event.Subscription

	particles *ParticlePool
	texts     []FloatingText
	lights    []Light

	flash      float64 // remaining flash time
	flashStyle string
	shake      float64 // current shake magnitude
	shakeOff   physics.Vec3
	zoom       float64 // additive zoom pulse
	nudge      physics.Vec3

	slowMo    bool
	slowLeft  float64
	slowSaved float64
}

// New creates a layer and subscribes it to bus.
func New(bus *event.Bus, cfg config.Spectacle, speed SpeedControl, rng *rand.Rand, logger *log.Logger) *Layer {
	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	l := &Layer{
		cfg:       cfg,
		speed:     speed,
		rng:       rng,
		log:       logger,
		bus:       bus,
		particles: NewParticlePool(cfg.ParticlePool),
	}
	l.subscribe()
	return l
}

func (l *Layer) subscribe() {
	l.subs = append(l.subs,
		event.On(l.bus, l.onGameStarted),
		event.On(l.bus, l.onThrown),
		event.On(l.bus, l.onTargetHit),
		event.On(l.bus, l.onPlayerHit),
		event.On(l.bus, l.onNearMiss),
		event.On(l.bus, l.onPickupSpawned),
		event.On(l.bus, l.onPickupCollected),
		event.On(l.bus, l.onComboReset),
		event.On(l.bus, l.onGameOver),
	)
}

func (l *Layer) onGameStarted(event.GameStarted) {
	l.Reset()
}

func (l *Layer) onThrown(e event.ProjectileThrown) {
	l.particles.SpawnBurst(e.Position, burstThrow, l.rng)
	l.nudge.Z -= 0.15
}

func (l *Layer) onTargetHit(e event.TargetHit) {
	l.particles.SpawnBurst(e.Position, burstHit, l.rng)
	l.addText(e.Position, fmt.Sprintf("+%d", e.Points), "score")
	if e.Combo >= 2 {
		above := e.Position
		above.Y += 0.8
		l.addText(above, fmt.Sprintf("x%d", e.Combo), "combo")
	}
	l.addLight(e.Position, 4, 1, "target")
	l.addShake(0.15)
	l.zoom += 0.04 * math.Min(float64(e.Combo), 5)
}

func (l *Layer) onPlayerHit(e event.PlayerHit) {
	l.particles.SpawnBurst(e.Position, burstDamage, l.rng)
	l.startFlash("danger")
	l.addShake(0.6)
	l.nudge.Z += 0.5
}

func (l *Layer) onNearMiss(e event.NearMiss) {
	if !l.slowMo {
		l.addText(e.Position, "CLOSE!", "warning")
	}
	l.startSlowMo()
}

func (l *Layer) onPickupSpawned(e event.PickupSpawned) {
	l.particles.SpawnBurst(e.Position, burstSparkle, l.rng)
}

func (l *Layer) onPickupCollected(e event.PickupCollected) {
	l.particles.SpawnBurst(e.Position, burstPickup, l.rng)
	l.addText(e.Position, fmt.Sprintf("+%d", e.Points), "pickup")
	l.addLight(e.Position, 2.5, 0.8, "pickup")
}

func (l *Layer) onComboReset(e event.ComboReset) {
	if e.Expired {
		l.zoom = 0
	}
}

func (l *Layer) onGameOver(event.GameOver) {
	l.cancelSlowMo()
	l.startFlash("danger")
	l.addShake(1)
}

func (l *Layer) addText(pos physics.Vec3, s, style string) {
	l.texts = append(l.texts, FloatingText{Anchor: pos, Value: s, Style: style, Lifetime: l.cfg.TextLifetime})
}

func (l *Layer) addLight(pos physics.Vec3, radius, intensity float64, style string) {
	l.lights = append(l.lights, Light{Pos: pos, Radius: radius, Intensity: intensity, Lifetime: l.cfg.LightLifetime, Style: style})
}

func (l *Layer) addShake(amount float64) {
	l.shake = math.Min(l.shake+amount, 1.5)
}

func (l *Layer) startFlash(style string) {
	l.flash = l.cfg.FlashDuration
	l.flashStyle = style
}

// startSlowMo scales speed down, saving the value to restore. A second near
// miss during the effect only extends it.
func (l *Layer) startSlowMo() {
	l.slowLeft = l.cfg.SlowMoDuration
	if l.slowMo || l.speed == nil {
		return
	}
	l.slowMo = true
	l.slowSaved = l.speed.CurrentSpeed()
	l.speed.SetCurrentSpeed(l.slowSaved * l.cfg.SlowMoScale)
	l.log.Debug("slow motion", "saved", l.slowSaved)
}

func (l *Layer) endSlowMo() {
	if !l.slowMo {
		return
	}
	l.slowMo = false
	l.slowLeft = 0
	l.speed.SetCurrentSpeed(l.slowSaved)
}

// cancelSlowMo drops the effect without touching speed.
func (l *Layer) cancelSlowMo() {
	l.slowMo = false
	l.slowLeft = 0
}

// Update advances all cosmetic timers by dt seconds.
func (l *Layer) Update(dt float64) {
	l.particles.Update(dt)
	l.texts = ageTexts(l.texts, dt)
	l.lights = ageLights(l.lights, dt)

	if l.flash > 0 {
		l.flash = math.Max(0, l.flash-dt)
	}

	l.shake = math.Max(0, l.shake-l.cfg.ShakeDecay*dt)
	if l.shake > 0 {
		l.shakeOff = physics.Vec3{
			X: (l.rng.Float64()*2 - 1) * l.shake,
			Y: (l.rng.Float64()*2 - 1) * l.shake * 0.5,
		}
	} else {
		l.shakeOff = physics.Vec3{}
	}

	decay := math.Exp(-l.cfg.PulseDecay * dt)
	l.zoom *= decay
	l.nudge = l.nudge.Scale(decay)

	if l.slowMo {
		l.slowLeft -= dt
		if l.slowLeft <= 0 {
			l.endSlowMo()
		}
	}
}

// FlashAlpha returns the flash overlay opacity, decaying linearly to zero.
func (l *Layer) FlashAlpha() float64 {
	if l.cfg.FlashDuration <= 0 {
		return 0
	}
	return l.flash / l.cfg.FlashDuration
}

// FlashStyle names the color of the current flash.
func (l *Layer) FlashStyle() string { return l.flashStyle }

// CameraOffset is the additive shake plus nudge applied after camera tracking.
func (l *Layer) CameraOffset() physics.Vec3 {
	return l.shakeOff.Add(l.nudge)
}

// Zoom returns the additive zoom pulse (0 = none).
func (l *Layer) Zoom() float64 { return l.zoom }

// SlowMotion reports whether slow motion is active.
func (l *Layer) SlowMotion() bool { return l.slowMo }

func (l *Layer) Particles() *ParticlePool    { return l.particles }
func (l *Layer) Texts() []FloatingText       { return l.texts }
func (l *Layer) Lights() []Light             { return l.lights }
func (l *Layer) ShakeMagnitude() float64     { return l.shake }
func (l *Layer) SlowMoRemaining() float64    { return l.slowLeft }
func (l *Layer) SavedSpeed() (float64, bool) { return l.slowSaved, l.slowMo }

// Reset clears every effect. Slow motion is dropped without restoring speed;
// a new run sets its own.
func (l *Layer) Reset() {
	l.particles.Clear()
	l.texts = l.texts[:0]
	l.lights = l.lights[:0]
	l.flash = 0
	l.shake = 0
	l.shakeOff = physics.Vec3{}
	l.zoom = 0
	l.nudge = physics.Vec3{}
	l.cancelSlowMo()
}

// Dispose unsubscribes from the bus.
func (l *Layer) Dispose() {
	for _, s := range l.subs {
		l.bus.Unsubscribe(s)
	}
	l.subs = nil
}
