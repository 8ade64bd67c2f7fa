package spectacle

import (
	"math"
	"math/rand"

	"github.com/tomz197/streetrunner/internal/physics"
)

// gravity pulls particles down, units per second squared.
const gravity = 9.0

// Particle is a short-lived visual effect.
type Particle struct {
	Pos      physics.Vec3
	Vel      physics.Vec3
	Age      float64 // Seconds since spawn
	Lifetime float64 // Seconds until the slot can be reused
	Drag     float64 // Velocity decay (1.0 = no drag)
	Symbol   rune
	Style    string
}

// Alive reports whether the particle is still visible.
func (p *Particle) Alive() bool {
	return p.Age < p.Lifetime
}

// Fade returns remaining life in [0, 1].
func (p *Particle) Fade() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return physics.Clamp(1-p.Age/p.Lifetime, 0, 1)
}

func (p *Particle) update(dt float64) {
	p.Age += dt
	if !p.Alive() {
		return
	}
	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.Vel = p.Vel.Scale(dragFactor)
	p.Vel.Y -= gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	if p.Pos.Y < 0 {
		p.Pos.Y = 0
		p.Vel.Y = 0
	}
}

// ParticlePool is a fixed set of slots. A slot is reused once its particle's
// age reaches its lifetime; when every slot is busy new particles are dropped.
type ParticlePool struct {
	slots  []Particle
	cursor int
}

// NewParticlePool allocates size slots, all free.
func NewParticlePool(size int) *ParticlePool {
	return &ParticlePool{slots: make([]Particle, size)}
}

// Emit stores p in a free slot. Returns false if the pool is full.
func (pp *ParticlePool) Emit(p Particle) bool {
	n := len(pp.slots)
	for i := 0; i < n; i++ {
		idx := (pp.cursor + i) % n
		if !pp.slots[idx].Alive() {
			pp.slots[idx] = p
			pp.cursor = (idx + 1) % n
			return true
		}
	}
	return false
}

// Update ages and moves every live particle.
func (pp *ParticlePool) Update(dt float64) {
	for i := range pp.slots {
		if pp.slots[i].Alive() {
			pp.slots[i].update(dt)
		}
	}
}

// Each calls fn for every live particle.
func (pp *ParticlePool) Each(fn func(p *Particle)) {
	for i := range pp.slots {
		if pp.slots[i].Alive() {
			fn(&pp.slots[i])
		}
	}
}

// Live counts live particles.
func (pp *ParticlePool) Live() int {
	n := 0
	for i := range pp.slots {
		if pp.slots[i].Alive() {
			n++
		}
	}
	return n
}

// Cap returns the number of slots.
func (pp *ParticlePool) Cap() int {
	return len(pp.slots)
}

// Clear frees every slot.
func (pp *ParticlePool) Clear() {
	clear(pp.slots)
	pp.cursor = 0
}

// Burst describes a radial particle burst.
type Burst struct {
	Count    int
	Speed    float64
	Lifetime float64
	Symbols  []rune
	Style    string
}

var (
	burstHit = Burst{
		Count: 16, Speed: 6, Lifetime: 0.6,
		Symbols: []rune{'*', '+', '•', 'o', '·'}, Style: "target",
	}
	burstDamage = Burst{
		Count: 24, Speed: 8, Lifetime: 0.7,
		Symbols: []rune{'#', '%', 'X', '*'}, Style: "danger",
	}
	burstPickup = Burst{
		Count: 8, Speed: 3, Lifetime: 0.4,
		Symbols: []rune{'$', '+', '·'}, Style: "pickup",
	}
	burstSparkle = Burst{
		Count: 3, Speed: 1.5, Lifetime: 0.3,
		Symbols: []rune{'·', '\''}, Style: "pickup",
	}
	burstThrow = Burst{
		Count: 4, Speed: 2, Lifetime: 0.2,
		Symbols: []rune{'·', '~'}, Style: "projectile",
	}
)

// SpawnBurst emits b.Count particles from pos in random directions.
func (pp *ParticlePool) SpawnBurst(pos physics.Vec3, b Burst, rng *rand.Rand) int {
	emitted := 0
	for i := 0; i < b.Count; i++ {
		// Random direction on the upper hemisphere
		yaw := rng.Float64() * 2 * math.Pi
		pitch := rng.Float64() * math.Pi / 2
		// Random speed variation (50% to 150%)
		spd := b.Speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := b.Lifetime * (0.5 + rng.Float64()*0.5)

		cp := math.Cos(pitch)
		vel := physics.Vec3{
			X: math.Cos(yaw) * cp * spd,
			Y: math.Sin(pitch) * spd,
			Z: math.Sin(yaw) * cp * spd,
		}
		ok := pp.Emit(Particle{
			Pos:      pos,
			Vel:      vel,
			Lifetime: life,
			Drag:     0.95,
			Symbol:   b.Symbols[rng.Intn(len(b.Symbols))],
			Style:    b.Style,
		})
		if !ok {
			break
		}
		emitted++
	}
	return emitted
}
