package spectacle

import "github.com/tomz197/streetrunner/internal/physics"

// textRise is how far floating text climbs over its lifetime.
const textRise = 1.5

// FloatingText is a short label anchored in world space, e.g. "+3".
type FloatingText struct {
	Anchor   physics.Vec3
	Value    string
	Style    string
	Age      float64
	Lifetime float64
}

// Position returns the anchor lifted by age.
func (t FloatingText) Position() physics.Vec3 {
	p := t.Anchor
	if t.Lifetime > 0 {
		p.Y += textRise * t.Age / t.Lifetime
	}
	return p
}

// Fade returns remaining life in [0, 1].
func (t FloatingText) Fade() float64 {
	if t.Lifetime <= 0 {
		return 0
	}
	return physics.Clamp(1-t.Age/t.Lifetime, 0, 1)
}

// Light is a transient point light.
type Light struct {
	Pos       physics.Vec3
	Radius    float64
	Intensity float64 // at spawn
	Age       float64
	Lifetime  float64
	Style     string
}

// Level returns current intensity, decaying linearly.
func (l Light) Level() float64 {
	if l.Lifetime <= 0 {
		return 0
	}
	return l.Intensity * physics.Clamp(1-l.Age/l.Lifetime, 0, 1)
}

// ageTexts advances ages and drops expired entries in place.
func ageTexts(items []FloatingText, dt float64) []FloatingText {
	kept := items[:0]
	for _, it := range items {
		it.Age += dt
		if it.Age < it.Lifetime {
			kept = append(kept, it)
		}
	}
	return kept
}

func ageLights(items []Light, dt float64) []Light {
	kept := items[:0]
	for _, it := range items {
		it.Age += dt
		if it.Age < it.Lifetime {
			kept = append(kept, it)
		}
	}
	return kept
}
