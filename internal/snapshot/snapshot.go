// Package snapshot defines the read-only, point-in-time view of a run that
// is handed to external readers.
package snapshot

import "github.com/tomz197/streetrunner/internal/physics"

// Kind labels an entity summary.
type Kind string

const (
	KindTarget     Kind = "target"
	KindObstacle   Kind = "obstacle"
	KindPickup     Kind = "pickup"
	KindProjectile Kind = "projectile"
	KindCritter    Kind = "critter"
)

// Vec is a wire-friendly position.
type Vec struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// FromVec3 converts a simulation vector.
func FromVec3(v physics.Vec3) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec3 converts back to a simulation vector.
func (v Vec) Vec3() physics.Vec3 {
	return physics.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Entity summarizes one nearby entity.
type Entity struct {
	Kind     Kind `json:"kind" msgpack:"kind"`
	Position Vec  `json:"position" msgpack:"position"`
	Hit      bool `json:"hit,omitempty" msgpack:"hit,omitempty"`
}

// Snapshot is a copy; holding one never pins simulation state.
type Snapshot struct {
	RunID      string   `json:"run_id" msgpack:"run_id"`
	Frame      uint64   `json:"frame" msgpack:"frame"`
	Phase      string   `json:"phase" msgpack:"phase"`
	Score      int      `json:"score" msgpack:"score"`
	BestScore  int      `json:"best_score" msgpack:"best_score"`
	Lives      int      `json:"lives" msgpack:"lives"`
	Combo      int      `json:"combo" msgpack:"combo"`
	BestCombo  int      `json:"best_combo" msgpack:"best_combo"`
	Multiplier int      `json:"multiplier" msgpack:"multiplier"`
	Speed      float64  `json:"speed" msgpack:"speed"`
	Muted      bool     `json:"muted" msgpack:"muted"`
	Invincible bool     `json:"invincible" msgpack:"invincible"`
	CanThrow   bool     `json:"can_throw" msgpack:"can_throw"`
	Player     Vec      `json:"player" msgpack:"player"`
	Entities   []Entity `json:"entities" msgpack:"entities"`
}

// Filter returns entities of kind k.
func (s *Snapshot) Filter(k Kind) []Entity {
	var out []Entity
	for _, e := range s.Entities {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
