package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning centralizes all tunable game parameters.
// Durations are in seconds, distances in world units.
type Tuning struct {
	Rules      Rules      `yaml:"rules"`
	Player     Player     `yaml:"player"`
	Projectile Projectile `yaml:"projectile"`
	World      World      `yaml:"world"`
	Obstacle   Obstacle   `yaml:"obstacle"`
	Critter    Critter    `yaml:"critter"`
	Pickup     Pickup     `yaml:"pickup"`
	Spectacle  Spectacle  `yaml:"spectacle"`
	Frame      Frame      `yaml:"frame"`
}

// Rules holds scoring, lives, combo and speed rules.
type Rules struct {
	InitialLives  int     `yaml:"initial_lives"`
	ComboTimeout  float64 `yaml:"combo_timeout"`
	MultiplierCap int     `yaml:"multiplier_cap"`
	InitialSpeed  float64 `yaml:"initial_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	Acceleration  float64 `yaml:"acceleration"`
	TargetPoints  int     `yaml:"target_points"`
	PickupPoints  int     `yaml:"pickup_points"`
}

// Player holds player movement and defense parameters.
type Player struct {
	LateralSpeed  float64 `yaml:"lateral_speed"`
	PathHalfWidth float64 `yaml:"path_half_width"`
	ThrowCooldown float64 `yaml:"throw_cooldown"`
	Invincibility float64 `yaml:"invincibility"`
	HitRadius     float64 `yaml:"hit_radius"`
	BlinkHz       float64 `yaml:"blink_hz"`
}

// Projectile holds throw parameters.
type Projectile struct {
	Speed          float64 `yaml:"speed"`
	Range          float64 `yaml:"range"`
	HitRadius      float64 `yaml:"hit_radius"`
	ArcHeight      float64 `yaml:"arc_height"`
	LaunchHeight   float64 `yaml:"launch_height"`
	ThrowScanRange float64 `yaml:"throw_scan_range"`
	CollisionScan  float64 `yaml:"collision_scan"`
}

// World holds procedural generation parameters.
type World struct {
	RowSpacing       float64 `yaml:"row_spacing"`
	TargetSideChance float64 `yaml:"target_side_chance"`
	TargetOffset     float64 `yaml:"target_offset"`
	TargetHeight     float64 `yaml:"target_height"`
	SpawnDistance    float64 `yaml:"spawn_distance"`
	CleanupDistance  float64 `yaml:"cleanup_distance"`
	SegmentLength    float64 `yaml:"segment_length"`
	SceneryAhead     float64 `yaml:"scenery_ahead"`
	SnapshotRange    float64 `yaml:"snapshot_range"`
}

// Obstacle holds obstacle spawning and collision parameters.
type Obstacle struct {
	IntervalMax     float64 `yaml:"interval_max"`
	IntervalMin     float64 `yaml:"interval_min"`
	Jitter          float64 `yaml:"jitter"`
	Speed           float64 `yaml:"speed"`
	SpawnAhead      float64 `yaml:"spawn_ahead"`
	RetireDistance  float64 `yaml:"retire_distance"`
	NearMissRadius  float64 `yaml:"near_miss_radius"`
	CollisionScan   float64 `yaml:"collision_scan"`
	FirstSpawnDelay float64 `yaml:"first_spawn_delay"`
}

// Critter holds parameters of the entity that flees a hit target.
type Critter struct {
	Lifetime       float64 `yaml:"lifetime"`
	Speed          float64 `yaml:"speed"`
	PickupInterval float64 `yaml:"pickup_interval"`
	JitterInterval float64 `yaml:"jitter_interval"`
	JitterAngle    float64 `yaml:"jitter_angle"`
}

// Pickup holds collectible parameters.
type Pickup struct {
	Lifetime      float64 `yaml:"lifetime"`
	CollectTime   float64 `yaml:"collect_time"`
	CollectRadius float64 `yaml:"collect_radius"`
	BobHeight     float64 `yaml:"bob_height"`
	SpinSpeed     float64 `yaml:"spin_speed"`
}

// Spectacle holds cosmetic feedback parameters.
type Spectacle struct {
	ParticlePool   int     `yaml:"particle_pool"`
	FlashDuration  float64 `yaml:"flash_duration"`
	ShakeDecay     float64 `yaml:"shake_decay"`
	SlowMoScale    float64 `yaml:"slow_mo_scale"`
	SlowMoDuration float64 `yaml:"slow_mo_duration"`
	TextLifetime   float64 `yaml:"text_lifetime"`
	LightLifetime  float64 `yaml:"light_lifetime"`
	PulseDecay     float64 `yaml:"pulse_decay"`
}

// Frame holds frame loop timing.
type Frame struct {
	TargetFPS int     `yaml:"target_fps"`
	MaxDelta  float64 `yaml:"max_delta"`
}

// Default returns the default tuning.
func Default() Tuning {
	return Tuning{
		Rules: Rules{
			InitialLives:  3,
			ComboTimeout:  3.0,
			MultiplierCap: 10,
			InitialSpeed:  12.0,
			MaxSpeed:      30.0,
			Acceleration:  0.25,
			TargetPoints:  1,
			PickupPoints:  1,
		},
		Player: Player{
			LateralSpeed:  14.0,
			PathHalfWidth: 4.0,
			ThrowCooldown: 0.3,
			Invincibility: 1.5,
			HitRadius:     1.2,
			BlinkHz:       10.0,
		},
		Projectile: Projectile{
			Speed:          40.0,
			Range:          60.0,
			HitRadius:      1.5,
			ArcHeight:      2.5,
			LaunchHeight:   1.0,
			ThrowScanRange: 50.0,
			CollisionScan:  6.0,
		},
		World: World{
			RowSpacing:       8.0,
			TargetSideChance: 0.5,
			TargetOffset:     5.5,
			TargetHeight:     1.0,
			SpawnDistance:    120.0,
			CleanupDistance:  20.0,
			SegmentLength:    10.0,
			SceneryAhead:     140.0,
			SnapshotRange:    60.0,
		},
		Obstacle: Obstacle{
			IntervalMax:     2.4,
			IntervalMin:     0.7,
			Jitter:          0.25,
			Speed:           6.0,
			SpawnAhead:      70.0,
			RetireDistance:  10.0,
			NearMissRadius:  2.6,
			CollisionScan:   4.0,
			FirstSpawnDelay: 2.0,
		},
		Critter: Critter{
			Lifetime:       2.4,
			Speed:          5.0,
			PickupInterval: 0.4,
			JitterInterval: 0.3,
			JitterAngle:    0.6,
		},
		Pickup: Pickup{
			Lifetime:      6.0,
			CollectTime:   0.3,
			CollectRadius: 1.6,
			BobHeight:     0.3,
			SpinSpeed:     4.0,
		},
		Spectacle: Spectacle{
			ParticlePool:   256,
			FlashDuration:  0.4,
			ShakeDecay:     3.0,
			SlowMoScale:    0.5,
			SlowMoDuration: 0.35,
			TextLifetime:   0.8,
			LightLifetime:  0.3,
			PulseDecay:     4.0,
		},
		Frame: Frame{
			TargetFPS: 60,
			MaxDelta:  0.1,
		},
	}
}

// LoadTuning reads a YAML file and overlays it on the defaults.
// A missing file yields the defaults without error.
func LoadTuning(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return t, fmt.Errorf("read tuning %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Default(), fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Default(), fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate reports values the simulation cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.Rules.InitialLives <= 0:
		return errors.New("rules.initial_lives must be positive")
	case t.Rules.MultiplierCap < 1:
		return errors.New("rules.multiplier_cap must be at least 1")
	case t.Rules.MaxSpeed < t.Rules.InitialSpeed:
		return errors.New("rules.max_speed must not be below rules.initial_speed")
	case t.Rules.ComboTimeout <= 0:
		return errors.New("rules.combo_timeout must be positive")
	case t.World.RowSpacing <= 0:
		return errors.New("world.row_spacing must be positive")
	case t.World.SegmentLength <= 0:
		return errors.New("world.segment_length must be positive")
	case t.Obstacle.IntervalMin <= 0 || t.Obstacle.IntervalMax < t.Obstacle.IntervalMin:
		return errors.New("obstacle interval bounds are invalid")
	case t.Critter.PickupInterval <= 0:
		return errors.New("critter.pickup_interval must be positive")
	case t.Critter.JitterInterval <= 0:
		return errors.New("critter.jitter_interval must be positive")
	case t.Spectacle.ParticlePool <= 0:
		return errors.New("spectacle.particle_pool must be positive")
	case t.Frame.TargetFPS <= 0:
		return errors.New("frame.target_fps must be positive")
	}
	return nil
}
