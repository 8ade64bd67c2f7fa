package event

import "github.com/tomz197/streetrunner/internal/physics"

// Kind identifies a gameplay event. The set is closed; every kind has exactly
// one payload type below.
type Kind int

const (
	// KindGameStarted: a run began (menu -> playing or restart).
	// Consumers: spectacle, HUD, audio | Payload: GameStarted
	KindGameStarted Kind = iota

	// KindProjectileThrown: the player threw.
	// Consumers: spectacle, audio | Payload: ProjectileThrown
	KindProjectileThrown

	// KindTargetHit: a projectile connected with an unhit target.
	// Consumers: spectacle, audio | Payload: TargetHit
	KindTargetHit

	// KindScoreChanged: score or best score changed.
	// Consumers: HUD | Payload: ScoreChanged
	KindScoreChanged

	// KindComboChanged: combo increased.
	// Consumers: HUD, spectacle | Payload: ComboChanged
	KindComboChanged

	// KindComboReset: combo dropped to zero (timeout or damage).
	// Consumers: HUD, spectacle | Payload: ComboReset
	KindComboReset

	// KindPlayerHit: an obstacle damaged the player.
	// Consumers: spectacle, audio | Payload: PlayerHit
	KindPlayerHit

	// KindLivesChanged: life count changed.
	// Consumers: HUD | Payload: LivesChanged
	KindLivesChanged

	// KindNearMiss: an obstacle passed within the near-miss band. Fires every
	// frame the condition holds.
	// Consumers: spectacle (slow motion), audio | Payload: NearMiss
	KindNearMiss

	// KindObstacleSpawned: the generator placed an obstacle.
	// Consumers: none by default | Payload: ObstacleSpawned
	KindObstacleSpawned

	// KindPickupSpawned: a critter dropped a pickup.
	// Consumers: spectacle | Payload: PickupSpawned
	KindPickupSpawned

	// KindPickupCollected: the player collected a pickup.
	// Consumers: spectacle, audio | Payload: PickupCollected
	KindPickupCollected

	// KindGameOver: lives reached zero.
	// Consumers: HUD, spectacle, audio, prefs | Payload: GameOver
	KindGameOver

	// KindRestartRequested: the HUD asks for a new run.
	// Consumers: orchestrator | Payload: RestartRequested
	KindRestartRequested

	// KindMuteToggled: the mute preference changed.
	// Consumers: audio, prefs | Payload: MuteToggled
	KindMuteToggled

	kindCount
)

var kindNames = [kindCount]string{
	KindGameStarted:      "game-started",
	KindProjectileThrown: "projectile-thrown",
	KindTargetHit:        "target-hit",
	KindScoreChanged:     "score-changed",
	KindComboChanged:     "combo-changed",
	KindComboReset:       "combo-reset",
	KindPlayerHit:        "player-hit",
	KindLivesChanged:     "lives-changed",
	KindNearMiss:         "near-miss",
	KindObstacleSpawned:  "obstacle-spawned",
	KindPickupSpawned:    "pickup-spawned",
	KindPickupCollected:  "pickup-collected",
	KindGameOver:         "game-over",
	KindRestartRequested: "restart-requested",
	KindMuteToggled:      "mute-toggled",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Payload is implemented by every event payload type.
// Payloads are value types; Kind must not depend on field values.
type Payload interface {
	Kind() Kind
}

// GameStarted is published when a run begins.
type GameStarted struct {
	RunID string
	Lives int
}

// ProjectileThrown is published when the player throws.
type ProjectileThrown struct {
	Position physics.Vec3
	Targeted bool
}

// TargetHit is published when a projectile hits a target.
type TargetHit struct {
	Position   physics.Vec3
	Combo      int
	Multiplier int
	Points     int
}

// ScoreChanged carries the new score.
type ScoreChanged struct {
	Score     int
	BestScore int
}

// ComboChanged carries the new combo.
type ComboChanged struct {
	Combo      int
	BestCombo  int
	Multiplier int
}

// ComboReset is published when the combo drops to zero.
type ComboReset struct {
	Expired bool // true for timeout, false for damage
}

// PlayerHit is published when an obstacle damages the player.
type PlayerHit struct {
	Position physics.Vec3
	Lives    int
}

// LivesChanged carries the new life count.
type LivesChanged struct {
	Lives int
}

// NearMiss is published while an obstacle is inside the near-miss band.
type NearMiss struct {
	Position physics.Vec3
	Distance float64
	Frame    uint64 // game frame that observed it
}

// ObstacleSpawned is published when an obstacle is placed.
type ObstacleSpawned struct {
	Position physics.Vec3
}

// PickupSpawned is published when a pickup enters the pool.
type PickupSpawned struct {
	Position physics.Vec3
}

// PickupCollected is published when the player collects a pickup.
type PickupCollected struct {
	Position physics.Vec3
	Points   int
}

// GameOver is published when the last life is lost.
type GameOver struct {
	Score     int
	BestScore int
	BestCombo int
}

// RestartRequested asks the orchestrator for a new run.
type RestartRequested struct{}

// MuteToggled carries the new mute flag.
type MuteToggled struct {
	Muted bool
}

func (GameStarted) Kind() Kind      { return KindGameStarted }
func (ProjectileThrown) Kind() Kind { return KindProjectileThrown }
func (TargetHit) Kind() Kind        { return KindTargetHit }
func (ScoreChanged) Kind() Kind     { return KindScoreChanged }
func (ComboChanged) Kind() Kind     { return KindComboChanged }
func (ComboReset) Kind() Kind       { return KindComboReset }
func (PlayerHit) Kind() Kind        { return KindPlayerHit }
func (LivesChanged) Kind() Kind     { return KindLivesChanged }
func (NearMiss) Kind() Kind         { return KindNearMiss }
func (ObstacleSpawned) Kind() Kind  { return KindObstacleSpawned }
func (PickupSpawned) Kind() Kind    { return KindPickupSpawned }
func (PickupCollected) Kind() Kind  { return KindPickupCollected }
func (GameOver) Kind() Kind         { return KindGameOver }
func (RestartRequested) Kind() Kind { return KindRestartRequested }
func (MuteToggled) Kind() Kind      { return KindMuteToggled }
