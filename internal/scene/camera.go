package scene

import "github.com/tomz197/streetrunner/internal/physics"

// Camera follows the player from behind and above.
type Camera struct {
	Pos    physics.Vec3
	Height float64 // above the player
	Back   float64 // behind the player (+Z)
}

func NewCamera() Camera {
	return Camera{Height: 3.5, Back: 7}
}

// Track places the camera relative to the player. The result depends only
// on the player position; cosmetic offsets are applied by the renderer.
func (c *Camera) Track(player physics.Vec3) {
	c.Pos = physics.Vec3{
		X: player.X * 0.6,
		Y: player.Y + c.Height,
		Z: player.Z + c.Back,
	}
}
