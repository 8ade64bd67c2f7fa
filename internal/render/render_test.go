package render

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/event"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
	"github.com/tomz197/streetrunner/internal/spectacle"
)

func TestProjection(t *testing.T) {
	pr := Projector{Eye: physics.Vec3{Y: 3, Z: 10}, Width: 80, Height: 48}

	ahead, ok := pr.Project(physics.Vec3{Y: 3, Z: 0})
	require.True(t, ok)
	assert.InDelta(t, 40, ahead.X, 1e-9)
	assert.InDelta(t, 48*horizon, ahead.Y, 1e-9, "eye-level points sit on the horizon")

	near, _ := pr.Project(physics.Vec3{X: 2, Z: 5})
	far, _ := pr.Project(physics.Vec3{X: 2, Z: -50})
	assert.Greater(t, near.X, far.X, "lateral offset shrinks with depth")
	assert.Greater(t, near.Y, far.Y, "ground rises toward the horizon")

	_, ok = pr.Project(physics.Vec3{Z: 10})
	assert.False(t, ok, "behind the near plane")

	zoomed := pr
	zoomed.Zoom = 0.5
	zp, _ := zoomed.Project(physics.Vec3{X: 2, Z: 5})
	assert.Greater(t, zp.X, near.X)
}

func newGraph(t *testing.T) *scene.Graph {
	t.Helper()
	lib, err := scene.NewDefaultLibrary(log.New(io.Discard))
	require.NoError(t, err)
	return scene.NewGraph(lib)
}

func findRune(g *draw.Grid, r rune) bool {
	w, h := g.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Cell(x, y).Rune == r {
				return true
			}
		}
	}
	return false
}

func TestDrawShowsNodesAhead(t *testing.T) {
	graph := newGraph(t)
	graph.Place("target", physics.Vec3{X: 1, Y: 1, Z: -20})
	behind := graph.Place("obstacle", physics.Vec3{Z: 30})

	cam := scene.NewCamera()
	cam.Track(physics.Vec3{})

	surf := draw.NewGrid(80, 24)
	New(nil).Draw(surf, Frame{Graph: graph, Camera: cam, PathHalfWidth: 4, FarPlane: 120})

	assert.True(t, findRune(surf, 'O'), "target glyph drawn")
	assert.False(t, findRune(surf, '#'), "obstacle behind the camera is culled")
	assert.True(t, findRune(surf, draw.BlockFull) || findRune(surf, draw.BlockUpperHalf), "road drawn")

	behind.SetPosition(physics.Vec3{Z: -10})
	surf.Clear()
	New(nil).Draw(surf, Frame{Graph: graph, Camera: cam, PathHalfWidth: 4})
	assert.True(t, findRune(surf, '#'))
}

func TestHiddenNodesSkipped(t *testing.T) {
	graph := newGraph(t)
	n := graph.Place("player", physics.Vec3{Z: -5})
	n.SetVisible(false)

	cam := scene.NewCamera()
	surf := draw.NewGrid(40, 20)
	New(nil).Draw(surf, Frame{Graph: graph, Camera: cam, PathHalfWidth: 4})
	assert.False(t, findRune(surf, '@'))
}

func TestEffectsOverlay(t *testing.T) {
	quiet := log.New(io.Discard)
	bus := event.NewBus(quiet)
	fx := spectacle.New(bus, config.Default().Spectacle, nil, rand.New(rand.NewSource(1)), quiet)

	bus.Publish(event.TargetHit{Position: physics.Vec3{Y: 1, Z: -15}, Combo: 1, Multiplier: 1, Points: 1})
	cam := scene.NewCamera()
	surf := draw.NewGrid(80, 24)
	New(nil).Draw(surf, Frame{Camera: cam, Effects: fx, PathHalfWidth: 4})
	assert.True(t, findRune(surf, '+'), "floating score text")

	bus.Publish(event.PlayerHit{Lives: 2})
	surf.Clear()
	New(nil).Draw(surf, Frame{Camera: cam, Effects: fx, PathHalfWidth: 4})
	assert.True(t, findRune(surf, draw.ShadeLevel(0.5)), "flash tints empty cells")
}

func TestEmptySurface(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).Draw(draw.NewGrid(0, 0), Frame{})
	})
}
