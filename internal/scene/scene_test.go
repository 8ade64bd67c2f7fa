package scene

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/streetrunner/internal/physics"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestDefaultCatalog(t *testing.T) {
	lib, err := NewDefaultLibrary(quiet())
	require.NoError(t, err)
	require.NoError(t, lib.Preload("player", "target", "obstacle", "pickup", "projectile", "critter", "segment"))

	m := lib.Clone("target")
	assert.Equal(t, Loaded, m.Rep)
	assert.Equal(t, 'O', m.Glyph)
}

func TestUnknownModelFallsBack(t *testing.T) {
	lib, err := NewDefaultLibrary(quiet())
	require.NoError(t, err)

	err = lib.Preload("player", "spaceship")
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), "spaceship")

	m := lib.Clone("spaceship")
	assert.Equal(t, Fallback, m.Rep)
	assert.Equal(t, physics.Vec3{X: 1, Y: 1, Z: 1}, m.Size)
}

func TestMalformedCatalogFallsBack(t *testing.T) {
	lib := NewLibrary(quiet())
	err := lib.Load(strings.NewReader("models: [oops"))
	assert.Error(t, err)
	assert.True(t, lib.Loaded())
	assert.Equal(t, Fallback, lib.Clone("player").Rep)
}

func TestInvalidEntriesSkipped(t *testing.T) {
	lib := NewLibrary(quiet())
	require.NoError(t, lib.Load(strings.NewReader(`
models:
  good: {glyph: "g", size: [1, 1, 1], style: x}
  wide: {glyph: "ab", size: [1, 1, 1]}
  flat: {glyph: "f", size: [1, 1]}
`)))
	assert.Equal(t, Loaded, lib.Clone("good").Rep)
	assert.Equal(t, Fallback, lib.Clone("wide").Rep)
	assert.Equal(t, Fallback, lib.Clone("flat").Rep)
}

func TestPendingNodesResolve(t *testing.T) {
	lib := NewLibrary(quiet())
	g := NewGraph(lib)

	n := g.Place("player", physics.Vec3{})
	assert.Equal(t, Pending, n.Model().Rep)
	assert.Equal(t, 0, g.Resolve(), "nothing to resolve before load")

	require.NoError(t, lib.LoadBytes(defaultCatalog))
	assert.Equal(t, 1, g.Resolve())
	assert.Equal(t, Loaded, n.Model().Rep)
}

func TestGraphPlaceRemove(t *testing.T) {
	lib, err := NewDefaultLibrary(quiet())
	require.NoError(t, err)
	g := NewGraph(lib)

	a := g.Place("target", physics.Vec3{Z: -1})
	b := g.Place("target", physics.Vec3{Z: -2})
	c := g.Place("target", physics.Vec3{Z: -3})
	assert.Equal(t, 3, g.Len())

	g.Remove(a)
	g.Remove(a)
	g.Remove(nil)
	assert.Equal(t, 2, g.Len())
	assert.True(t, a.Removed())

	var seen []*Node
	g.Each(func(n *Node) { seen = append(seen, n) })
	assert.Equal(t, []*Node{b, c}, seen, "placement order survives removal")

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.True(t, c.Removed())
}

func TestNodeTransforms(t *testing.T) {
	lib, err := NewDefaultLibrary(quiet())
	require.NoError(t, err)
	g := NewGraph(lib)

	n := g.Place("pickup", physics.Vec3{X: 1})
	n.SetPosition(physics.Vec3{X: 2})
	n.SetOffset(physics.Vec3{Y: 0.5})
	n.SetDim(true)
	n.SetVisible(false)

	assert.Equal(t, physics.Vec3{X: 2, Y: 0.5}, n.WorldPosition())
	assert.True(t, n.Dimmed())
	assert.False(t, n.Visible())
	assert.Equal(t, 1.0, n.Scale())
}

func TestCameraTracksPlayerOnly(t *testing.T) {
	c := NewCamera()
	c.Track(physics.Vec3{X: 2, Z: -40})
	first := c.Pos

	c.Track(physics.Vec3{X: -3, Z: -10})
	c.Track(physics.Vec3{X: 2, Z: -40})
	assert.Equal(t, first, c.Pos)
	assert.Greater(t, c.Pos.Z, -40.0, "behind the player")
	assert.Greater(t, c.Pos.Y, 0.0)
}
