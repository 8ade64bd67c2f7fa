// Package render projects the scene graph and the cosmetic effects onto a
// terminal surface.
package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
	"github.com/tomz197/streetrunner/internal/spectacle"
)

const (
	nearPlane = 0.5
	horizon   = 0.35 // horizon height as a fraction of the screen from the top
	focal     = 0.9  // focal length as a fraction of the screen height
)

// Projector maps world positions to canvas sub-pixels.
type Projector struct {
	Eye    physics.Vec3
	Width  float64 // canvas pixels
	Height float64 // canvas sub-pixels
	Zoom   float64 // additive, 0 = none
}

// Depth returns how far p lies ahead of the eye.
func (pr Projector) Depth(p physics.Vec3) float64 {
	return pr.Eye.Z - p.Z
}

// Project returns the sub-pixel position of p and false when p is behind
// the near plane.
func (pr Projector) Project(p physics.Vec3) (draw.Point, bool) {
	d := pr.Depth(p)
	if d < nearPlane {
		return draw.Point{}, false
	}
	f := pr.Height * focal * (1 + pr.Zoom)
	return draw.Point{
		X: pr.Width/2 + (p.X-pr.Eye.X)*f/d,
		Y: pr.Height*horizon - (p.Y-pr.Eye.Y)*f/d,
	}, true
}

// ToCell converts a sub-pixel position to a surface cell.
func ToCell(pt draw.Point) (x, y int) {
	return int(math.Round(pt.X)), int(math.Floor(pt.Y / 2))
}

// Frame is everything drawn in one frame.
type Frame struct {
	Graph         *scene.Graph
	Camera        scene.Camera
	Effects       *spectacle.Layer // nil draws no effects
	PathHalfWidth float64
	FarPlane      float64
}

// Renderer owns the reusable canvas.
type Renderer struct {
	canvas  *draw.Canvas
	palette draw.Palette
	items   []item
}

type item struct {
	node  *scene.Node
	pos   physics.Vec3
	depth float64
}

func New(palette draw.Palette) *Renderer {
	if palette == nil {
		palette = draw.DefaultPalette
	}
	return &Renderer{canvas: draw.NewCanvas(0, 0), palette: palette}
}

// Draw paints f onto s. The surface is expected to be cleared.
func (r *Renderer) Draw(s draw.Surface, f Frame) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	if f.FarPlane <= 0 {
		f.FarPlane = 120
	}
	r.canvas.Resize(w, h)
	r.canvas.Clear()

	pr := Projector{
		Eye:    f.Camera.Pos,
		Width:  float64(r.canvas.Width()),
		Height: float64(r.canvas.Height()),
	}
	if f.Effects != nil {
		pr.Eye = pr.Eye.Add(f.Effects.CameraOffset())
		pr.Zoom = f.Effects.Zoom()
	}

	r.drawRoad(pr, f)
	r.collect(pr, f)
	for _, it := range r.items {
		r.drawBox(pr, it, f.FarPlane)
	}
	r.canvas.Blit(s)
	for _, it := range r.items {
		r.drawGlyph(s, pr, it, f.FarPlane)
	}

	if f.Effects != nil {
		r.drawLights(s, pr, f.Effects.Lights())
		r.drawParticles(s, pr, f.Effects.Particles())
		r.drawTexts(s, pr, f.Effects.Texts())
		r.drawFlash(s, f.Effects.FlashAlpha(), f.Effects.FlashStyle())
	}
}

// fog darkens colors with distance.
func fog(c draw.Color, depth, far float64) draw.Color {
	return c.Scale(1 - 0.75*physics.Clamp(depth/far, 0, 1))
}

func (r *Renderer) drawRoad(pr Projector, f Frame) {
	near := pr.Eye.Z - 1.5
	far := pr.Eye.Z - f.FarPlane
	hw := f.PathHalfWidth

	corners := []physics.Vec3{{X: -hw, Z: near}, {X: hw, Z: near}, {X: hw, Z: far}, {X: -hw, Z: far}}
	pts := r.canvas.BorrowPoints(len(corners))
	for i, c := range corners {
		p, ok := pr.Project(c)
		if !ok {
			return
		}
		pts[i] = p
	}
	r.canvas.DrawPolygon(pts, r.palette.Color("road"), true)

	edge := r.palette.Color("street")
	for _, x := range []float64{-hw, hw} {
		a, okA := pr.Project(physics.Vec3{X: x, Z: near})
		b, okB := pr.Project(physics.Vec3{X: x, Z: far})
		if okA && okB {
			r.canvas.DrawLine(a, b, edge)
		}
	}
}

// collect gathers visible nodes sorted far to near.
func (r *Renderer) collect(pr Projector, f Frame) {
	r.items = r.items[:0]
	if f.Graph == nil {
		return
	}
	f.Graph.Each(func(n *scene.Node) {
		if !n.Visible() {
			return
		}
		pos := n.WorldPosition()
		d := pr.Depth(pos)
		if d < nearPlane || d > f.FarPlane {
			return
		}
		r.items = append(r.items, item{node: n, pos: pos, depth: d})
	})
	slices.SortStableFunc(r.items, func(a, b item) int {
		return cmp.Compare(b.depth, a.depth)
	})
}

func (r *Renderer) nodeColor(n *scene.Node, depth, far float64) draw.Color {
	c := fog(r.palette.Color(n.Model().Style), depth, far)
	if n.Dimmed() {
		c = c.Scale(0.4)
	}
	if n.Flashing() {
		c = c.Blend(draw.RGB(255, 255, 255), 0.6)
	}
	return c
}

// drawBox fills the projected front face of the node's model box. Flat
// models draw a dash along the ground instead.
func (r *Renderer) drawBox(pr Projector, it item, far float64) {
	m := it.node.Model()
	col := r.nodeColor(it.node, it.depth, far)
	scale := it.node.Scale()

	if m.Size.Y == 0 {
		a, okA := pr.Project(it.pos)
		b, okB := pr.Project(it.pos.Add(physics.Vec3{Z: -m.Size.Z / 2}))
		if okA && okB {
			r.canvas.DrawLine(a, b, col)
		}
		return
	}

	hw := m.Size.X / 2 * scale
	if spin := it.node.Spin(); spin != 0 {
		hw *= math.Max(0.2, math.Abs(math.Cos(spin)))
	}
	ht := m.Size.Y * scale
	front := it.pos.Z + m.Size.Z/2*scale
	if pr.Depth(physics.Vec3{Z: front}) < nearPlane {
		front = it.pos.Z
	}

	corners := [4]physics.Vec3{
		{X: it.pos.X - hw, Y: it.pos.Y, Z: front},
		{X: it.pos.X + hw, Y: it.pos.Y, Z: front},
		{X: it.pos.X + hw, Y: it.pos.Y + ht, Z: front},
		{X: it.pos.X - hw, Y: it.pos.Y + ht, Z: front},
	}
	pts := r.canvas.BorrowPoints(4)
	for i, c := range corners {
		p, ok := pr.Project(c)
		if !ok {
			return
		}
		pts[i] = p
	}
	r.canvas.DrawPolygon(pts, col, true)
}

func (r *Renderer) drawGlyph(s draw.Surface, pr Projector, it item, far float64) {
	m := it.node.Model()
	if m.Glyph == 0 || m.Size.Y == 0 || m.Style == "scenery" {
		return
	}
	center := it.pos
	center.Y += m.Size.Y * it.node.Scale() / 2
	p, ok := pr.Project(center)
	if !ok {
		return
	}
	x, y := ToCell(p)
	col := r.nodeColor(it.node, it.depth, far)
	s.SetCell(x, y, m.Glyph, draw.Style{Fg: col.Blend(draw.RGB(255, 255, 255), 0.5), Bg: col, Bold: true})
}

func (r *Renderer) drawLights(s draw.Surface, pr Projector, lights []spectacle.Light) {
	for _, l := range lights {
		p, ok := pr.Project(l.Pos)
		if !ok {
			continue
		}
		level := l.Level()
		radius := min(12, max(1, int(l.Radius*pr.Height*focal/pr.Depth(l.Pos)/2)))
		cx, cy := ToCell(p)
		col := r.palette.Color(l.Style)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -2 * radius; dx <= 2*radius; dx++ {
				dist := math.Hypot(float64(dx)/2, float64(dy)) / float64(radius)
				if dist > 1 {
					continue
				}
				x, y := cx+dx, cy+dy
				if s.Cell(x, y).Rune != ' ' {
					continue
				}
				glow := level * (1 - dist) * 0.6
				if ch := draw.ShadeLevel(glow); ch != ' ' {
					s.SetCell(x, y, ch, draw.Style{Fg: col.Scale(glow + 0.3)})
				}
			}
		}
	}
}

func (r *Renderer) drawParticles(s draw.Surface, pr Projector, pool *spectacle.ParticlePool) {
	pool.Each(func(p *spectacle.Particle) {
		pt, ok := pr.Project(p.Pos)
		if !ok {
			return
		}
		x, y := ToCell(pt)
		s.SetCell(x, y, p.Symbol, draw.Style{Fg: r.palette.Color(p.Style).Scale(0.3 + 0.7*p.Fade())})
	})
}

func (r *Renderer) drawTexts(s draw.Surface, pr Projector, texts []spectacle.FloatingText) {
	for _, t := range texts {
		pt, ok := pr.Project(t.Position())
		if !ok {
			continue
		}
		x, y := ToCell(pt)
		st := draw.Style{Fg: r.palette.Color(t.Style).Scale(0.3 + 0.7*t.Fade()), Bold: true}
		draw.Text(s, x-len([]rune(t.Value))/2, y, t.Value, st)
	}
}

// drawFlash tints the whole surface toward the flash color.
func (r *Renderer) drawFlash(s draw.Surface, alpha float64, style string) {
	if alpha <= 0 {
		return
	}
	tint := r.palette.Color(style)
	w, h := s.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := s.Cell(x, y)
			if c.Rune == ' ' && !c.Style.Bg.Valid() {
				if ch := draw.ShadeLevel(alpha * 0.5); ch != ' ' {
					s.SetCell(x, y, ch, draw.Style{Fg: tint.Scale(alpha)})
				}
				continue
			}
			st := c.Style
			st.Fg = st.Fg.Blend(tint, alpha*0.6)
			if st.Bg.Valid() {
				st.Bg = st.Bg.Blend(tint, alpha*0.6)
			}
			s.SetCell(x, y, c.Rune, st)
		}
	}
}
