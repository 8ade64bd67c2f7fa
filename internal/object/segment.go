package object

import (
	"github.com/tomz197/streetrunner/internal/physics"
	"github.com/tomz197/streetrunner/internal/scene"
)

// Prop is a roadside model placed relative to a segment's near edge.
type Prop struct {
	Model  string
	Offset physics.Vec3
}

// Segment is a static piece of street with optional roadside props.
type Segment struct {
	body

	Length float64
	props  []*scene.Node
}

// NewSegment creates a street segment whose near edge starts at pos.Z and
// extends Length toward -Z. Props are placed beside the path.
func NewSegment(p scene.Presenter, pos physics.Vec3, length float64, props []Prop) *Segment {
	s := &Segment{body: newBody(p, "segment", pos), Length: length}
	if p == nil {
		return s
	}
	for _, pr := range props {
		s.props = append(s.props, p.Place(pr.Model, pos.Add(pr.Offset)))
	}
	return s
}

// FarZ returns the Z of the far edge.
func (s *Segment) FarZ() float64 {
	return s.pos.Z - s.Length
}

// Update is a no-op; segments are retired by the generator.
func (s *Segment) Update(UpdateContext) bool {
	return s.destroyed
}

// Dispose removes the segment and its props.
func (s *Segment) Dispose() {
	if s.presenter != nil {
		for _, n := range s.props {
			s.presenter.Remove(n)
		}
	}
	s.props = nil
	s.body.Dispose()
}
