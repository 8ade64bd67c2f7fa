package world

import (
	"math"

	"github.com/tomz197/streetrunner/internal/object"
)

// InRange appends to dst every live item whose Z is within rng of z and for
// which keep (if non-nil) returns true.
func InRange[T object.Collidable](dst, items []T, z, rng float64, keep func(T) bool) []T {
	for _, it := range items {
		if !it.Alive() {
			continue
		}
		if math.Abs(it.Position().Z-z) > rng {
			continue
		}
		if keep != nil && !keep(it) {
			continue
		}
		dst = append(dst, it)
	}
	return dst
}
