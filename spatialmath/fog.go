package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// CylindricalFog is the volume within Radius of Center on the horizontal (x/z) plane. It has no
// vertical limit.
type CylindricalFog struct {
	Center r3.Vector
	Radius float64
}

// TestBox classifies box against the fog cylinder.
func (f CylindricalFog) TestBox(box AABB) BoundsCheckResult {
	nearX := clamp(f.Center.X, box.Min.X, box.Max.X) - f.Center.X
	nearZ := clamp(f.Center.Z, box.Min.Z, box.Max.Z) - f.Center.Z
	radiusSq := f.Radius * f.Radius
	if nearX*nearX+nearZ*nearZ > radiusSq {
		return Outside
	}

	farX := math.Max(math.Abs(box.Min.X-f.Center.X), math.Abs(box.Max.X-f.Center.X))
	farZ := math.Max(math.Abs(box.Min.Z-f.Center.Z), math.Abs(box.Max.Z-f.Center.Z))
	if farX*farX+farZ*farZ <= radiusSq {
		return Inside
	}
	return Partial
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
