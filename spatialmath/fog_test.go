package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestCylindricalFog(t *testing.T) {
	fog := CylindricalFog{Center: r3.Vector{X: 0, Y: 64, Z: 0}, Radius: 10}

	cases := []struct {
		name     string
		box      AABB
		expected BoundsCheckResult
	}{
		{"near the center", NewAABB(r3.Vector{X: 1, Y: 0, Z: 1}, r3.Vector{X: 2, Y: 5, Z: 2}), Inside},
		{"ignores height", NewAABB(r3.Vector{X: 1, Y: -500, Z: 1}, r3.Vector{X: 2, Y: 500, Z: 2}), Inside},
		{"far away", NewAABB(r3.Vector{X: 20, Y: 0, Z: 0}, r3.Vector{X: 21, Y: 1, Z: 1}), Outside},
		{"diagonal corner outside", NewAABB(r3.Vector{X: 7.5, Y: 0, Z: 7.5}, r3.Vector{X: 8, Y: 1, Z: 8}), Outside},
		{"straddling the radius", NewAABB(r3.Vector{X: -5, Y: 0, Z: -1}, r3.Vector{X: 15, Y: 1, Z: 1}), Partial},
		{"containing the cylinder", NewAABB(r3.Vector{X: -50, Y: 0, Z: -50}, r3.Vector{X: 50, Y: 1, Z: 50}), Partial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, fog.TestBox(tc.box), test.ShouldEqual, tc.expected)
		})
	}
}

func TestBoundsCheckIntersect(t *testing.T) {
	all := []BoundsCheckResult{Outside, Inside, Partial}
	for _, a := range all {
		test.That(t, a.Intersect(Outside), test.ShouldEqual, Outside)
		test.That(t, Outside.Intersect(a), test.ShouldEqual, Outside)
		test.That(t, a.Intersect(Inside), test.ShouldEqual, a)
		test.That(t, a.Intersect(a), test.ShouldEqual, a)
	}
	test.That(t, Inside.Intersect(Partial), test.ShouldEqual, Partial)
	test.That(t, Partial.String(), test.ShouldEqual, "partial")
}

func TestAABB(t *testing.T) {
	box := NewAABB(r3.Vector{X: 2, Y: -1, Z: 4}, r3.Vector{X: 0, Y: 1, Z: 0})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: 0, Y: -1, Z: 0})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 1, Z: 4})
	test.That(t, box.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 0, Z: 2})
	test.That(t, box.Size(), test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 4})
	test.That(t, box.ContainsPoint(r3.Vector{X: 1, Y: 0, Z: 2}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: 3, Y: 0, Z: 2}), test.ShouldBeFalse)
}
