package spatialmath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func lookingDownNegZ(t *testing.T) *Frustum {
	t.Helper()
	f, err := NewPerspectiveFrustum(r3.Vector{}, r3.Vector{Z: -1}, r3.Vector{Y: 1}, 90, 1, 0.1, 100)
	test.That(t, err, test.ShouldBeNil)
	return f
}

func TestNewPerspectiveFrustum(t *testing.T) {
	eye := r3.Vector{}
	target := r3.Vector{Z: -1}
	up := r3.Vector{Y: 1}

	_, err := NewPerspectiveFrustum(eye, target, up, 0, 1, 0.1, 100)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPerspectiveFrustum(eye, target, up, 180, 1, 0.1, 100)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPerspectiveFrustum(eye, target, up, 70, 0, 0.1, 100)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPerspectiveFrustum(eye, target, up, 70, 1, 10, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPerspectiveFrustum(eye, eye, up, 70, 1, 0.1, 100)
	test.That(t, err, test.ShouldBeError, "camera eye and target coincide")

	f, err := NewPerspectiveFrustum(eye, target, up, 70, 16.0/9, 0.1, 100)
	test.That(t, err, test.ShouldBeNil)
	for _, plane := range f.Planes() {
		test.That(t, plane.Normal.Norm(), test.ShouldAlmostEqual, 1.0, 1e-9)
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := lookingDownNegZ(t)
	test.That(t, f.ContainsPoint(r3.Vector{Z: -10}), test.ShouldBeTrue)
	test.That(t, f.ContainsPoint(r3.Vector{X: 9, Z: -10}), test.ShouldBeTrue)
	test.That(t, f.ContainsPoint(r3.Vector{X: 11, Z: -10}), test.ShouldBeFalse)
	test.That(t, f.ContainsPoint(r3.Vector{Z: 10}), test.ShouldBeFalse)
	test.That(t, f.ContainsPoint(r3.Vector{Z: -200}), test.ShouldBeFalse)
}

func TestFrustumTestBox(t *testing.T) {
	f := lookingDownNegZ(t)

	cases := []struct {
		name     string
		box      AABB
		expected BoundsCheckResult
	}{
		{"in front", NewAABB(r3.Vector{X: -1, Y: -1, Z: -11}, r3.Vector{X: 1, Y: 1, Z: -9}), Inside},
		{"behind", NewAABB(r3.Vector{X: -1, Y: -1, Z: 5}, r3.Vector{X: 1, Y: 1, Z: 6}), Outside},
		{"beyond far plane", NewAABB(r3.Vector{X: -1, Y: -1, Z: -200}, r3.Vector{X: 1, Y: 1, Z: -150}), Outside},
		{"straddling left plane", NewAABB(r3.Vector{X: -20, Y: -1, Z: -11}, r3.Vector{X: 0, Y: 1, Z: -9}), Partial},
		{"containing the camera", NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1}), Partial},
		{"far to the right", NewAABB(r3.Vector{X: 50, Y: -1, Z: -11}, r3.Vector{X: 60, Y: 1, Z: -9}), Outside},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, f.TestBox(tc.box), test.ShouldEqual, tc.expected)
		})
	}
}

func TestFrustumFromIdentity(t *testing.T) {
	// The identity view-projection is the clip cube [-1, 1]³.
	f := NewFrustumFromMatrix(mgl64.Ident4())
	test.That(t, f.TestBox(NewAABB(r3.Vector{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})), test.ShouldEqual, Inside)
	test.That(t, f.TestBox(NewAABB(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 1.5, Y: 1.5, Z: 1.5})), test.ShouldEqual, Partial)
	test.That(t, f.TestBox(NewAABB(r3.Vector{X: 2, Y: 2, Z: 2}, r3.Vector{X: 3, Y: 3, Z: 3})), test.ShouldEqual, Outside)
}
