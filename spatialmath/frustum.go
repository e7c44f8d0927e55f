package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Plane is the set of points p with Normal·p + D = 0. Points with a positive distance are on the inner
// side.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) + p.D
}

func planeFromRow(v mgl64.Vec4) Plane {
	n := r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	length := n.Norm()
	if length == 0 {
		return Plane{Normal: n, D: v[3]}
	}
	return Plane{Normal: n.Mul(1 / length), D: v[3] / length}
}

// Frustum is a convex view volume bounded by six planes facing inward.
type Frustum struct {
	planes [6]Plane
}

// NewFrustumFromMatrix extracts the clipping planes of an OpenGL style view-projection matrix
// (Gribb/Hartmann).
func NewFrustumFromMatrix(viewProjection mgl64.Mat4) *Frustum {
	row0, row1, row2, row3 := viewProjection.Row(0), viewProjection.Row(1), viewProjection.Row(2), viewProjection.Row(3)
	return &Frustum{planes: [6]Plane{
		planeFromRow(row3.Add(row0)), // left
		planeFromRow(row3.Sub(row0)), // right
		planeFromRow(row3.Add(row1)), // bottom
		planeFromRow(row3.Sub(row1)), // top
		planeFromRow(row3.Add(row2)), // near
		planeFromRow(row3.Sub(row2)), // far
	}}
}

// NewPerspectiveFrustum builds the frustum of a perspective camera at eye looking at target.
func NewPerspectiveFrustum(eye, target, up r3.Vector, fovYDegrees, aspect, near, far float64) (*Frustum, error) {
	if fovYDegrees <= 0 || fovYDegrees >= 180 {
		return nil, errors.Errorf("invalid field of view (%.2f) for frustum", fovYDegrees)
	}
	if aspect <= 0 {
		return nil, errors.Errorf("invalid aspect ratio (%.2f) for frustum", aspect)
	}
	if near <= 0 || far <= near {
		return nil, errors.Errorf("invalid clip range (%.2f, %.2f) for frustum", near, far)
	}
	if eye.Sub(target).Norm() == 0 {
		return nil, errors.New("camera eye and target coincide")
	}

	proj := mgl64.Perspective(mgl64.DegToRad(fovYDegrees), aspect, near, far)
	view := mgl64.LookAtV(toVec3(eye), toVec3(target), toVec3(up))
	return NewFrustumFromMatrix(proj.Mul4(view)), nil
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Planes returns the left, right, bottom, top, near and far planes.
func (f *Frustum) Planes() [6]Plane {
	return f.planes
}

// ContainsPoint reports whether p is on the inner side of every plane.
func (f *Frustum) ContainsPoint(p r3.Vector) bool {
	for _, plane := range f.planes {
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// TestBox classifies box against the frustum. The test is conservative: a box near a frustum corner
// may be reported Partial although it is outside, never the other way round.
func (f *Frustum) TestBox(box AABB) BoundsCheckResult {
	result := Inside
	for _, plane := range f.planes {
		if plane.Distance(box.positiveVertex(plane.Normal)) < 0 {
			return Outside
		}
		if plane.Distance(box.negativeVertex(plane.Normal)) < 0 {
			result = Partial
		}
	}
	return result
}
