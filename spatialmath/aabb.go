// Package spatialmath defines the geometry the section graph tests its octree nodes against: axis
// aligned boxes, a plane frustum and a cylindrical fog volume.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// BoundsCheckResult classifies a box against a volume.
type BoundsCheckResult uint8

const (
	// Outside means no part of the box is in the volume.
	Outside BoundsCheckResult = iota
	// Inside means the whole box is in the volume.
	Inside
	// Partial means the box straddles the volume's boundary.
	Partial
)

func (r BoundsCheckResult) String() string {
	switch r {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case Partial:
		return "partial"
	default:
		return fmt.Sprintf("BoundsCheckResult(%d)", uint8(r))
	}
}

// Intersect combines the results of testing one box against two volumes into the result for the
// intersection of those volumes.
func (r BoundsCheckResult) Intersect(other BoundsCheckResult) BoundsCheckResult {
	switch {
	case r == Outside || other == Outside:
		return Outside
	case r == Inside && other == Inside:
		return Inside
	default:
		return Partial
	}
}

// AABB is an axis aligned box given by its minimum and maximum corners.
type AABB struct {
	Min, Max r3.Vector
}

// NewAABB returns the box spanned by two opposite corners in any order.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b AABB) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies in the closed box.
func (b AABB) ContainsPoint(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// positiveVertex returns the corner that lies furthest along n.
func (b AABB) positiveVertex(n r3.Vector) r3.Vector {
	v := b.Min
	if n.X >= 0 {
		v.X = b.Max.X
	}
	if n.Y >= 0 {
		v.Y = b.Max.Y
	}
	if n.Z >= 0 {
		v.Z = b.Max.Z
	}
	return v
}

// negativeVertex returns the corner that lies furthest against n.
func (b AABB) negativeVertex(n r3.Vector) r3.Vector {
	v := b.Max
	if n.X >= 0 {
		v.X = b.Min.X
	}
	if n.Y >= 0 {
		v.Y = b.Min.Y
	}
	if n.Z >= 0 {
		v.Z = b.Min.Z
	}
	return v
}

func (b AABB) String() string {
	return fmt.Sprintf("[%v, %v]", b.Min, b.Max)
}
