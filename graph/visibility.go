package graph

import (
	"fmt"
	"strings"

	"github.com/NunexHost/sodium-fabric-s/graph/direction"
)

// VisibilityData is the symmetric face connectivity of one section packed into its lower triangle.
// Row i (faces 1 to 5) holds i bits starting at bit i*(i-1)/2; bit j of row i is set when faces i and j
// see each other through the section. Bit 15 is unused and ignored.
type VisibilityData uint16

const (
	visibilityBits = 15
	visibilityMask = 1<<visibilityBits - 1
)

// AllPassVisibility connects every pair of faces. Empty sections (air) use it.
const AllPassVisibility VisibilityData = visibilityMask

// rowOffset is the bit offset of row i of the packed triangle.
func rowOffset(i uint) uint {
	return i * (i - 1) / 2
}

// PackVisibilityData packs a 6x6 connectivity matrix where bit from*6+to of raw means face from reaches
// face to. Only the lower triangle (from > to) is read.
func PackVisibilityData(raw uint64) VisibilityData {
	var packed uint16
	for i := uint(1); i < direction.Count; i++ {
		row := uint16(raw>>(i*direction.Count)) & (1<<i - 1)
		packed |= row << rowOffset(i)
	}
	return VisibilityData(packed)
}

// Connected reports whether faces a and b see each other. A face is not connected to itself.
func (v VisibilityData) Connected(a, b direction.Direction) bool {
	if a == b {
		return false
	}
	if a < b {
		a, b = b, a
	}
	return v>>(rowOffset(uint(a))+uint(b))&1 != 0
}

// nz returns 1 if x is non-zero and 0 otherwise.
func nz(x uint32) uint32 {
	return (x | -x) >> 31
}

// OutgoingDirections returns every face reachable from a face in incoming. It is the boolean product of
// the connectivity matrix with incoming, evaluated for all five packed rows without branching: a row
// contributes its own face when it shares a bit with incoming, and contributes its columns when its own
// face is incoming.
func (v VisibilityData) OutgoingDirections(incoming direction.Set) direction.Set {
	bits := uint32(v)
	in := uint32(incoming)

	r1 := bits & 0b1
	r2 := bits >> 1 & 0b11
	r3 := bits >> 3 & 0b111
	r4 := bits >> 6 & 0b1111
	r5 := bits >> 10 & 0b11111

	rows := nz(r1&in)<<1 |
		nz(r2&in)<<2 |
		nz(r3&in)<<3 |
		nz(r4&in)<<4 |
		nz(r5&in)<<5

	cols := r1&(0-(in>>1&1)) |
		r2&(0-(in>>2&1)) |
		r3&(0-(in>>3&1)) |
		r4&(0-(in>>4&1)) |
		r5&(0-(in>>5&1))

	return direction.Set(rows | cols)
}

// String renders the matrix as the faces connected to each face.
func (v VisibilityData) String() string {
	var sb strings.Builder
	for _, from := range direction.Ordered {
		if from != direction.Ordered[0] {
			sb.WriteByte(' ')
		}
		var to direction.Set
		for _, d := range direction.Ordered {
			if v.Connected(from, d) {
				to.Add(d)
			}
		}
		fmt.Fprintf(&sb, "%v:%v", from, to)
	}
	return sb.String()
}
