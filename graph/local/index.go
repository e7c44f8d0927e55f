// Package local implements the camera-local coordinate space of the section graph: hierarchical node
// indices over a 256³ section grid and the per-cull coordinate context that classifies nodes against the
// camera's view volume.
package local

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/NunexHost/sodium-fabric-s/graph/direction"
)

// Level is the depth of a node in the section octree. Level 0 is a single section and every level above
// doubles the edge length, so a level 3 node spans 8x8x8 sections.
type Level uint8

// The octree levels, finest first.
const (
	Level0 Level = iota
	Level1
	Level2
	Level3
)

// MaxLevel is the coarsest octree level.
const MaxLevel = Level3

// SectionsInGraph is the number of addressable sections, one per 8-bit coordinate triple.
const SectionsInGraph = 256 * 256 * 256

const (
	offsetBits = 24
	offsetMask = 1<<offsetBits - 1
	mortonBits = 9
)

// EdgeLength returns the number of sections along one edge of a node at this level.
func (l Level) EdgeLength() int {
	return 1 << l
}

// SectionCount returns the number of sections covered by a node at this level.
func (l Level) SectionCount() uint32 {
	return 1 << (3 * uint32(l))
}

func (l Level) valid() bool {
	return l <= MaxLevel
}

// SectionCoord is a section position in the 256³ local grid.
type SectionCoord struct {
	X, Y, Z uint8
}

// Add offsets the coordinate, wrapping each component to 8 bits.
func (c SectionCoord) Add(dx, dy, dz int) SectionCoord {
	return SectionCoord{
		X: uint8(int(c.X) + dx),
		Y: uint8(int(c.Y) + dy),
		Z: uint8(int(c.Z) + dz),
	}
}

// Step moves one section in the given direction with 8-bit wraparound.
func (c SectionCoord) Step(dir direction.Direction) SectionCoord {
	switch dir {
	case direction.NegX:
		c.X--
	case direction.NegY:
		c.Y--
	case direction.NegZ:
		c.Z--
	case direction.PosX:
		c.X++
	case direction.PosY:
		c.Y++
	case direction.PosZ:
		c.Z++
	}
	return c
}

func (c SectionCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// spread3 maps a 3-bit value to bits 0, 3 and 6.
var spread3 = [8]uint32{0b000000000, 0b000000001, 0b000001000, 0b000001001,
	0b001000000, 0b001000001, 0b001001000, 0b001001001}

// NodeIndex addresses a node of the section octree. The low 24 bits are the array offset of the
// node's first section; bits 24 and 25 hold the level.
//
// The offset puts the level 3 node coordinate (the top 5 bits of each axis) in bits 9-23 and a Morton
// interleave of the low 3 bits of each axis in bits 0-8. Every node therefore covers the contiguous
// offsets [ArrayOffset, ArrayOffset+SectionCount).
type NodeIndex uint32

// Pack returns the index of the level node that contains coord.
func Pack(coord SectionCoord, level Level) NodeIndex {
	if !level.valid() {
		panic(errors.Errorf("invalid node level: %d", level))
	}
	x, y, z := uint32(coord.X), uint32(coord.Y), uint32(coord.Z)
	high := (x>>3)<<10 | (y>>3)<<5 | z>>3
	low := spread3[x&7]<<2 | spread3[y&7]<<1 | spread3[z&7]
	offset := high<<mortonBits | low
	// Clearing the low 3*level bits snaps to the node's first section.
	offset &^= level.SectionCount() - 1
	return NodeIndex(uint32(level)<<offsetBits | offset)
}

// PackSection returns the level 0 index of coord.
func PackSection(coord SectionCoord) NodeIndex {
	return Pack(coord, Level0)
}

// Level returns the octree level of the node.
func (i NodeIndex) Level() Level {
	return Level(uint32(i) >> offsetBits)
}

// ArrayOffset returns the position of the node's first section in a per-section array. It is always
// below SectionsInGraph.
func (i NodeIndex) ArrayOffset() uint32 {
	return uint32(i) & offsetMask
}

// Unpack returns the coordinate of the node's first (minimum) section.
func (i NodeIndex) Unpack() SectionCoord {
	offset := i.ArrayOffset()
	high := offset >> mortonBits
	var x, y, z uint32
	for b := uint32(0); b < 3; b++ {
		x |= (offset >> (3*b + 2) & 1) << b
		y |= (offset >> (3*b + 1) & 1) << b
		z |= (offset >> (3 * b) & 1) << b
	}
	x |= (high >> 10 & 31) << 3
	y |= (high >> 5 & 31) << 3
	z |= (high & 31) << 3
	return SectionCoord{X: uint8(x), Y: uint8(y), Z: uint8(z)}
}

// LowerNodes returns the eight child nodes one level below. Asking a section for its children is a
// caller bug and panics.
func (i NodeIndex) LowerNodes() [8]NodeIndex {
	level := i.Level()
	if level == Level0 || !level.valid() {
		panic(errors.Errorf("invalid node level for descent: %d", level))
	}
	child := level - 1
	step := child.SectionCount()
	base := i.ArrayOffset()
	var out [8]NodeIndex
	for k := uint32(0); k < 8; k++ {
		out[k] = NodeIndex(uint32(child)<<offsetBits | (base + k*step))
	}
	return out
}

// IncX returns the next node along x at the same level, wrapping around the grid.
func (i NodeIndex) IncX() NodeIndex {
	return Pack(i.Unpack().Add(i.Level().EdgeLength(), 0, 0), i.Level())
}

// IncY returns the next node along y at the same level, wrapping around the grid.
func (i NodeIndex) IncY() NodeIndex {
	return Pack(i.Unpack().Add(0, i.Level().EdgeLength(), 0), i.Level())
}

// IncZ returns the next node along z at the same level, wrapping around the grid.
func (i NodeIndex) IncZ() NodeIndex {
	return Pack(i.Unpack().Add(0, 0, i.Level().EdgeLength()), i.Level())
}

// Neighbors holds the six adjacent sections of a section, indexed by direction.
type Neighbors [direction.Count]NodeIndex

// Get returns the neighbor in the given direction.
func (n Neighbors) Get(dir direction.Direction) NodeIndex {
	return n[dir]
}

// AllNeighbors returns the adjacent sections of a level 0 index. Coordinates wrap at the edges of the
// local grid; the coordinate context never lets a traversal walk far enough for a wrapped neighbor to
// alias an in-range section.
func (i NodeIndex) AllNeighbors() Neighbors {
	coord := i.Unpack()
	var out Neighbors
	for _, dir := range direction.Ordered {
		out[dir] = PackSection(coord.Step(dir))
	}
	return out
}

func (i NodeIndex) String() string {
	return fmt.Sprintf("node(level=%d, first=%v)", i.Level(), i.Unpack())
}

func (l Level) String() string {
	return fmt.Sprintf("level%d", uint8(l))
}
