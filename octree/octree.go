// Package octree implements a linear bit octree: one bit per section of the local graph, laid out so
// that every node of the section octree covers a contiguous run of bits.
package octree

import (
	"iter"
	"math/bits"

	"github.com/NunexHost/sodium-fabric-s/graph/local"
)

const (
	wordBits  = 64
	wordCount = local.SectionsInGraph / wordBits
)

// LinearBitOctree stores a single flag for every section addressable by a local.NodeIndex. Level 1 nodes
// map to a byte, level 2 nodes to a word and level 3 nodes to eight consecutive words.
type LinearBitOctree struct {
	words []uint64
}

// New returns an octree with every bit cleared.
func New() *LinearBitOctree {
	return &LinearBitOctree{words: make([]uint64, wordCount)}
}

// Get reports whether any section under index is set.
func (o *LinearBitOctree) Get(index local.NodeIndex) bool {
	off := index.ArrayOffset()
	switch index.Level() {
	case local.Level0:
		return o.words[off/wordBits]&(1<<(off%wordBits)) != 0
	case local.Level1:
		return o.words[off/wordBits]&(0xff<<(off%wordBits)) != 0
	default:
		for _, w := range o.nodeWords(index) {
			if w != 0 {
				return true
			}
		}
		return false
	}
}

// Set sets or clears every section under index.
func (o *LinearBitOctree) Set(index local.NodeIndex, value bool) {
	off := index.ArrayOffset()
	var mask uint64
	switch index.Level() {
	case local.Level0:
		mask = 1 << (off % wordBits)
	case local.Level1:
		mask = 0xff << (off % wordBits)
	default:
		fill := uint64(0)
		if value {
			fill = ^uint64(0)
		}
		words := o.nodeWords(index)
		for i := range words {
			words[i] = fill
		}
		return
	}
	if value {
		o.words[off/wordBits] |= mask
	} else {
		o.words[off/wordBits] &^= mask
	}
}

// CopyFrom replaces the sections under index with the corresponding sections of src.
func (o *LinearBitOctree) CopyFrom(src *LinearBitOctree, index local.NodeIndex) {
	off := index.ArrayOffset()
	switch index.Level() {
	case local.Level0, local.Level1:
		mask := uint64(1) << (off % wordBits)
		if index.Level() == local.Level1 {
			mask = 0xff << (off % wordBits)
		}
		w := off / wordBits
		o.words[w] = o.words[w]&^mask | src.words[w]&mask
	default:
		copy(o.nodeWords(index), src.nodeWords(index))
	}
}

func (o *LinearBitOctree) nodeWords(index local.NodeIndex) []uint64 {
	start := index.ArrayOffset() / wordBits
	end := start + index.Level().SectionCount()/wordBits
	return o.words[start:end]
}

// Clear resets every bit.
func (o *LinearBitOctree) Clear() {
	clear(o.words)
}

// Count returns the number of set sections.
func (o *LinearBitOctree) Count() int {
	n := 0
	for _, w := range o.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Sections yields the level 0 index of every set section in ascending offset order.
func (o *LinearBitOctree) Sections() iter.Seq[local.NodeIndex] {
	return func(yield func(local.NodeIndex) bool) {
		for i, w := range o.words {
			for w != 0 {
				b := bits.TrailingZeros64(w)
				w &= w - 1
				if !yield(local.NodeIndex(uint32(i)*wordBits + uint32(b))) {
					return
				}
			}
		}
	}
}
