// Package direction contains the six axis directions a section can be entered or exited through and a
// compact set type over them.
package direction

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Direction is one of the six faces of a section.
type Direction uint8

// The ordering is canonical: iteration, packing and the opposite mapping all depend on it.
const (
	NegX Direction = iota
	NegY
	NegZ
	PosX
	PosY
	PosZ
)

// Count is the number of directions.
const Count = 6

// Ordered lists every direction in canonical order.
var Ordered = [Count]Direction{NegX, NegY, NegZ, PosX, PosY, PosZ}

var names = [Count]string{"-x", "-y", "-z", "+x", "+y", "+z"}

// FromInt converts an integer in [0, 5] to a Direction. Any other value is a caller bug and panics.
func FromInt(val uint8) Direction {
	if val >= Count {
		panic(errors.Errorf("invalid direction %d", val))
	}
	return Direction(val)
}

// Opposite returns the direction pointing the other way along the same axis.
func (d Direction) Opposite() Direction {
	if d < PosX {
		return d + 3
	}
	return d - 3
}

// Axis returns 0, 1 or 2 for the x, y and z axis.
func (d Direction) Axis() int {
	return int(d) % 3
}

// Positive reports whether the direction points along the positive axis.
func (d Direction) Positive() bool {
	return d >= PosX
}

func (d Direction) String() string {
	if d >= Count {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return names[d]
}

// Set is a bitset over the six directions. Bit i is set when Direction(i) is a member.
type Set uint8

const allBits Set = 1<<Count - 1

// None returns the empty set.
func None() Set {
	return 0
}

// All returns the set of all six directions.
func All() Set {
	return allBits
}

// Single returns the set containing only dir.
func Single(dir Direction) Set {
	return 1 << dir
}

// SetOf builds a set from the given directions.
func SetOf(dirs ...Direction) Set {
	var s Set
	for _, d := range dirs {
		s.Add(d)
	}
	return s
}

// Add inserts dir into the set.
func (s *Set) Add(dir Direction) {
	*s |= 1 << dir
}

// AddAll inserts every member of other into the set.
func (s *Set) AddAll(other Set) {
	*s |= other
}

// Contains reports whether dir is a member.
func (s Set) Contains(dir Direction) bool {
	return s&(1<<dir) != 0
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return s == 0
}

// And returns the intersection of both sets.
func (s Set) And(other Set) Set {
	return s & other
}

// Or returns the union of both sets.
func (s Set) Or(other Set) Set {
	return s | other
}

// Len returns the number of members.
func (s Set) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Iter returns an iterator over the members in ascending order.
func (s Set) Iter() Iterator {
	return Iterator{remaining: s}
}

// Directions yields the members in ascending order.
func (s Set) Directions() iter.Seq[Direction] {
	return func(yield func(Direction) bool) {
		it := s.Iter()
		for d, ok := it.Next(); ok; d, ok = it.Next() {
			if !yield(d) {
				return
			}
		}
	}
}

func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for d := range s.Directions() {
		if sb.Len() > 1 {
			sb.WriteByte(',')
		}
		sb.WriteString(d.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Iterator walks the members of a Set once. It cannot be restarted; take a new one from Set.Iter.
type Iterator struct {
	remaining Set
}

// Next returns the lowest remaining member and removes it. The second result is false once the
// iterator is exhausted.
func (it *Iterator) Next() (Direction, bool) {
	// https://lemire.me/blog/2018/02/21/iterating-over-set-bits-quickly/
	if it.remaining == 0 {
		return 0, false
	}
	d := Direction(bits.TrailingZeros8(uint8(it.remaining)))
	it.remaining &= it.remaining - 1
	return d, true
}
