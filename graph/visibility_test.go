package graph

import (
	"testing"

	"go.viam.com/test"

	"github.com/NunexHost/sodium-fabric-s/graph/direction"
)

// lowerPairs lists the (from, to) face pairs of the packed triangle in bit order.
var lowerPairs = func() [][2]direction.Direction {
	var pairs [][2]direction.Direction
	for i := 1; i < direction.Count; i++ {
		for j := 0; j < i; j++ {
			pairs = append(pairs, [2]direction.Direction{direction.Direction(i), direction.Direction(j)})
		}
	}
	return pairs
}()

// rawFromPacked builds the unpacked matrix with the lower triangle bits of packed.
func rawFromPacked(packed uint16) uint64 {
	var raw uint64
	for k, pair := range lowerPairs {
		if packed>>k&1 != 0 {
			raw |= 1 << (uint(pair[0])*direction.Count + uint(pair[1]))
		}
	}
	return raw
}

// bruteForceOutgoing walks the symmetric matrix described by the lower triangle of raw.
func bruteForceOutgoing(raw uint64, incoming direction.Set) direction.Set {
	connected := func(a, b direction.Direction) bool {
		if a < b {
			a, b = b, a
		}
		return a != b && raw>>(uint(a)*direction.Count+uint(b))&1 != 0
	}
	var out direction.Set
	for _, from := range direction.Ordered {
		if !incoming.Contains(from) {
			continue
		}
		for _, to := range direction.Ordered {
			if connected(from, to) {
				out.Add(to)
			}
		}
	}
	return out
}

func TestPackVisibilityData(t *testing.T) {
	test.That(t, len(lowerPairs), test.ShouldEqual, 15)

	for packed := 0; packed < 1<<visibilityBits; packed++ {
		raw := rawFromPacked(uint16(packed))
		test.That(t, PackVisibilityData(raw), test.ShouldEqual, VisibilityData(packed))
	}

	t.Run("upper triangle and diagonal are ignored", func(t *testing.T) {
		var raw uint64
		for i := 0; i < direction.Count; i++ {
			for j := i; j < direction.Count; j++ {
				raw |= 1 << (i*direction.Count + j)
			}
		}
		test.That(t, PackVisibilityData(raw), test.ShouldEqual, VisibilityData(0))
		test.That(t, PackVisibilityData(^uint64(0)), test.ShouldEqual, AllPassVisibility)
	})
}

func TestConnected(t *testing.T) {
	vis := PackVisibilityData(1 << (uint(direction.PosZ)*direction.Count + uint(direction.NegX)))
	test.That(t, vis.Connected(direction.PosZ, direction.NegX), test.ShouldBeTrue)
	test.That(t, vis.Connected(direction.NegX, direction.PosZ), test.ShouldBeTrue)
	test.That(t, vis.Connected(direction.NegX, direction.PosX), test.ShouldBeFalse)
	test.That(t, vis.String(), test.ShouldEqual, "-x:{+z} -y:{} -z:{} +x:{} +y:{} +z:{-x}")

	for _, a := range direction.Ordered {
		for _, b := range direction.Ordered {
			test.That(t, AllPassVisibility.Connected(a, b), test.ShouldEqual, a != b)
		}
	}
}

func TestOutgoingDirectionsMatchesBruteForce(t *testing.T) {
	for packed := 0; packed < 1<<visibilityBits; packed++ {
		raw := rawFromPacked(uint16(packed))
		vis := VisibilityData(packed)
		for incoming := direction.Set(0); incoming < direction.All()+1; incoming++ {
			got := vis.OutgoingDirections(incoming)
			want := bruteForceOutgoing(raw, incoming)
			if got != want {
				t.Fatalf("vis %015b incoming %v: got %v want %v", packed, incoming, got, want)
			}
		}
	}
}

func TestOutgoingDirectionsMonotone(t *testing.T) {
	for packed := 0; packed < 1<<visibilityBits; packed++ {
		vis := VisibilityData(packed)
		for a := direction.Set(0); a <= direction.All(); a++ {
			outA := vis.OutgoingDirections(a)
			for _, d := range direction.Ordered {
				b := a.Or(direction.Single(d))
				if outB := vis.OutgoingDirections(b); outA.And(outB) != outA {
					t.Fatalf("vis %015b: outgoing(%v)=%v is not a subset of outgoing(%v)=%v", packed, a, outA, b, outB)
				}
			}
		}
	}
}

func TestOutgoingDirectionsExamples(t *testing.T) {
	test.That(t, VisibilityData(0).OutgoingDirections(direction.All()), test.ShouldEqual, direction.None())
	test.That(t, AllPassVisibility.OutgoingDirections(direction.None()), test.ShouldEqual, direction.None())
	test.That(t, AllPassVisibility.OutgoingDirections(direction.Single(direction.NegY)), test.ShouldEqual,
		direction.SetOf(direction.NegX, direction.NegZ, direction.PosX, direction.PosY, direction.PosZ))
	test.That(t, AllPassVisibility.OutgoingDirections(direction.SetOf(direction.NegY, direction.PosY)), test.ShouldEqual,
		direction.All())

	// the reserved bit has no effect
	vis := PackVisibilityData(1 << (uint(direction.PosY)*direction.Count + uint(direction.NegY)))
	test.That(t, (vis | 1<<15).OutgoingDirections(direction.Single(direction.NegY)), test.ShouldEqual,
		direction.Single(direction.PosY))
}
