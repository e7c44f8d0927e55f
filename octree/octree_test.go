package octree

import (
	"slices"
	"testing"

	"go.viam.com/test"

	"github.com/NunexHost/sodium-fabric-s/graph/local"
)

func TestSetAndGet(t *testing.T) {
	o := New()
	coord := local.SectionCoord{X: 13, Y: 200, Z: 7}
	section := local.PackSection(coord)

	test.That(t, o.Get(section), test.ShouldBeFalse)
	o.Set(section, true)
	test.That(t, o.Get(section), test.ShouldBeTrue)
	test.That(t, o.Count(), test.ShouldEqual, 1)

	for level := local.Level1; level <= local.MaxLevel; level++ {
		test.That(t, o.Get(local.Pack(coord, level)), test.ShouldBeTrue)
	}
	test.That(t, o.Get(local.PackSection(coord.Add(1, 0, 0))), test.ShouldBeFalse)

	o.Set(section, false)
	test.That(t, o.Count(), test.ShouldEqual, 0)
	test.That(t, o.Get(local.Pack(coord, local.Level3)), test.ShouldBeFalse)
}

func TestSetWholeNodes(t *testing.T) {
	coord := local.SectionCoord{X: 40, Y: 16, Z: 250}
	for level := local.Level0; level <= local.MaxLevel; level++ {
		o := New()
		node := local.Pack(coord, level)
		o.Set(node, true)
		test.That(t, o.Count(), test.ShouldEqual, int(level.SectionCount()))

		// every section of the node is set, nothing else
		first := node.Unpack()
		edge := level.EdgeLength()
		for dx := 0; dx < edge; dx++ {
			for dy := 0; dy < edge; dy++ {
				for dz := 0; dz < edge; dz++ {
					test.That(t, o.Get(local.PackSection(first.Add(dx, dy, dz))), test.ShouldBeTrue)
				}
			}
		}
		test.That(t, o.Get(local.PackSection(first.Add(edge, 0, 0))), test.ShouldBeFalse)

		o.Set(node, false)
		test.That(t, o.Count(), test.ShouldEqual, 0)
	}
}

func TestCopyFrom(t *testing.T) {
	src := New()
	for _, c := range []local.SectionCoord{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 7, Y: 7, Z: 7},
		{X: 8, Y: 0, Z: 0},
		{X: 3, Y: 5, Z: 1},
	} {
		src.Set(local.PackSection(c), true)
	}
	// outside the level 3 node at the origin
	src.Set(local.PackSection(local.SectionCoord{X: 9, Y: 9, Z: 9}), true)

	t.Run("level 0", func(t *testing.T) {
		dst := New()
		dst.CopyFrom(src, local.PackSection(local.SectionCoord{X: 7, Y: 7, Z: 7}))
		dst.CopyFrom(src, local.PackSection(local.SectionCoord{X: 2, Y: 2, Z: 2}))
		test.That(t, dst.Count(), test.ShouldEqual, 1)
	})

	t.Run("level 1", func(t *testing.T) {
		dst := New()
		dst.Set(local.PackSection(local.SectionCoord{X: 1, Y: 1, Z: 1}), true)
		dst.CopyFrom(src, local.Pack(local.SectionCoord{}, local.Level1))
		// the previous content of the node is replaced
		test.That(t, dst.Get(local.PackSection(local.SectionCoord{X: 1, Y: 1, Z: 1})), test.ShouldBeFalse)
		test.That(t, dst.Count(), test.ShouldEqual, 2)
	})

	t.Run("level 3", func(t *testing.T) {
		dst := New()
		dst.CopyFrom(src, local.Pack(local.SectionCoord{}, local.Level3))
		test.That(t, dst.Count(), test.ShouldEqual, 4)
		test.That(t, dst.Get(local.PackSection(local.SectionCoord{X: 9, Y: 9, Z: 9})), test.ShouldBeFalse)
	})
}

func TestSectionsAndClear(t *testing.T) {
	o := New()
	coords := []local.SectionCoord{
		{X: 255, Y: 255, Z: 255},
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 3, Z: 64},
	}
	var want []local.NodeIndex
	for _, c := range coords {
		idx := local.PackSection(c)
		o.Set(idx, true)
		want = append(want, idx)
	}
	slices.Sort(want)

	got := slices.Collect(o.Sections())
	test.That(t, got, test.ShouldResemble, want)

	// early exit
	for s := range o.Sections() {
		test.That(t, s, test.ShouldEqual, want[0])
		break
	}

	o.Clear()
	test.That(t, o.Count(), test.ShouldEqual, 0)
	test.That(t, slices.Collect(o.Sections()), test.ShouldBeEmpty)
}
