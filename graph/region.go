package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/NunexHost/sodium-fabric-s/graph/local"
)

// Regions are 8 sections wide, 4 tall and 8 deep.
const (
	regionWidthShift  = 3
	regionHeightShift = 2
	regionLengthShift = 3

	// SectionsInRegion is the number of sections in one region.
	SectionsInRegion = 1 << (regionWidthShift + regionHeightShift + regionLengthShift)
)

// RegionCoord is the world coordinate of a region.
type RegionCoord struct {
	X, Y, Z int32
}

// RegionOf returns the region containing the world section (x, y, z).
func RegionOf(x, y, z int32) RegionCoord {
	return RegionCoord{X: x >> regionWidthShift, Y: y >> regionHeightShift, Z: z >> regionLengthShift}
}

// Compare orders regions by x, then y, then z.
func (r RegionCoord) Compare(other RegionCoord) int {
	if c := cmp.Compare(r.X, other.X); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Y, other.Y); c != 0 {
		return c
	}
	return cmp.Compare(r.Z, other.Z)
}

func (r RegionCoord) String() string {
	return fmt.Sprintf("region(%d, %d, %d)", r.X, r.Y, r.Z)
}

// RegionSectionIndex is the position of a section inside its region.
type RegionSectionIndex uint8

// NewRegionSectionIndex returns the position of the world section (x, y, z) inside its region.
func NewRegionSectionIndex(x, y, z int32) RegionSectionIndex {
	return RegionSectionIndex(
		(x&7)<<(regionHeightShift+regionLengthShift) |
			(y&3)<<regionLengthShift |
			z&7,
	)
}

// RegionDrawBatch is the set of visible sections of one region, ready to be drawn together.
type RegionDrawBatch struct {
	Region RegionCoord

	sections [SectionsInRegion]RegionSectionIndex
	count    int
}

// Sections returns the batch's section indices in ascending order.
func (b *RegionDrawBatch) Sections() []RegionSectionIndex {
	return b.sections[:b.count]
}

// Len returns the number of sections in the batch.
func (b *RegionDrawBatch) Len() int {
	return b.count
}

type regionEntry struct {
	region RegionCoord
	index  RegionSectionIndex
}

// DivideGraphIntoRegions groups the sections the last cull marked visible by region. ctx must be the
// context that cull ran with. Batches are ordered by region and regions without visible sections are
// left out.
func (g *Graph) DivideGraphIntoRegions(ctx *local.CoordContext) []RegionDrawBatch {
	var entries []regionEntry
	for coord := range g.VisibleSections() {
		x, y, z := ctx.WorldSection(coord)
		entries = append(entries, regionEntry{region: RegionOf(x, y, z), index: NewRegionSectionIndex(x, y, z)})
	}

	grouped := lo.GroupBy(entries, func(e regionEntry) RegionCoord { return e.region })
	regions := lo.Keys(grouped)
	slices.SortFunc(regions, RegionCoord.Compare)

	batches := make([]RegionDrawBatch, len(regions))
	for i, region := range regions {
		indices := lo.Map(grouped[region], func(e regionEntry, _ int) RegionSectionIndex { return e.index })
		slices.Sort(indices)

		batches[i].Region = region
		batches[i].count = copy(batches[i].sections[:], indices)
	}
	return batches
}
