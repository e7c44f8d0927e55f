// Package graph computes which sections of a voxel world a camera can see. A cull runs in two passes: an
// octree walk that keeps the sections with geometry inside the frustum and fog, and a breadth-first
// traversal from the camera that follows the face connectivity of each section.
package graph

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/NunexHost/sodium-fabric-s/graph/direction"
	"github.com/NunexHost/sodium-fabric-s/graph/local"
	"github.com/NunexHost/sodium-fabric-s/logging"
	"github.com/NunexHost/sodium-fabric-s/octree"
	"github.com/NunexHost/sodium-fabric-s/spatialmath"
)

// CullStats summarizes one call to Graph.Cull.
type CullStats struct {
	// Candidates is the number of sections with geometry that passed the frustum and fog tests.
	Candidates int
	// Rounds is the number of traversal rounds that visited at least one section.
	Rounds int
	// Reached is the number of sections the traversal visited.
	Reached int
	// MaxQueueLen is the longest a traversal queue got.
	MaxQueueLen int
	// Visible is the number of sections marked visible.
	Visible int
}

// Graph holds per-section state for the whole local grid and the scratch space for culling it. It is not
// safe for concurrent use.
type Graph struct {
	logger logging.Logger

	geometry  *octree.LinearBitOctree
	visible   *octree.LinearBitOctree
	inFrustum *octree.LinearBitOctree

	visibility []VisibilityData
	incoming   []direction.Set

	readQueue  *bfsQueue
	writeQueue *bfsQueue
}

// New allocates a graph able to hold every section of the local grid.
func New(logger logging.Logger) *Graph {
	return newGraph(logger, MaxBfsQueueSize)
}

func newGraph(logger logging.Logger, queueCapacity int) *Graph {
	g := &Graph{
		logger:     logger,
		geometry:   octree.New(),
		visible:    octree.New(),
		inFrustum:  octree.New(),
		visibility: make([]VisibilityData, local.SectionsInGraph),
		incoming:   make([]direction.Set, local.SectionsInGraph),
		readQueue:  newBfsQueue(queueCapacity),
		writeQueue: newBfsQueue(queueCapacity),
	}
	logger.Debugw("allocated section graph", "sections", local.SectionsInGraph, "queue_capacity", queueCapacity)
	return g
}

// AddSection records a section's geometry flag and connectivity, replacing anything stored for it.
func (g *Graph) AddSection(coord local.SectionCoord, hasGeometry bool, vis VisibilityData) {
	index := local.PackSection(coord)
	g.geometry.Set(index, hasGeometry)
	g.visibility[index.ArrayOffset()] = vis
}

// RemoveSection resets a section to its default state: no geometry and no connectivity.
func (g *Graph) RemoveSection(coord local.SectionCoord) {
	index := local.PackSection(coord)
	g.geometry.Set(index, false)
	g.visibility[index.ArrayOffset()] = 0
}

// HasGeometry reports whether the section was added with geometry.
func (g *Graph) HasGeometry(coord local.SectionCoord) bool {
	return g.geometry.Get(local.PackSection(coord))
}

// VisibilityDataAt returns the connectivity stored for the section.
func (g *Graph) VisibilityDataAt(coord local.SectionCoord) VisibilityData {
	return g.visibility[local.PackSection(coord).ArrayOffset()]
}

// IsVisible reports whether the last cull marked the section visible.
func (g *Graph) IsVisible(coord local.SectionCoord) bool {
	return g.visible.Get(local.PackSection(coord))
}

// VisibleCount returns the number of sections the last cull marked visible.
func (g *Graph) VisibleCount() int {
	return g.visible.Count()
}

// VisibleSections yields the sections the last cull marked visible, in index order.
func (g *Graph) VisibleSections() iter.Seq[local.SectionCoord] {
	return func(yield func(local.SectionCoord) bool) {
		for index := range g.visible.Sections() {
			if !yield(index.Unpack()) {
				return
			}
		}
	}
}

// Cull recomputes the visible sections for the camera described by ctx. With noOcclusionCull every
// section with geometry that passes the frustum and fog tests is visible; otherwise a section must also
// be reachable from the camera through connected faces.
func (g *Graph) Cull(ctx *local.CoordContext, noOcclusionCull bool) CullStats {
	g.visible.Clear()
	g.inFrustum.Clear()

	g.frustumAndFogCull(ctx)
	stats := CullStats{Candidates: g.inFrustum.Count()}

	if noOcclusionCull {
		g.visible, g.inFrustum = g.inFrustum, g.visible
	} else {
		g.bfsAndOcclusionCull(ctx, &stats)
	}
	stats.Visible = g.visible.Count()

	g.logger.Debugw("cull finished",
		"camera", ctx.CameraSectionIndex.Unpack(),
		"occlusion", !noOcclusionCull,
		"candidates", stats.Candidates,
		"rounds", stats.Rounds,
		"reached", stats.Reached,
		"max_queue_len", stats.MaxQueueLen,
		"visible", stats.Visible,
	)
	return stats
}

func (g *Graph) frustumAndFogCull(ctx *local.CoordContext) {
	iters := ctx.Level3NodeIters
	x := ctx.IterNodeOrigin
	for range iters[0] {
		y := x
		for range iters[1] {
			z := y
			for range iters[2] {
				g.checkNode(ctx, z)
				z = z.IncZ()
			}
			y = y.IncY()
		}
		x = x.IncX()
	}
}

func (g *Graph) checkNode(ctx *local.CoordContext, index local.NodeIndex) {
	level := index.Level()
	if level > local.MaxLevel {
		panic(errors.Errorf("invalid node level: %d", level))
	}

	switch ctx.TestNode(index) {
	case spatialmath.Outside:
	case spatialmath.Inside:
		g.inFrustum.CopyFrom(g.geometry, index)
	case spatialmath.Partial:
		if level == local.Level0 {
			g.inFrustum.CopyFrom(g.geometry, index)
			return
		}
		for _, child := range index.LowerNodes() {
			g.checkNode(ctx, child)
		}
	}
}

func (g *Graph) bfsAndOcclusionCull(ctx *local.CoordContext, stats *CullStats) {
	read, write := g.readQueue, g.writeQueue
	read.reset()
	write.reset()

	camera := ctx.CameraSectionIndex
	g.incoming[camera.ArrayOffset()] = direction.All()
	read.push(camera)
	stats.MaxQueueLen = read.len()

	for {
		popped := 0
		for {
			node, ok := read.pop()
			if !ok {
				break
			}
			popped++
			g.visit(ctx, node, write)
		}
		if popped == 0 {
			return
		}

		stats.Rounds++
		stats.Reached += popped
		stats.MaxQueueLen = max(stats.MaxQueueLen, write.len())
		read, write = write, read
	}
}

// visit marks node visible when it is a candidate and forwards its incoming faces to its neighbors.
// Sections outside the frustum are reached but forward nothing.
func (g *Graph) visit(ctx *local.CoordContext, node local.NodeIndex, next *bfsQueue) {
	if g.inFrustum.Get(node) {
		g.visible.Set(node, true)
	}

	offset := node.ArrayOffset()
	incoming := g.incoming[offset]
	g.incoming[offset] = direction.None()

	outgoing := ctx.ValidDirections(node.Unpack()).And(g.visibility[offset].OutgoingDirections(incoming))
	if outgoing.IsEmpty() {
		return
	}

	neighbors := node.AllNeighbors()
	for it := outgoing.Iter(); ; {
		dir, ok := it.Next()
		if !ok {
			break
		}
		neighbor := neighbors.Get(dir)
		slot := &g.incoming[neighbor.ArrayOffset()]
		if slot.IsEmpty() {
			next.push(neighbor)
		}
		slot.Add(dir.Opposite())
	}
}
