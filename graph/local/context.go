package local

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/NunexHost/sodium-fabric-s/graph/direction"
	"github.com/NunexHost/sodium-fabric-s/spatialmath"
)

// SectionSize is the edge length of a section in blocks.
const SectionSize = 16

// MaxViewDistance is the largest supported view distance in sections. Keeping it below 128 means every
// section in range has a distinct local x and z coordinate.
const MaxViewDistance = 127

// MaxWorldHeight is the largest supported world height in sections.
const MaxWorldHeight = 254

const (
	level3Span   = 8
	maxNodeIters = 256 / level3Span
)

// Frustum classifies world-space boxes, in blocks, against the camera's view volume.
type Frustum interface {
	TestBox(box spatialmath.AABB) spatialmath.BoundsCheckResult
}

// CoordContext describes one camera placement for a cull: where the camera is, what it can see, and
// which part of the local grid the octree walk has to cover. It is built once per cull and borrowed by
// the graph for the duration of that call.
type CoordContext struct {
	frustum Frustum
	fog     spatialmath.CylindricalFog

	viewDistance int32
	worldMinY    int32
	worldHeight  int32

	// camera section in world coordinates, y clamped into the world
	cameraWorld [3]int32
	cameraLocal SectionCoord

	// CameraSectionIndex is the level 0 index the occlusion traversal starts from.
	CameraSectionIndex NodeIndex
	// IterNodeOrigin is the first level 3 node of the frustum walk.
	IterNodeOrigin NodeIndex
	// Level3NodeIters is the number of level 3 nodes the frustum walk visits along x, y and z.
	Level3NodeIters [3]uint8
}

// NewCoordContext builds the context for a camera at cameraPos, given in blocks. The world spans
// worldHeight sections starting at section y worldMinSectionY.
func NewCoordContext(
	frustum Frustum,
	cameraPos r3.Vector,
	viewDistance uint8,
	worldMinSectionY int32,
	worldHeight uint8,
) (*CoordContext, error) {
	if frustum == nil {
		return nil, errors.New("coordinate context requires a frustum")
	}
	if viewDistance > MaxViewDistance {
		return nil, errors.Errorf("view distance %d exceeds maximum of %d", viewDistance, MaxViewDistance)
	}
	if worldHeight == 0 || worldHeight > MaxWorldHeight {
		return nil, errors.Errorf("world height %d must be within [1, %d]", worldHeight, MaxWorldHeight)
	}

	ctx := &CoordContext{
		frustum:      frustum,
		fog:          spatialmath.CylindricalFog{Center: cameraPos, Radius: float64(viewDistance) * SectionSize},
		viewDistance: int32(viewDistance),
		worldMinY:    worldMinSectionY,
		worldHeight:  int32(worldHeight),
	}

	camX := blockToSection(cameraPos.X)
	camY := blockToSection(cameraPos.Y)
	camZ := blockToSection(cameraPos.Z)
	// A camera above or below the world starts its traversal from the nearest layer inside it.
	camY = max(worldMinSectionY, min(camY, worldMinSectionY+int32(worldHeight)-1))

	ctx.cameraWorld = [3]int32{camX, camY, camZ}
	ctx.cameraLocal = SectionCoord{X: uint8(camX), Y: uint8(camY), Z: uint8(camZ)}
	ctx.CameraSectionIndex = PackSection(ctx.cameraLocal)

	vd := int32(viewDistance)
	firstX, itersX := nodeRange(camX-vd, camX+vd)
	firstY, itersY := nodeRange(worldMinSectionY, worldMinSectionY+int32(worldHeight)-1)
	firstZ, itersZ := nodeRange(camZ-vd, camZ+vd)
	ctx.IterNodeOrigin = Pack(SectionCoord{X: uint8(firstX), Y: uint8(firstY), Z: uint8(firstZ)}, Level3)
	ctx.Level3NodeIters = [3]uint8{itersX, itersY, itersZ}

	return ctx, nil
}

func blockToSection(v float64) int32 {
	return int32(math.Floor(v / SectionSize))
}

// nodeRange returns the first section of the level 3 node containing lo and the number of level 3 nodes
// needed to reach hi, capped at the number of distinct nodes along an axis.
func nodeRange(lo, hi int32) (int32, uint8) {
	first := floorDiv(lo, level3Span)
	last := floorDiv(hi, level3Span)
	count := last - first + 1
	if count > maxNodeIters {
		count = maxNodeIters
	}
	return first * level3Span, uint8(count)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ViewDistance returns the view distance in sections.
func (c *CoordContext) ViewDistance() uint8 {
	return uint8(c.viewDistance)
}

// WorldHeight returns the world height in sections.
func (c *CoordContext) WorldHeight() uint8 {
	return uint8(c.worldHeight)
}

// CameraSection returns the camera's section in world coordinates, with y clamped into the world.
func (c *CoordContext) CameraSection() (x, y, z int32) {
	return c.cameraWorld[0], c.cameraWorld[1], c.cameraWorld[2]
}

// offsets returns the world-space offset of a local coordinate from the camera section. x and z unwrap
// around the camera; y unwraps from the world floor, and inWorld reports whether y lies in the world.
func (c *CoordContext) offsets(coord SectionCoord) (dx, dy, dz int32, inWorld bool) {
	dx = int32(int8(coord.X - c.cameraLocal.X))
	dz = int32(int8(coord.Z - c.cameraLocal.Z))
	fromFloor := int32(coord.Y - uint8(c.worldMinY))
	dy = c.worldMinY + fromFloor - c.cameraWorld[1]
	return dx, dy, dz, fromFloor < c.worldHeight
}

// WorldSection converts a local coordinate to world section coordinates. The result is only meaningful
// for sections within the view distance of the camera and inside the world.
func (c *CoordContext) WorldSection(coord SectionCoord) (x, y, z int32) {
	dx, dy, dz, _ := c.offsets(coord)
	return c.cameraWorld[0] + dx, c.cameraWorld[1] + dy, c.cameraWorld[2] + dz
}

// TestNode classifies the sections under index against the world's vertical extent, the fog distance
// and the frustum.
func (c *CoordContext) TestNode(index NodeIndex) spatialmath.BoundsCheckResult {
	level := index.Level()
	span := int32(level.EdgeLength())
	first := index.Unpack()

	dx, dy, dz, _ := c.offsets(first)
	fromFloor := int32(first.Y - uint8(c.worldMinY))

	// A node crossing the seam of the local grid does not map to one contiguous world box.
	if dx+span-1 > math.MaxInt8 || dz+span-1 > math.MaxInt8 || fromFloor+span > 256 {
		return spatialmath.Partial
	}

	switch {
	case dx > c.viewDistance || dx+span-1 < -c.viewDistance,
		dz > c.viewDistance || dz+span-1 < -c.viewDistance:
		return spatialmath.Outside
	case fromFloor >= c.worldHeight:
		return spatialmath.Outside
	case fromFloor+span > c.worldHeight:
		if level == Level0 {
			return spatialmath.Outside
		}
		return spatialmath.Partial
	}

	minX := float64(c.cameraWorld[0]+dx) * SectionSize
	minY := float64(c.cameraWorld[1]+dy) * SectionSize
	minZ := float64(c.cameraWorld[2]+dz) * SectionSize
	size := float64(span) * SectionSize
	box := spatialmath.AABB{
		Min: r3.Vector{X: minX, Y: minY, Z: minZ},
		Max: r3.Vector{X: minX + size, Y: minY + size, Z: minZ + size},
	}

	fogResult := c.fog.TestBox(box)
	if fogResult == spatialmath.Outside {
		return spatialmath.Outside
	}
	return fogResult.Intersect(c.frustum.TestBox(box))
}

// TestSection classifies a single section, see TestNode.
func (c *CoordContext) TestSection(coord SectionCoord) spatialmath.BoundsCheckResult {
	return c.TestNode(PackSection(coord))
}

// TaxicabDistance returns the sum of the per-axis section offsets between coord and the camera.
func (c *CoordContext) TaxicabDistance(coord SectionCoord) int32 {
	dx, dy, dz, _ := c.offsets(coord)
	return abs32(dx) + abs32(dy) + abs32(dz)
}

// ValidDirections returns the directions the occlusion traversal may leave coord through. Nothing
// leaves a section outside the frustum or fog. Otherwise only directions that move away from the camera
// on their axis are allowed (both ways when the section is level with the camera), the traversal never
// leaves the world vertically, and it stops once the taxicab distance from the camera reaches the view
// distance. Each traversal round therefore covers exactly one taxicab shell around the camera.
func (c *CoordContext) ValidDirections(coord SectionCoord) direction.Set {
	dx, dy, dz, inWorld := c.offsets(coord)
	if !inWorld || abs32(dx)+abs32(dy)+abs32(dz) >= c.viewDistance {
		return direction.None()
	}
	if c.TestSection(coord) == spatialmath.Outside {
		return direction.None()
	}

	var dirs direction.Set
	if dx <= 0 {
		dirs.Add(direction.NegX)
	}
	if dx >= 0 {
		dirs.Add(direction.PosX)
	}
	if dz <= 0 {
		dirs.Add(direction.NegZ)
	}
	if dz >= 0 {
		dirs.Add(direction.PosZ)
	}

	y := c.cameraWorld[1] + dy
	if dy <= 0 && y > c.worldMinY {
		dirs.Add(direction.NegY)
	}
	if dy >= 0 && y < c.worldMinY+c.worldHeight-1 {
		dirs.Add(direction.PosY)
	}
	return dirs
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
