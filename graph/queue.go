package graph

import (
	"github.com/gammazero/deque"
	"github.com/pkg/errors"

	"github.com/NunexHost/sodium-fabric-s/graph/local"
)

// BfsQueueMaxSize returns how many sections one round of the occlusion traversal can enqueue for the
// given view distance and world height, both in sections. A round holds one taxicab shell around the
// camera section; the largest is the outermost shell, clipped vertically by the world with the camera
// at the height that leaves the most of it. When frustum is set, the result is halved (rounded up) for
// callers that only traverse sections inside a frustum that can see at most half the shell.
func BfsQueueMaxSize(viewDistance, worldHeight uint8, frustum bool) uint32 {
	w := uint32(viewDistance)
	h := uint32(worldHeight)

	var count uint32
	switch {
	case w == 0 || h == 0:
		count = 1
	default:
		count = 4*w + shellCap(w, h/2) + shellCap(w, (h-1)/2)
	}
	if frustum {
		count = (count + 1) / 2
	}
	return count
}

// shellCap counts the sections of a radius w taxicab shell on the layers 1 through layers above (or
// below) the camera.
func shellCap(w, layers uint32) uint32 {
	if layers >= w {
		return 2*w*(w-1) + 1
	}
	return 4*layers*w - 2*layers*(layers+1)
}

// MaxBfsQueueSize is the queue capacity for the largest supported view distance and world height.
var MaxBfsQueueSize = int(BfsQueueMaxSize(local.MaxViewDistance, local.MaxWorldHeight, false))

// bfsQueue is a FIFO of sections with a fixed capacity. Its storage is allocated up front and never
// grows; pushing past capacity panics.
type bfsQueue struct {
	items    deque.Deque[local.NodeIndex]
	capacity int
}

func newBfsQueue(capacity int) *bfsQueue {
	q := &bfsQueue{capacity: capacity}
	q.items.SetBaseCap(capacity)
	q.items.Grow(capacity)
	return q
}

func (q *bfsQueue) push(node local.NodeIndex) {
	if q.items.Len() >= q.capacity {
		panic(errors.Errorf("bfs queue overflow: capacity %d exceeded by %v", q.capacity, node))
	}
	q.items.PushBack(node)
}

func (q *bfsQueue) pop() (local.NodeIndex, bool) {
	if q.items.Len() == 0 {
		return 0, false
	}
	return q.items.PopFront(), true
}

func (q *bfsQueue) len() int {
	return q.items.Len()
}

func (q *bfsQueue) reset() {
	q.items.Clear()
}
