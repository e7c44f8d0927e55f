package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/NunexHost/sodium-fabric-s/graph"
	"github.com/NunexHost/sodium-fabric-s/graph/local"
)

// QueueSizeAction prints BfsQueueMaxSize for every requested view distance and world height.
func QueueSizeAction(c *cli.Context) error {
	_, _, logger, err := setup(c)
	if err != nil {
		return err
	}

	viewDistances := c.IntSlice(queueSizeFlagViewDistances)
	worldHeights := c.IntSlice(queueSizeFlagWorldHeights)
	frustum := c.Bool(queueSizeFlagFrustum)

	if bad := lo.Filter(viewDistances, func(w, _ int) bool { return w < 0 || w > local.MaxViewDistance }); len(bad) > 0 {
		return errors.Errorf("view distances %v must be within [0, %d]", bad, local.MaxViewDistance)
	}
	if bad := lo.Filter(worldHeights, func(h, _ int) bool { return h < 1 || h > local.MaxWorldHeight }); len(bad) > 0 {
		return errors.Errorf("world heights %v must be within [1, %d]", bad, local.MaxWorldHeight)
	}
	logger.Debugw("computing queue sizes", "view_distances", viewDistances, "world_heights", worldHeights, "frustum", frustum)

	printf(c.App.Writer, "%s", queueSizeTable(viewDistances, worldHeights, frustum))
	if frustum {
		warningf(c.App.Writer, "frustum sizes assume the traversal never leaves the frustum; the engine sizes its queues without it")
	}
	return nil
}

func queueSizeTable(viewDistances, worldHeights []int, frustum bool) string {
	t := table.NewWriter()
	header := table.Row{"view distance"}
	for _, h := range worldHeights {
		header = append(header, fmt.Sprintf("height %d", h))
	}
	t.AppendHeader(header)

	for _, w := range viewDistances {
		row := table.Row{strconv.Itoa(w)}
		for _, h := range worldHeights {
			row = append(row, graph.BfsQueueMaxSize(uint8(w), uint8(h), frustum))
		}
		t.AppendRow(row)
	}
	return t.Render()
}
