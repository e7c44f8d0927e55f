// Package cli contains the cullsim command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig = "config"
	generalFlagDebug  = "debug"

	queueSizeFlagFrustum       = "frustum"
	queueSizeFlagViewDistances = "view-distances"
	queueSizeFlagWorldHeights  = "world-heights"

	simulateFlagFrames = "frames"
	simulateFlagSeed   = "seed"
)

// NewApp returns the cullsim application writing to out and errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "cullsim",
		Usage:           "inspect and exercise the section visibility graph",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "queue-size",
				Usage: "print the traversal queue capacity for view distances and world heights",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  queueSizeFlagFrustum,
						Usage: "halve the capacity for traversals restricted to the frustum",
					},
					&cli.IntSliceFlag{
						Name:  queueSizeFlagViewDistances,
						Usage: "view distances in sections",
						Value: cli.NewIntSlice(2, 8, 12, 16, 32, 64, 127),
					},
					&cli.IntSliceFlag{
						Name:  queueSizeFlagWorldHeights,
						Usage: "world heights in sections",
						Value: cli.NewIntSlice(16, 24, 64, 254),
					},
				},
				Action: QueueSizeAction,
			},
			{
				Name:  "simulate",
				Usage: "cull a generated world from a series of camera positions and print statistics",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  simulateFlagFrames,
						Usage: "number of camera positions",
						Value: 16,
					},
					&cli.Int64Flag{
						Name:  simulateFlagSeed,
						Usage: "seed for the generated world",
						Value: 1,
					},
				},
				Action: SimulateAction,
			},
		},
	}
}
