package cli

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/NunexHost/sodium-fabric-s/config"
	"github.com/NunexHost/sodium-fabric-s/graph"
	"github.com/NunexHost/sodium-fabric-s/graph/local"
	"github.com/NunexHost/sodium-fabric-s/logging"
)

// SimulateAction generates a world, culls it from a circle of camera positions and prints the results.
func SimulateAction(c *cli.Context) error {
	ctx, cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	frames := c.Int(simulateFlagFrames)
	if frames < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", simulateFlagFrames, frames)
	}

	sim := newSimulator(&cfg.Culling, c.Int64(simulateFlagSeed), clock.New(), logger)
	_, err = sim.run(ctx, c.App.Writer, frames)
	return err
}

// frameResult is what one simulated frame produced.
type frameResult struct {
	stats    graph.CullStats
	batches  int
	duration time.Duration
}

// simulationSummary aggregates the frames of a run.
type simulationSummary struct {
	frames []frameResult

	visibleMean, visibleStdDev   float64
	reachedMean, reachedStdDev   float64
	durationMean, durationStdDev float64
}

type simulator struct {
	cfg    *config.CullingConfig
	seed   int64
	clock  clock.Clock
	logger logging.Logger

	graph   *graph.Graph
	surface map[[2]int32]int32
}

func newSimulator(cfg *config.CullingConfig, seed int64, clk clock.Clock, logger logging.Logger) *simulator {
	return &simulator{
		cfg:     cfg,
		seed:    seed,
		clock:   clk,
		logger:  logger,
		surface: map[[2]int32]int32{},
	}
}

// generate fills the graph with terrain around the origin: solid rock with occasional caves, a
// surface layer with geometry and random face connectivity, and open air above it.
func (s *simulator) generate() {
	src := rand.NewPCG(uint64(s.seed), uint64(s.seed)^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	noise := distuv.Normal{Mu: 0, Sigma: 0.75, Src: src}

	s.graph = graph.New(s.logger.Sublogger("graph"))

	radius := int32(s.cfg.ViewDistance)
	minY := int32(s.cfg.WorldMinSectionY)
	maxY := minY + int32(s.cfg.WorldHeight) - 1
	base := float64(minY) + float64(s.cfg.WorldHeight)/3

	var solid, surface, air int
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			height := base + 2*math.Sin(float64(x)/7) + 1.5*math.Cos(float64(z)/5) + noise.Rand()
			top := max(minY, min(maxY, int32(math.Round(height))))
			s.surface[[2]int32{x, z}] = top

			for y := minY; y <= maxY; y++ {
				coord := local.SectionCoord{X: uint8(x), Y: uint8(y), Z: uint8(z)}
				switch {
				case y > top:
					s.graph.AddSection(coord, false, graph.AllPassVisibility)
					air++
				case y >= top-1:
					s.graph.AddSection(coord, true, graph.PackVisibilityData(rng.Uint64()))
					surface++
				case rng.IntN(20) == 0:
					// cave
					s.graph.AddSection(coord, false, graph.AllPassVisibility)
					air++
				default:
					solid++
				}
			}
		}
	}
	s.logger.Infow("generated world", "seed", s.seed, "surface", surface, "air", air, "solid", solid)
}

// cameraPose returns the eye and look target of frame i: the camera circles the origin a few sections
// above the terrain, looking along the circle.
func (s *simulator) cameraPose(i, frames int) (eye, target r3.Vector) {
	angle := 2 * math.Pi * float64(i) / float64(frames)
	orbit := float64(s.cfg.ViewDistance) * local.SectionSize / 3

	eye = r3.Vector{X: orbit * math.Cos(angle), Z: orbit * math.Sin(angle)}
	column := [2]int32{
		int32(math.Floor(eye.X / local.SectionSize)),
		int32(math.Floor(eye.Z / local.SectionSize)),
	}
	eye.Y = float64(s.surface[column]+2) * local.SectionSize

	forward := r3.Vector{X: -math.Sin(angle), Y: -0.2, Z: math.Cos(angle)}
	return eye, eye.Add(forward)
}

func (s *simulator) run(ctx context.Context, w io.Writer, frames int) (*simulationSummary, error) {
	s.generate()

	summary := &simulationSummary{}
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eye, target := s.cameraPose(i, frames)
		coordCtx, err := s.cfg.CoordContext(eye, target)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}

		start := s.clock.Now()
		stats := s.graph.Cull(coordCtx, !s.cfg.OcclusionCulling)
		batches := s.graph.DivideGraphIntoRegions(coordCtx)
		result := frameResult{stats: stats, batches: len(batches), duration: s.clock.Since(start)}
		summary.frames = append(summary.frames, result)

		printf(w, "frame %3d: candidates %6d visible %6d reached %6d rounds %3d batches %4d (%v)",
			i, stats.Candidates, stats.Visible, stats.Reached, stats.Rounds, result.batches, result.duration)
	}

	visible := lo.Map(summary.frames, func(f frameResult, _ int) float64 { return float64(f.stats.Visible) })
	reached := lo.Map(summary.frames, func(f frameResult, _ int) float64 { return float64(f.stats.Reached) })
	durations := lo.Map(summary.frames, func(f frameResult, _ int) float64 {
		return float64(f.duration) / float64(time.Millisecond)
	})
	summary.visibleMean, summary.visibleStdDev = stat.MeanStdDev(visible, nil)
	summary.reachedMean, summary.reachedStdDev = stat.MeanStdDev(reached, nil)
	summary.durationMean, summary.durationStdDev = stat.MeanStdDev(durations, nil)

	printf(w, "visible: mean %.1f stddev %.1f", summary.visibleMean, summary.visibleStdDev)
	printf(w, "reached: mean %.1f stddev %.1f", summary.reachedMean, summary.reachedStdDev)
	printf(w, "cull time (ms): mean %.3f stddev %.3f", summary.durationMean, summary.durationStdDev)
	return summary, nil
}
