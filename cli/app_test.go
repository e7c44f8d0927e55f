package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"

	"github.com/NunexHost/sodium-fabric-s/config"
	"github.com/NunexHost/sodium-fabric-s/logging"
)

// tableRow returns the cells of the first table row whose first cell is key.
func tableRow(out, key string) []string {
	for _, line := range strings.Split(out, "\n") {
		cells := strings.FieldsFunc(line, func(r rune) bool { return r == '|' || r == ' ' })
		if len(cells) > 0 && cells[0] == key {
			return cells
		}
	}
	return nil
}

func TestQueueSizeAction(t *testing.T) {
	defer logging.GlobalLogLevel.SetLevel(zapcore.InfoLevel)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	app := NewApp(out, errOut)

	err := app.Run([]string{"cullsim", "queue-size", "--view-distances", "1,2", "--world-heights", "1,3"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "VIEW DISTANCE")
	test.That(t, tableRow(out.String(), "1"), test.ShouldResemble, []string{"1", "4", "6"})
	test.That(t, tableRow(out.String(), "2"), test.ShouldResemble, []string{"2", "8", "16"})
	test.That(t, out.String(), test.ShouldNotContainSubstring, "Warning")

	out.Reset()
	app = NewApp(out, errOut)
	err = app.Run([]string{"cullsim", "queue-size", "--frustum", "--view-distances", "2", "--world-heights", "3"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tableRow(out.String(), "2"), test.ShouldResemble, []string{"2", "8"})
	test.That(t, out.String(), test.ShouldContainSubstring, "Warning: frustum sizes")

	app = NewApp(out, errOut)
	err = app.Run([]string{"cullsim", "queue-size", "--view-distances", "128"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "view distances [128]")

	app = NewApp(out, errOut)
	err = app.Run([]string{"cullsim", "queue-size", "--world-heights", "0,300"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "world heights [0 300]")
}

func smallCullingConfig() *config.CullingConfig {
	cfg := config.Default()
	cfg.Culling.ViewDistance = 4
	cfg.Culling.WorldMinSectionY = 0
	cfg.Culling.WorldHeight = 8
	return &cfg.Culling
}

func TestSimulator(t *testing.T) {
	logger := logging.NewTestLogger(t)
	logger.SetLevel(logging.INFO)
	out := &bytes.Buffer{}

	sim := newSimulator(smallCullingConfig(), 7, clock.NewMock(), logger)
	summary, err := sim.run(context.Background(), out, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(summary.frames), test.ShouldEqual, 4)

	for _, frame := range summary.frames {
		test.That(t, frame.stats.Visible, test.ShouldBeLessThanOrEqualTo, frame.stats.Candidates)
		test.That(t, frame.stats.Reached, test.ShouldBeGreaterThan, 0)
		test.That(t, frame.duration, test.ShouldEqual, time.Duration(0))
		if frame.stats.Visible > 0 {
			test.That(t, frame.batches, test.ShouldBeGreaterThan, 0)
		}
	}
	test.That(t, summary.durationMean, test.ShouldEqual, 0.)
	test.That(t, out.String(), test.ShouldContainSubstring, "frame   3:")
	test.That(t, out.String(), test.ShouldContainSubstring, "visible: mean")

	t.Run("same seed gives the same frames", func(t *testing.T) {
		again := newSimulator(smallCullingConfig(), 7, clock.NewMock(), logger)
		summaryAgain, err := again.run(context.Background(), &bytes.Buffer{}, 4)
		test.That(t, err, test.ShouldBeNil)
		for i := range summary.frames {
			test.That(t, summaryAgain.frames[i].stats, test.ShouldResemble, summary.frames[i].stats)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		canceled := newSimulator(smallCullingConfig(), 7, clock.NewMock(), logger)
		_, err := canceled.run(ctx, &bytes.Buffer{}, 4)
		test.That(t, err, test.ShouldBeError, context.Canceled)
	})
}

func TestSimulateAction(t *testing.T) {
	defer logging.GlobalLogLevel.SetLevel(zapcore.InfoLevel)
	path := filepath.Join(t.TempDir(), "cullsim.json")
	err := os.WriteFile(path, []byte(`{
		"culling": {"view_distance": 3, "world_min_section_y": 0, "world_height": 8, "occlusion_culling": false},
		"log": {"level": "warn"}
	}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	out := &bytes.Buffer{}
	app := NewApp(out, &bytes.Buffer{})
	err = app.Run([]string{"cullsim", "--config", path, "simulate", "--frames", "2", "--seed", "3"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "frame   1:")
	// without occlusion culling nothing is traversed
	test.That(t, out.String(), test.ShouldContainSubstring, "reached: mean 0.0")

	app = NewApp(out, &bytes.Buffer{})
	err = app.Run([]string{"cullsim", "simulate", "--frames", "0"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--frames must be at least 1")

	app = NewApp(out, &bytes.Buffer{})
	err = app.Run([]string{"cullsim", "--config", filepath.Join(t.TempDir(), "missing.json"), "simulate"})
	test.That(t, err, test.ShouldNotBeNil)
}
