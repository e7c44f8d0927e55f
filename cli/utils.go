package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/NunexHost/sodium-fabric-s/config"
	"github.com/NunexHost/sodium-fabric-s/logging"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "Warning: "+format+"\n", a...)
}

// setup builds the logger for a command and loads the config named by the --config flag, or the
// defaults when there is none.
func setup(c *cli.Context) (context.Context, *config.Config, logging.Logger, error) {
	debug := c.Bool(generalFlagDebug)
	logger := logging.NewLogger("cullsim")
	ctx := c.Context
	if debug {
		logger = logging.NewDebugLogger("cullsim")
		ctx = logging.EnableDebugMode(ctx, "")
	}
	config.InitLoggingSettings(logger, debug)
	logging.ReplaceGlobal(logger)

	path := c.String(generalFlagConfig)
	if path == "" {
		cfg := config.Default()
		return ctx, &cfg, logger, nil
	}

	cfg, err := config.Read(ctx, path, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	config.UpdateFileConfigDebug(cfg.Debug)
	if !debug {
		logger.SetLevel(cfg.Log.LogLevel())
	}
	return ctx, cfg, logger, nil
}
