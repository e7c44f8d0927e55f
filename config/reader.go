package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"github.com/NunexHost/sodium-fabric-s/logging"
)

// Read reads a config from the given file. Environment variables in the file, such as
// ${VIEW_DISTANCE}, are expanded before it is parsed.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", filePath)
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. Fields missing from the input keep
// their defaults and unknown fields are logged and ignored.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*Config, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}

	cfg := Default()
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   &cfg,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config")
	}
	cfg.ConfigFilePath = originalPath

	if len(md.Unused) > 0 {
		logger.Warnw("ignoring unknown config fields", "path", originalPath, "fields", strings.Join(md.Unused, ", "))
	}
	logger.CDebugw(ctx, "read config", "path", originalPath, "culling", cfg.Culling, "log_level", cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}
