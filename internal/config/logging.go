// Package config loads msmirror settings and sets up logging.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s', must be debug, info, warn or error", level)
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.DebugContext(ctx, "Config: resolved", "settings", *s)
	if s.TopN > 0 || s.Cutoff > 0 || s.MinMZ > 0 || s.MaxMZ > 0 {
		logger.DebugContext(ctx, "Config: peak filter",
			"top_n", s.TopN, "cutoff", s.Cutoff, "min_mz", s.MinMZ, "max_mz", s.MaxMZ)
	}
}

// LogValue implements slog.LogValuer.
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("db_path", s.DBPath),
		slog.String("output_format", s.OutputFormat),
		slog.Int("dpi", s.DPI),
		slog.Float64("width", s.Width),
		slog.Float64("height", s.Height),
		slog.String("log_level", s.LogLevel),
	)
}
