package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	slgk "github.com/tjhop/slog-gokit"
)

const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// Config holds the settings used to build the root logger.
type Config struct {
	Level  string
	Format string
}

// New builds the root go-kit logger writing to w. Records below the configured level are dropped.
func New(w io.Writer, cfg Config) (log.Logger, error) {
	var l log.Logger
	switch cfg.Format {
	case "", FormatLogfmt:
		l = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case FormatJSON:
		l = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	opt, err := allow(cfg.Level)
	if err != nil {
		return nil, err
	}
	l = level.NewFilter(l, opt)
	return log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func allow(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "", "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unsupported log level %q", lvl)
	}
}

// Slog returns a slog view of a go-kit logger.
// All log levels are passed through; filtering is left to the go-kit logger.
func Slog(logger log.Logger) *slog.Logger {
	lvl := slog.LevelVar{}
	lvl.Set(slog.LevelDebug)
	return slog.New(slgk.NewGoKitHandler(logger, &lvl))
}
