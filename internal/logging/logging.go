package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// ParseLevel maps "debug", "info", "warn" and "error" (case-insensitive) to
// a slog level. Unrecognized strings map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup creates a configured *slog.Logger, sets it as the default, and returns it.
// When sentryDSN is non-empty, error records are also sent to Sentry. The
// returned function flushes pending Sentry events and should be deferred.
func Setup(level, sentryDSN string) (*slog.Logger, func()) {
	return setup(os.Stderr, level, sentryDSN)
}

func setup(w io.Writer, level, sentryDSN string) (*slog.Logger, func()) {
	handler := slog.Handler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	flush := func() {}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN})
		if err != nil {
			slog.New(handler).Warn("sentry disabled", "error", err)
		} else {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, flush
}
