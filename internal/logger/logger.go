// Package logger holds the process-wide slog logger. Records carry source
// locations and are enriched with the active trace context.
package logger

import (
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
)

var LogLevel = new(slog.LevelVar)

var Handler = slogotel.NewOtelHandler(slogotel.WithNoTraceEvents(true))(
	slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     LogLevel,
	}),
)

var Logger = slog.New(Handler)

func InitSlog() {
	slog.SetDefault(Logger)
	LogLevel.Set(slog.LevelDebug)
}
