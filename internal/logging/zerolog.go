package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. Key–value args are attached with
// Fields, so an odd trailing key is dropped.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(w io.Writer, level slog.Level) *ZerologLogger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(toZerologLevel(level)).
		With().Timestamp().Logger()
	return &ZerologLogger{l: l}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.l.Debug().Ctx(ctx).Fields(args).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.l.Info().Ctx(ctx).Fields(args).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.l.Warn().Ctx(ctx).Fields(args).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.l.Error().Ctx(ctx).Fields(args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(args).Logger()}
}
