package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/linemk/order-service/internal/lib/logger/handlers/slogpretty"
)

// switching logger
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// SetupLogger инициализирует логгер в зависимости от окружения:
// local - цветной вывод (pretty), dev - JSON с debug, prod и прочие - JSON с info
func SetupLogger(env string) *slog.Logger {
	return New(env, os.Stdout)
}

// New то же, что SetupLogger, но пишет в out
func New(env string, out io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return setupPrettySlog(out)
	case EnvDev:
		return slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
}

func setupPrettySlog(out io.Writer) *slog.Logger {
	color.NoColor = false

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	return slog.New(opts.NewPrettyHandler(out))
}
