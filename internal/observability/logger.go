package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOptions shapes the console logger built by InitLogger.
type LoggerOptions struct {
	Out       io.Writer
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

func InitLogger(app string, opts LoggerOptions) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}
	ctx := zerolog.New(output).Level(opts.Level).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Str("app", app).Logger()
	log.Logger = logger
	return logger
}
