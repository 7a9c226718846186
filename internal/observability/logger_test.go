package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLoggerInstallsGlobalLogger(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	logger := InitLogger("vcardctl", LoggerOptions{Out: &buf, Level: zerolog.InfoLevel, NoColor: true})
	logger.Debug().Msg("hidden")
	log.Info().Str("records", "2").Msg("split complete")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line must be filtered: %q", out)
	}
	if !strings.Contains(out, "split complete") || !strings.Contains(out, "app=vcardctl") {
		t.Fatalf("unexpected log output: %q", out)
	}
}
