package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/vcardcodec/internal/observability"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "VCARDCODEC_LOG_LEVEL"
	EnvLogTimestamp = "VCARDCODEC_LOG_TIMESTAMP"
	EnvLogNoColor   = "VCARDCODEC_LOG_NOCOLOR"
	EnvLogBypass    = "VCARDCODEC_LOG_BYPASS"
)

const appName = "vcardcodec"

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger setup. Bypass discards all output.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile)
		ApplyEnvOverrides(&cfg)
		Apply(cfg)
	})
}

func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, Timestamp: false}
	default:
		return Config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// Apply installs cfg as the global logger and level.
func Apply(cfg Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Bypass {
		out = io.Discard
	}
	zerolog.SetGlobalLevel(cfg.Level)
	return observability.InitLogger(appName, observability.LoggerOptions{
		Out:       out,
		Level:     cfg.Level,
		Timestamp: cfg.Timestamp,
		NoColor:   cfg.NoColor,
	})
}

func ApplyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		cfg.Bypass = v
	}
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
