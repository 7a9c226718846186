package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/vcardcodec/internal/logging"
	"github.com/danmuck/vcardcodec/internal/parser"
	"github.com/danmuck/vcardcodec/internal/versit"
)

// CodecConfig is the resolved vcardctl configuration.
type CodecConfig struct {
	Version string
	Log     logging.Config
}

type fileConfig struct {
	Version string  `toml:"version"`
	Log     fileLog `toml:"log"`
}

type fileLog struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"nocolor"`
}

func DefaultCodecConfig() CodecConfig {
	return CodecConfig{
		Version: versit.Version30,
		Log:     logging.DefaultConfig(logging.ProfileRuntime),
	}
}

// LoadCodecConfig reads path over DefaultCodecConfig. Keys missing from the
// file keep their defaults.
func LoadCodecConfig(path string) (CodecConfig, error) {
	cfg := DefaultCodecConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return CodecConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("version") {
		cfg.Version = strings.TrimSpace(raw.Version)
	}
	if meta.IsDefined("log", "level") {
		lvl, ok := logging.ParseLevel(raw.Log.Level)
		if !ok {
			return CodecConfig{}, fmt.Errorf("config parse failed (%s): unknown log level %q", path, raw.Log.Level)
		}
		cfg.Log.Level = lvl
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "nocolor") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return CodecConfig{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}
	if err := ValidateCodecConfig(cfg); err != nil {
		return CodecConfig{}, err
	}
	return cfg, nil
}

func ValidateCodecConfig(cfg CodecConfig) error {
	if !versit.ValidVersion(cfg.Version) {
		return fmt.Errorf("%w: %q", versit.ErrVersion, cfg.Version)
	}
	return nil
}

// ParserConfig converts cfg into parser settings on top of parser.DefaultConfig.
func (cfg CodecConfig) ParserConfig() parser.Config {
	out := parser.DefaultConfig()
	out.Version = cfg.Version
	return out
}
