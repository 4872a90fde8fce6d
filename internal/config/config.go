package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/state"
)

// Config captures everything promofinder reads from its config file.
type Config struct {
	Location      Location      `toml:"location"`
	Source        Source        `toml:"source"`
	Notifications Notifications `toml:"notifications"`
	Log           Log           `toml:"log"`
}

// Location is the default simulated viewer position.
type Location struct {
	Latitude  float64 `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `toml:"longitude" validate:"gte=-180,lte=180"`
}

// Source configures the mock catalog source.
type Source struct {
	LatencyMS int      `toml:"latency_ms" validate:"gte=0"`
	Fail      []string `toml:"fail" validate:"dive,oneof=promotions categories stores"`
}

// Notifications configures the simulated special-offer push.
type Notifications struct {
	ArrivalDelayMS int `toml:"arrival_delay_ms" validate:"gte=0"`
	DisplayMS      int `toml:"display_ms" validate:"gte=0"`
}

// Log configures the diagnostic log file.
type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

const (
	defaultConfigPath     = "~/.config/promofinder/config.toml"
	defaultLogFile        = "~/.local/state/promofinder/promofinder.log"
	defaultLogLevel       = "info"
	defaultArrivalDelayMS = 5000
	defaultDisplayMS      = 6000
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Location: Location{
			Latitude:  state.DefaultLatitude,
			Longitude: state.DefaultLongitude,
		},
		Source: Source{
			LatencyMS: int(catalog.DefaultLatency / time.Millisecond),
		},
		Notifications: Notifications{
			ArrivalDelayMS: defaultArrivalDelayMS,
			DisplayMS:      defaultDisplayMS,
		},
		Log: Log{
			File:  mustExpand(defaultLogFile),
			Level: defaultLogLevel,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	cfg.Log.File = mustExpand(cfg.Log.File)
	for i, ep := range cfg.Source.Fail {
		cfg.Source.Fail[i] = strings.ToLower(strings.TrimSpace(ep))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Latency returns the mock source latency.
func (c Config) Latency() time.Duration {
	return time.Duration(c.Source.LatencyMS) * time.Millisecond
}

// FailingEndpoints returns the source endpoints configured to fail.
func (c Config) FailingEndpoints() []catalog.Endpoint {
	out := make([]catalog.Endpoint, 0, len(c.Source.Fail))
	for _, ep := range c.Source.Fail {
		out = append(out, catalog.Endpoint(ep))
	}
	return out
}

// ArrivalDelay is how long after a successful load the special offer shows up.
func (c Config) ArrivalDelay() time.Duration {
	return time.Duration(c.Notifications.ArrivalDelayMS) * time.Millisecond
}

// DisplayDuration is how long the special offer toast stays visible.
func (c Config) DisplayDuration() time.Duration {
	return time.Duration(c.Notifications.DisplayMS) * time.Millisecond
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
