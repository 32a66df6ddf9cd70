package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "NAV_CONFIG_FILE"

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds all engine and host configuration.
type Config struct {
	Navigation  NavigationConfig  `yaml:"navigation" toml:"navigation"`
	Geometry    GeometryConfig    `yaml:"geometry" toml:"geometry"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
	Input       InputConfig       `yaml:"input" toml:"input"`
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Logging     LogConfig         `yaml:"logging" toml:"logging"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" toml:"rate_limit"`
	Intents     IntentsConfig     `yaml:"intents" toml:"intents"`
}

// NavigationConfig tunes directional scoring and groups.
type NavigationConfig struct {
	HomeGroup         string   `envconfig:"HOME_GROUP" yaml:"home_group" toml:"home_group"`
	GroupOrder        []string `envconfig:"GROUP_ORDER" yaml:"group_order" toml:"group_order"`
	DeadZone          float64  `envconfig:"DEAD_ZONE" yaml:"dead_zone" toml:"dead_zone"`
	AlignmentWeight   float64  `envconfig:"ALIGNMENT_WEIGHT" yaml:"alignment_weight" toml:"alignment_weight"`
	ViewportWidth     float64  `envconfig:"VIEWPORT_WIDTH" yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight    float64  `envconfig:"VIEWPORT_HEIGHT" yaml:"viewport_height" toml:"viewport_height"`
	PointerThrottleHz float64  `envconfig:"POINTER_THROTTLE_HZ" yaml:"pointer_throttle_hz" toml:"pointer_throttle_hz"`
}

// GeometryConfig controls the bounds cache and staleness sweep.
type GeometryConfig struct {
	SweepInterval   Duration `envconfig:"SWEEP_INTERVAL" yaml:"sweep_interval" toml:"sweep_interval"`
	StalenessWindow Duration `envconfig:"STALENESS_WINDOW" yaml:"staleness_window" toml:"staleness_window"`
	CacheTTL        Duration `envconfig:"CACHE_TTL" yaml:"cache_ttl" toml:"cache_ttl"`
}

// PerformanceConfig controls the performance governor.
type PerformanceConfig struct {
	FPSThreshold           float64  `envconfig:"FPS_THRESHOLD" yaml:"fps_threshold" toml:"fps_threshold"`
	SampleWindow           Duration `envconfig:"SAMPLE_WINDOW" yaml:"sample_window" toml:"sample_window"`
	MinCores               int      `envconfig:"MIN_CORES" yaml:"min_cores" toml:"min_cores"`
	MinMemoryGB            float64  `envconfig:"MIN_MEMORY_GB" yaml:"min_memory_gb" toml:"min_memory_gb"`
	PollInterval           Duration `envconfig:"POLL_INTERVAL" yaml:"poll_interval" toml:"poll_interval"`
	SlowPollInterval       Duration `envconfig:"SLOW_POLL_INTERVAL" yaml:"slow_poll_interval" toml:"slow_poll_interval"`
	FocusTransition        Duration `envconfig:"FOCUS_TRANSITION" yaml:"focus_transition" toml:"focus_transition"`
	ReducedFocusTransition Duration `envconfig:"REDUCED_FOCUS_TRANSITION" yaml:"reduced_focus_transition" toml:"reduced_focus_transition"`
	ActivationPulse        Duration `envconfig:"ACTIVATION_PULSE" yaml:"activation_pulse" toml:"activation_pulse"`
	ReducedActivationPulse Duration `envconfig:"REDUCED_ACTIVATION_PULSE" yaml:"reduced_activation_pulse" toml:"reduced_activation_pulse"`
}

// InputConfig controls keyboard shortcuts and gamepad repeat.
type InputConfig struct {
	RepeatDelay    Duration          `envconfig:"REPEAT_DELAY" yaml:"repeat_delay" toml:"repeat_delay"`
	RepeatInterval Duration          `envconfig:"REPEAT_INTERVAL" yaml:"repeat_interval" toml:"repeat_interval"`
	StickThreshold float64           `envconfig:"STICK_THRESHOLD" yaml:"stick_threshold" toml:"stick_threshold"`
	Shortcuts      map[string]string `envconfig:"SHORTCUTS" yaml:"shortcuts" toml:"shortcuts"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string   `envconfig:"PORT" yaml:"port" toml:"port"`
	Host            string   `envconfig:"HOST" yaml:"host" toml:"host"`
	WebsocketPath   string   `envconfig:"WS_PATH" yaml:"websocket_path" toml:"websocket_path"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" yaml:"allowed_origins" toml:"allowed_origins"`
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// IntentsConfig configures intent forwarding.
type IntentsConfig struct {
	WebhookURL string   `envconfig:"INTENT_WEBHOOK_URL" yaml:"webhook_url" toml:"webhook_url"`
	RetryMax   int      `envconfig:"INTENT_RETRY_MAX" yaml:"retry_max" toml:"retry_max"`
	Timeout    Duration `envconfig:"INTENT_TIMEOUT" yaml:"timeout" toml:"timeout"`
	QueueSize  int      `envconfig:"INTENT_QUEUE_SIZE" yaml:"queue_size" toml:"queue_size"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Navigation: NavigationConfig{
			HomeGroup:         "navigation",
			GroupOrder:        []string{"navigation", "content", "sidebar"},
			DeadZone:          10,
			AlignmentWeight:   100,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			PointerThrottleHz: 60,
		},
		Geometry: GeometryConfig{
			SweepInterval:   Duration(60 * time.Second),
			StalenessWindow: Duration(30 * time.Second),
		},
		Performance: PerformanceConfig{
			FPSThreshold:           45,
			SampleWindow:           Duration(time.Second),
			MinCores:               4,
			MinMemoryGB:            4,
			PollInterval:           Duration(100 * time.Millisecond),
			SlowPollInterval:       Duration(200 * time.Millisecond),
			FocusTransition:        Duration(200 * time.Millisecond),
			ReducedFocusTransition: Duration(100 * time.Millisecond),
			ActivationPulse:        Duration(150 * time.Millisecond),
			ReducedActivationPulse: Duration(75 * time.Millisecond),
		},
		Input: InputConfig{
			RepeatDelay:    Duration(300 * time.Millisecond),
			RepeatInterval: Duration(150 * time.Millisecond),
			StickThreshold: 0.5,
			Shortcuts:      map[string]string{},
		},
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			WebsocketPath:   "/ws",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Intents: IntentsConfig{
			RetryMax:  3,
			Timeout:   Duration(5 * time.Second),
			QueueSize: 64,
		},
	}
}

// Load builds configuration from defaults, the optional file named by
// NAV_CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile builds configuration from defaults overlaid with a YAML or TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns defaults on any error.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Navigation.HomeGroup == "":
		return errors.New("navigation.home_group must not be empty")
	case c.Navigation.DeadZone < 0:
		return errors.New("navigation.dead_zone must not be negative")
	case c.Navigation.AlignmentWeight < 0:
		return errors.New("navigation.alignment_weight must not be negative")
	case c.Navigation.ViewportWidth <= 0 || c.Navigation.ViewportHeight <= 0:
		return errors.New("navigation viewport must be positive")
	case c.Navigation.PointerThrottleHz <= 0:
		return errors.New("navigation.pointer_throttle_hz must be positive")
	case c.Geometry.StalenessWindow < 0 || c.Geometry.SweepInterval < 0 || c.Geometry.CacheTTL < 0:
		return errors.New("geometry durations must not be negative")
	case c.Performance.FPSThreshold <= 0:
		return errors.New("performance.fps_threshold must be positive")
	case c.Performance.SampleWindow <= 0:
		return errors.New("performance.sample_window must be positive")
	case c.Performance.PollInterval <= 0 || c.Performance.SlowPollInterval <= 0:
		return errors.New("performance poll intervals must be positive")
	case c.Input.RepeatInterval <= 0:
		return errors.New("input.repeat_interval must be positive")
	case c.Input.StickThreshold <= 0 || c.Input.StickThreshold > 1:
		return errors.New("input.stick_threshold must be in (0, 1]")
	case !strings.HasPrefix(c.Server.WebsocketPath, "/"):
		return errors.New("server.websocket_path must start with /")
	case c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0):
		return errors.New("rate_limit values must be positive when enabled")
	}
	return nil
}

// Address returns host:port for the HTTP server.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}
