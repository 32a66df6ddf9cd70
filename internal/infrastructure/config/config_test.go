package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Navigation
	assert.Equal(t, "navigation", cfg.Navigation.HomeGroup)
	assert.Equal(t, 10.0, cfg.Navigation.DeadZone)
	assert.Equal(t, 100.0, cfg.Navigation.AlignmentWeight)
	assert.Equal(t, 1920.0, cfg.Navigation.ViewportWidth)
	assert.Equal(t, 1080.0, cfg.Navigation.ViewportHeight)

	// Geometry
	assert.Equal(t, 60*time.Second, cfg.Geometry.SweepInterval.Std())
	assert.Equal(t, 30*time.Second, cfg.Geometry.StalenessWindow.Std())

	// Performance
	assert.Equal(t, 45.0, cfg.Performance.FPSThreshold)
	assert.Equal(t, 100*time.Millisecond, cfg.Performance.PollInterval.Std())
	assert.Equal(t, 200*time.Millisecond, cfg.Performance.SlowPollInterval.Std())

	// Server
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Std())

	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, 10.0, cfg.Navigation.DeadZone)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEAD_ZONE", "12.5")
	t.Setenv("GROUP_ORDER", "a,b")
	t.Setenv("HOME_GROUP", "a")
	t.Setenv("POLL_INTERVAL", "50ms")
	t.Setenv("SHORTCUTS", "h:/home,s:/settings")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 12.5, cfg.Navigation.DeadZone)
	assert.Equal(t, []string{"a", "b"}, cfg.Navigation.GroupOrder)
	assert.Equal(t, "a", cfg.Navigation.HomeGroup)
	assert.Equal(t, 50*time.Millisecond, cfg.Performance.PollInterval.Std())
	assert.Equal(t, map[string]string{"h": "/home", "s": "/settings"}, cfg.Input.Shortcuts)
	assert.False(t, cfg.RateLimit.Enabled)

	// untouched values keep their defaults
	assert.Equal(t, 100.0, cfg.Navigation.AlignmentWeight)
}

func TestLoadSectionPrefixedKey(t *testing.T) {
	t.Setenv("PERFORMANCE_FPS_THRESHOLD", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Performance.FPSThreshold)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("DEAD_ZONE", "wide")

	_, err := Load()
	assert.Error(t, err)
	assert.Equal(t, 10.0, LoadOrDefault().Navigation.DeadZone)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "nav.yaml", `
navigation:
  home_group: content
  group_order: [content, sidebar]
  dead_zone: 4
geometry:
  cache_ttl: 2s
input:
  shortcuts:
    h: /home
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.Navigation.HomeGroup)
	assert.Equal(t, []string{"content", "sidebar"}, cfg.Navigation.GroupOrder)
	assert.Equal(t, 4.0, cfg.Navigation.DeadZone)
	assert.Equal(t, 2*time.Second, cfg.Geometry.CacheTTL.Std())
	assert.Equal(t, "/home", cfg.Input.Shortcuts["h"])
	assert.Equal(t, 100.0, cfg.Navigation.AlignmentWeight)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "nav.toml", `
[performance]
fps_threshold = 50.0
slow_poll_interval = "250ms"

[server]
port = "7000"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Performance.FPSThreshold)
	assert.Equal(t, 250*time.Millisecond, cfg.Performance.SlowPollInterval.Std())
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "nav.yaml", "server:\n  port: \"7000\"\n")
	t.Setenv(FileEnv, path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Server.Port)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := writeFile(t, "nav.ini", "port=1")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty home group", func(c *Config) { c.Navigation.HomeGroup = "" }},
		{"negative dead zone", func(c *Config) { c.Navigation.DeadZone = -1 }},
		{"zero viewport", func(c *Config) { c.Navigation.ViewportWidth = 0 }},
		{"zero throttle", func(c *Config) { c.Navigation.PointerThrottleHz = 0 }},
		{"zero fps threshold", func(c *Config) { c.Performance.FPSThreshold = 0 }},
		{"zero sample window", func(c *Config) { c.Performance.SampleWindow = 0 }},
		{"zero poll interval", func(c *Config) { c.Performance.PollInterval = 0 }},
		{"stick threshold above one", func(c *Config) { c.Input.StickThreshold = 1.5 }},
		{"negative staleness", func(c *Config) { c.Geometry.StalenessWindow = Duration(-time.Second) }},
		{"relative websocket path", func(c *Config) { c.Server.WebsocketPath = "ws" }},
		{"zero rate limit burst", func(c *Config) { c.RateLimit.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
