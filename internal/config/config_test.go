package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/pingboard/internal/models"
)

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := ParseArgs([]string{})
	require.NoError(t, err)

	assert.Equal(t, "cfg.json", cfg.Display.ConfigPath)
	assert.False(t, cfg.Display.NoClear)
	assert.Equal(t, 3*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 1, cfg.Query.Burst)
	assert.Equal(t, uint16(1400), cfg.Query.A2SBufferSize)
	assert.Empty(t, cfg.GeoIP.Path)
	assert.Equal(t, 24*time.Hour, cfg.GeoIP.Interval)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "pingboard.log", cfg.Logger.Output)
}

func TestParseArgsOverrides(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"-c", "servers.json",
		"--no-clear",
		"--query-timeout", "500ms",
		"--query-rate", "2.5",
		"--geoip-path", "country.mmdb",
		"--log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "servers.json", cfg.Display.ConfigPath)
	assert.True(t, cfg.Display.NoClear)
	assert.Equal(t, 500*time.Millisecond, cfg.Query.Timeout)
	assert.InDelta(t, 2.5, cfg.Query.Rate, 0.0001)
	assert.Equal(t, "country.mmdb", cfg.GeoIP.Path)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestParseArgsRejectsNonPositiveTimeout(t *testing.T) {
	for _, value := range []string{"0s", "-1s"} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseArgs([]string{"--query-timeout=" + value})
			assert.ErrorContains(t, err, "query timeout must be positive")
		})
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	_, err := ParseArgs([]string{"--definitely-not-a-flag"})
	assert.Error(t, err)
}

func TestLoadFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), *f)

	_, err = os.Stat(path)
	require.NoError(t, err, "file is created")

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), again.PingRate)
	assert.Empty(t, again.Addresses)
}

func TestLoadFileExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{
		"addresses": [
			{"host": "play.example.net", "port": 19132},
			{"host": "10.0.0.5", "port": 27016, "protocol": "a2s"}
		],
		"ping_rate": 2000
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	f, err := LoadFile(path)
	require.NoError(t, err)

	require.Len(t, f.Addresses, 2)
	assert.Equal(t, models.Address{Host: "play.example.net", Port: 19132}, f.Addresses[0])
	assert.Equal(t, models.ProtocolA2S, f.Addresses[1].Kind())
	assert.Equal(t, 2*time.Second, f.PingInterval())
	assert.True(t, f.PingRateTooLow())

	// untouched keys keep defaults
	assert.Equal(t, 50*time.Millisecond, f.RenderInterval())
	assert.Equal(t, int64(30000), f.GlobalEventLifetime)
	assert.Equal(t, int64(200000), f.ServerEventLifetime)
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken json", `{"ping_rate": `},
		{"zero ping rate", `{"ping_rate": 0}`},
		{"negative render rate", `{"render_rate": -1}`},
		{"bad port", `{"addresses": [{"host": "a", "port": 70000}]}`},
		{"empty host", `{"addresses": [{"host": "", "port": 19132}]}`},
		{"unknown protocol", `{"addresses": [{"host": "a", "port": 1, "protocol": "gopher"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestPingRateTooLow(t *testing.T) {
	f := DefaultFile()
	assert.False(t, f.PingRateTooLow())

	f.PingRate = MinPingRate
	assert.False(t, f.PingRateTooLow())

	f.PingRate = MinPingRate - 1
	assert.True(t, f.PingRateTooLow())
}
