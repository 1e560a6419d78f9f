// Package config handles the parsing of command-line arguments and environment variables
// and the loading of the JSON dashboard file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/pingboard/internal/logger"
	"github.com/woozymasta/pingboard/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Display Display       `group:"Display Options" env-namespace:"PINGBOARD"`
	Query   Query         `group:"Query Options" namespace:"query" env-namespace:"PINGBOARD_QUERY"`
	GeoIP   GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"PINGBOARD_GEOIP"`
	Logger  logger.Config `group:"Logger Options" namespace:"log" env-namespace:"PINGBOARD_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Display holds dashboard options.
type Display struct {
	// betteralign:ignore

	ConfigPath string `short:"c" long:"config" env:"CONFIG" description:"Path to JSON file with server addresses and rates, created if missing" default:"cfg.json"`
	NoClear    bool   `long:"no-clear" env:"NO_CLEAR" description:"Do not clear the terminal between frames"`
}

// Query holds status query options.
type Query struct {
	// betteralign:ignore

	Timeout       time.Duration `long:"timeout" env:"TIMEOUT" description:"Single server query timeout" default:"3s"`
	Rate          float64       `long:"rate" env:"RATE" description:"Max outgoing queries per second, 0 disables limiting" default:"0"`
	Burst         int           `long:"burst" env:"BURST" description:"Query rate limiter burst" default:"1"`
	A2SBufferSize uint16        `long:"a2s-buffer-size" env:"A2S_BUFFER_SIZE" description:"A2S response body buffer size" default:"1400"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file, empty disables country tags"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// ParseArgs reads the configuration from args and environment variables.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Query.Timeout <= 0 {
		return nil, fmt.Errorf("query timeout must be positive, got %s", cfg.Query.Timeout)
	}

	return &cfg, nil
}

// Parse reads the configuration from os.Args and environment variables.
// It terminates the application if the configuration is invalid or if the help or version flag is invoked.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return cfg
}
