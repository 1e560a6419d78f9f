package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/woozymasta/pingboard/internal/models"
)

// MinPingRate is the poll interval under which a persistent warning is shown, in milliseconds.
const MinPingRate = 3000

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// File is the dashboard file: servers to poll and timings in milliseconds.
type File struct {
	Addresses           []models.Address `json:"addresses"`
	PingRate            int64            `json:"ping_rate"`
	RenderRate          int64            `json:"render_rate"`
	GlobalEventLifetime int64            `json:"global_event_lifetime"`
	ServerEventLifetime int64            `json:"server_event_lifetime"`
}

// DefaultFile returns the values written when no dashboard file exists.
func DefaultFile() File {
	return File{
		Addresses:           []models.Address{},
		PingRate:            20000,
		RenderRate:          50,
		GlobalEventLifetime: 30000,
		ServerEventLifetime: 200000,
	}
}

// LoadFile reads the dashboard file at path, creating it with defaults if it does not exist.
// Keys missing from the file keep their default values.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		def := DefaultFile()
		if err := writeFile(path, def); err != nil {
			return nil, err
		}
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	f := DefaultFile()
	if err := json.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &f, nil
}

// Validate checks rates and addresses.
func (f *File) Validate() error {
	if f.PingRate <= 0 {
		return fmt.Errorf("ping_rate must be positive, got %d", f.PingRate)
	}
	if f.RenderRate <= 0 {
		return fmt.Errorf("render_rate must be positive, got %d", f.RenderRate)
	}
	for i, addr := range f.Addresses {
		if err := addr.Validate(); err != nil {
			return fmt.Errorf("addresses[%d]: %w", i, err)
		}
	}

	return nil
}

// PingInterval returns the poll cycle interval.
func (f *File) PingInterval() time.Duration {
	return time.Duration(f.PingRate) * time.Millisecond
}

// RenderInterval returns the frame interval.
func (f *File) RenderInterval() time.Duration {
	return time.Duration(f.RenderRate) * time.Millisecond
}

// PingRateTooLow reports whether the poll interval is under MinPingRate.
func (f *File) PingRateTooLow() bool {
	return f.PingRate < MinPingRate
}

func writeFile(path string, f File) error {
	content, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to create config %s: %w", path, err)
	}

	return nil
}
