// Package models defines the data structures shared between the query, polling and rendering layers.
package models

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Supported status query protocols.
const (
	ProtocolBedrock = "bedrock"
	ProtocolA2S     = "a2s"
)

// Address is a configured server endpoint.
type Address struct {
	Host     string `json:"host"`
	Protocol string `json:"protocol,omitempty"`
	Port     int    `json:"port"`
}

// String returns the host:port form of the address.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Kind returns the query protocol, defaulting to Bedrock.
func (a Address) Kind() string {
	if a.Protocol == "" {
		return ProtocolBedrock
	}

	return a.Protocol
}

// Validate checks the address fields.
func (a Address) Validate() error {
	if a.Host == "" {
		return fmt.Errorf("empty host")
	}
	if a.Port <= 0 || a.Port > 65535 {
		return fmt.Errorf("invalid port %d for %s", a.Port, a.Host)
	}
	switch a.Kind() {
	case ProtocolBedrock, ProtocolA2S:
	default:
		return fmt.Errorf("unknown protocol %q for %s", a.Protocol, a)
	}

	return nil
}

// Snapshot is a point-in-time status report (advertisement) returned by a server.
type Snapshot struct {
	MOTD          string        `json:"motd"`
	Version       string        `json:"version"`
	LevelName     string        `json:"level_name,omitempty"`
	GameMode      string        `json:"game_mode,omitempty"`
	Latency       time.Duration `json:"latency,omitempty"`
	Protocol      int           `json:"protocol,omitempty"`
	PlayersOnline int           `json:"players_online"`
	PlayersMax    int           `json:"players_max"`
}
