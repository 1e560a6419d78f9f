// Package advert tracks per-server advertisement snapshots, turns changes between
// consecutive snapshots into events and renders the server panels.
package advert

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/woozymasta/pingboard/internal/event"
	"github.com/woozymasta/pingboard/internal/models"
)

// Status is the update state of a server panel.
type Status uint8

// Panel states. A panel starts in StatusNormal.
const (
	StatusNormal Status = iota
	StatusRefreshing
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusRefreshing:
		return "refreshing"
	case StatusError:
		return "error"
	default:
		return "normal"
	}
}

var (
	glyphNormal     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("-")
	glyphError      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("X")
	glyphRefreshing = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Render("!")

	motdStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	playersStyle = lipgloss.NewStyle().Background(lipgloss.Color("4"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// ServerRenderer holds the two latest snapshots, the event feed and the status of one server.
// It is not synchronized; Manager serializes access.
type ServerRenderer struct {
	current  *models.Snapshot
	previous *models.Snapshot
	events   *event.Renderer
	country  string
	status   Status
}

func newServerRenderer(lifetime event.Lifetime) *ServerRenderer {
	return &ServerRenderer{
		events: event.NewRenderer(lifetime),
		status: StatusNormal,
	}
}

// IsCompleted reports whether both the current and the previous snapshot are known.
func (s *ServerRenderer) IsCompleted() bool {
	return s.current != nil && s.previous != nil
}

// Tick expires stale server events.
func (s *ServerRenderer) Tick() {
	s.events.Tick()
}

// Status returns the panel status.
func (s *ServerRenderer) Status() Status { return s.status }

// Current returns the latest snapshot or nil.
func (s *ServerRenderer) Current() *models.Snapshot { return s.current }

// Previous returns the snapshot before the latest one or nil.
func (s *ServerRenderer) Previous() *models.Snapshot { return s.previous }

// Events returns the server-scoped event feed.
func (s *ServerRenderer) Events() *event.Renderer { return s.events }

// Country returns the ISO country code attached to the panel, if any.
func (s *ServerRenderer) Country() string { return s.country }

// Render writes the status line and the server events.
// Nothing is written until a first snapshot arrives.
func (s *ServerRenderer) Render(w io.Writer) {
	if s.current == nil {
		return
	}

	line := s.glyph() +
		motdStyle.Render(" "+s.current.MOTD+" ") +
		playersStyle.Render(fmt.Sprintf("%d/%d", s.current.PlayersOnline, s.current.PlayersMax)) +
		versionStyle.Render(" version: "+s.current.Version)
	if s.country != "" {
		line += countryStyle.Render(" [" + s.country + "]")
	}

	_, _ = fmt.Fprintln(w, line)
	s.events.Render(w)
}

func (s *ServerRenderer) glyph() string {
	switch s.status {
	case StatusError:
		return glyphError
	case StatusRefreshing:
		return glyphRefreshing
	default:
		return glyphNormal
	}
}

// playerDiff returns the change in online players between the two snapshots.
// The caller checks IsCompleted first.
func (s *ServerRenderer) playerDiff() int {
	return s.current.PlayersOnline - s.previous.PlayersOnline
}
