// Package event implements short-lived dashboard notifications and the feeds that expire and render them.
package event

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// now is swapped in tests to move the clock.
var now = time.Now

var (
	joinedStyle  = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("2"))
	leftStyle    = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("1"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	agoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Event is a text annotation with a creation time and a time-to-live.
// Only the lifetime may change after creation, and only when a Renderer resolves a Default lifetime.
type Event struct {
	createdAt time.Time
	text      string
	lifetime  Lifetime
}

// New creates an event with an explicit lifetime.
func New(text string, lifetime Lifetime) *Event {
	return &Event{
		text:      text,
		lifetime:  lifetime,
		createdAt: now(),
	}
}

// NewDefault creates an event that inherits the lifetime of the feed it is added to.
func NewDefault(text string) *Event {
	return New(text, Default())
}

// PlayerDiff builds the join/leave notice for a change in online players.
// diff must not be zero.
func PlayerDiff(diff int) *Event {
	if diff == 0 {
		panic("event: PlayerDiff called with zero diff")
	}

	if diff > 0 {
		return NewDefault(joinedStyle.Render(fmt.Sprintf("Player joined x%d", diff)))
	}

	return NewDefault(leftStyle.Render(fmt.Sprintf("Player left x%d", -diff)))
}

// PingFailure builds the notice for a failed status query.
func PingFailure(host string, port int) *Event {
	return NewDefault(failureStyle.Render(fmt.Sprintf("Ping failed to %s:%d", host, port)))
}

// Warning builds a red notice that never expires.
func Warning(text string) *Event {
	return New(failureStyle.Render(text), Forever())
}

// Text returns the formatted event text.
func (e *Event) Text() string { return e.text }

// Lifetime returns the event lifetime.
func (e *Event) Lifetime() Lifetime { return e.lifetime }

// CreatedAt returns the construction time.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// Duration returns the time elapsed since creation.
func (e *Event) Duration() time.Duration {
	return now().Sub(e.createdAt)
}

// expired reports whether the event has outlived its lifetime.
func (e *Event) expired() bool {
	return e.lifetime.Expired(e.Duration())
}
