package advert

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/pingboard/internal/event"
	"github.com/woozymasta/pingboard/internal/models"
)

var divider = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("-", 32))

// Manager is the registry of server panels keyed by server id.
// Panels are created on first access and never removed.
// All methods are safe for concurrent use.
type Manager struct {
	renderers map[int]*ServerRenderer
	order     []int
	lifetime  event.Lifetime
	mu        sync.Mutex
}

// NewManager creates an empty registry whose panels keep events for lifetime.
func NewManager(lifetime event.Lifetime) *Manager {
	return &Manager{
		renderers: make(map[int]*ServerRenderer),
		lifetime:  lifetime,
	}
}

// Get returns the panel for id, creating it on first access.
// The returned panel must not be used while other goroutines call the Manager.
func (m *Manager) Get(id int) *ServerRenderer {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.getOrCreate(id)
}

// IDs returns the registered ids in creation order.
func (m *Manager) IDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]int(nil), m.order...)
}

// MarkRefreshing flags the panel as waiting for a query result.
func (m *Manager) MarkRefreshing(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(id).status = StatusRefreshing
}

// MarkError flags the panel as failed. Diffing is suspended until the next successful Set.
func (m *Manager) MarkError(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(id).status = StatusError
}

// Set records a new snapshot: status returns to normal and the current snapshot becomes the previous one.
func (m *Manager) Set(id int, snap *models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.getOrCreate(id)
	r.status = StatusNormal
	r.previous = r.current
	r.current = snap
}

// SetCountry attaches an ISO country code to the panel header.
func (m *Manager) SetCountry(id int, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(id).country = code
}

// CheckUpdates expires server events and emits a player join/leave event for
// every completed, healthy panel whose online count changed.
// Call it once per poll cycle after every server was queried.
func (m *Manager) CheckUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		r := m.renderers[id]
		r.Tick()

		if !r.IsCompleted() || r.status == StatusError {
			continue
		}

		diff := r.playerDiff()
		if diff == 0 {
			continue
		}

		r.events.Add(event.PlayerDiff(diff))
		log.Debug().
			Int("server", id).
			Int("diff", diff).
			Int("online", r.current.PlayersOnline).
			Msg("Player count changed")
	}
}

// Render writes every panel in creation order, each followed by a divider.
// The lock is held for the whole frame so a frame never mixes two poll states.
func (m *Manager) Render(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		m.renderers[id].Render(w)
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, divider)
	}
}

func (m *Manager) getOrCreate(id int) *ServerRenderer {
	r, ok := m.renderers[id]
	if !ok {
		r = newServerRenderer(m.lifetime)
		m.renderers[id] = r
		m.order = append(m.order, id)
	}

	return r
}
