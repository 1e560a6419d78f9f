// Package poller drives the periodic status poll cycle over all registered servers.
package poller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/pingboard/internal/advert"
	"github.com/woozymasta/pingboard/internal/event"
	"github.com/woozymasta/pingboard/internal/models"
	"github.com/woozymasta/pingboard/internal/query"
)

// ServerManager owns the append-only list of registered servers and polls them
// one at a time on every cycle. Server ids start at 1 and are never reused.
type ServerManager struct {
	adverts  *advert.Manager
	global   *event.Renderer
	querier  query.Querier
	seen     map[uint64]int
	servers  []models.Address
	interval time.Duration
	mu       sync.Mutex
}

// New creates a ServerManager feeding results into adverts and failure notices into the global feed.
func New(adverts *advert.Manager, global *event.Renderer, querier query.Querier, interval time.Duration) *ServerManager {
	return &ServerManager{
		adverts:  adverts,
		global:   global,
		querier:  querier,
		seen:     make(map[uint64]int),
		interval: interval,
	}
}

// Interval returns the poll cycle interval.
func (m *ServerManager) Interval() time.Duration { return m.interval }

// Register appends addr and returns its id.
// Duplicates are registered too, but logged.
func (m *ServerManager) Register(addr models.Address) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.servers = append(m.servers, addr)
	id := len(m.servers)

	key := xxhash.Sum64String(strings.ToLower(addr.Kind() + "://" + addr.String()))
	if prev, dup := m.seen[key]; dup {
		log.Warn().
			Str("address", addr.String()).
			Int("server", id).
			Int("duplicate_of", prev).
			Msg("Server registered twice")
	} else {
		m.seen[key] = id
	}

	log.Debug().
		Str("address", addr.String()).
		Str("protocol", addr.Kind()).
		Int("server", id).
		Msg("Server registered")

	return id
}

// Servers returns a copy of the registered addresses; the address of server id is at index id-1.
func (m *ServerManager) Servers() []models.Address {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]models.Address(nil), m.servers...)
}

// PingAll queries every registered server sequentially, then runs one diff pass.
// A failed query only affects its own server. It returns early, without the
// diff pass, only when ctx is done.
func (m *ServerManager) PingAll(ctx context.Context) error {
	start := time.Now()
	servers := m.Servers()

	var failed int
	for i, addr := range servers {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !m.ping(ctx, i+1, addr) {
			failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.adverts.CheckUpdates()

	log.Debug().
		Int("servers", len(servers)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Poll cycle finished")

	return nil
}

// Run polls immediately and then on every interval until ctx is done.
// Cycles never overlap; ticks missed during a slow cycle are dropped.
func (m *ServerManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	if err := m.PingAll(ctx); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.PingAll(ctx); err != nil {
				return
			}
		}
	}
}

func (m *ServerManager) ping(ctx context.Context, id int, addr models.Address) bool {
	logCtx := log.With().
		Int("server", id).
		Str("address", addr.String()).
		Str("protocol", addr.Kind()).
		Logger()

	m.adverts.MarkRefreshing(id)

	snap, err := m.querier.Query(ctx, addr)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}

		logCtx.Debug().Err(err).Msg("Server query failed")
		m.adverts.MarkError(id)
		m.global.Add(event.PingFailure(addr.Host, addr.Port))
		return false
	}

	m.adverts.Set(id, snap)
	logCtx.Trace().
		Int("online", snap.PlayersOnline).
		Int("max", snap.PlayersMax).
		Dur("latency", snap.Latency).
		Msg("Server queried")

	return true
}
