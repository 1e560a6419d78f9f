// Package query asks game servers for their status advertisement.
// Bedrock servers are pinged over RakNet, Source engine servers over A2S.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/pingboard/internal/config"
	"github.com/woozymasta/pingboard/internal/models"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a query when no positive timeout is configured.
// RakNet pings without a deadline can block forever on a silent server.
const DefaultTimeout = 3 * time.Second

// Querier fetches the current advertisement of a server.
type Querier interface {
	Query(ctx context.Context, addr models.Address) (*models.Snapshot, error)
}

// Dispatcher routes queries to the protocol implementation of each address,
// bounding every query with a timeout and spacing outgoing queries with a rate limiter.
type Dispatcher struct {
	queriers map[string]Querier
	limiter  *rate.Limiter
	timeout  time.Duration
}

// NewDispatcher creates a Dispatcher with the Bedrock and A2S implementations registered.
// Non-positive timeouts fall back to DefaultTimeout.
func NewDispatcher(opts config.Query) *Dispatcher {
	if opts.Timeout <= 0 {
		log.Warn().
			Dur("requested", opts.Timeout).
			Dur("used", DefaultTimeout).
			Msg("Query timeout must be positive, using default")
		opts.Timeout = DefaultTimeout
	}

	d := &Dispatcher{
		queriers: map[string]Querier{
			models.ProtocolBedrock: Bedrock{},
			models.ProtocolA2S:     A2S{BufferSize: opts.A2SBufferSize},
		},
		timeout: opts.Timeout,
	}

	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}

	return d
}

// Handle registers q for the protocol name, replacing any previous implementation.
func (d *Dispatcher) Handle(protocol string, q Querier) {
	d.queriers[protocol] = q
}

// Query implements Querier.
func (d *Dispatcher) Query(ctx context.Context, addr models.Address) (*models.Snapshot, error) {
	q, ok := d.queriers[addr.Kind()]
	if !ok {
		return nil, fmt.Errorf("no querier for protocol %q", addr.Kind())
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	snap, err := q.Query(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", addr.Kind(), addr, err)
	}
	if snap.Latency == 0 {
		snap.Latency = time.Since(start)
	}

	return snap, nil
}
