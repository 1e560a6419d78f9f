package query

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/woozymasta/a2s/pkg/a2s"
	"github.com/woozymasta/pingboard/internal/models"
)

// A2S queries Source engine servers with an A2S_INFO request.
type A2S struct {
	BufferSize uint16
}

// Query implements Querier.
// The UDP client has no context support, so the context deadline becomes the client timeout.
func (q A2S) Query(ctx context.Context, addr models.Address) (*models.Snapshot, error) {
	ip, err := resolveIPv4(ctx, addr.Host)
	if err != nil {
		return nil, err
	}

	client, err := a2s.New(ip, addr.Port)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	if q.BufferSize > 0 {
		client.BufferSize = q.BufferSize
	}
	if deadline, ok := ctx.Deadline(); ok {
		client.Timeout = time.Until(deadline)
	}

	info, err := client.GetInfo()
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{
		MOTD:          info.Name,
		Version:       info.Version,
		LevelName:     info.Map,
		GameMode:      info.Game,
		PlayersOnline: int(info.Players),
		PlayersMax:    int(info.MaxPlayers),
	}, nil
}

func resolveIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("no IPv4 address for %s", host)
	}

	return ips[0].String(), nil
}
