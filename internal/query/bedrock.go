package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandertv/go-raknet"
	"github.com/woozymasta/pingboard/internal/models"
)

// Bedrock queries Minecraft Bedrock Edition servers with a RakNet unconnected ping.
type Bedrock struct{}

// Query implements Querier.
func (Bedrock) Query(ctx context.Context, addr models.Address) (*models.Snapshot, error) {
	pong, err := raknet.PingContext(ctx, addr.String())
	if err != nil {
		return nil, err
	}

	return ParsePong(pong)
}

// ParsePong decodes the semicolon separated advertisement carried by a RakNet unconnected pong:
//
//	MCPE;<motd>;<protocol>;<version>;<online>;<max>;<guid>;<level>;<gamemode>;...
func ParsePong(data []byte) (*models.Snapshot, error) {
	fields := strings.Split(string(data), ";")
	if len(fields) < 6 {
		return nil, fmt.Errorf("malformed pong: %d fields", len(fields))
	}

	online, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("malformed online players %q: %w", fields[4], err)
	}
	maxPlayers, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("malformed max players %q: %w", fields[5], err)
	}

	snap := &models.Snapshot{
		MOTD:          fields[1],
		Version:       fields[3],
		PlayersOnline: online,
		PlayersMax:    maxPlayers,
	}

	// protocol is informational, some proxies send garbage
	if p, err := strconv.Atoi(fields[2]); err == nil {
		snap.Protocol = p
	}
	if len(fields) > 7 {
		snap.LevelName = fields[7]
	}
	if len(fields) > 8 {
		snap.GameMode = fields[8]
	}

	return snap, nil
}
