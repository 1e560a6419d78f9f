package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/pingboard/internal/config"
	"github.com/woozymasta/pingboard/internal/models"
)

type stubQuerier struct {
	snap     *models.Snapshot
	err      error
	deadline bool
	calls    int
}

func (s *stubQuerier) Query(ctx context.Context, _ models.Address) (*models.Snapshot, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.snap
	return &cp, nil
}

func TestParsePong(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *models.Snapshot
		wantErr bool
	}{
		{
			name:  "full advertisement",
			input: "MCPE;Dedicated Server;766;1.21.50;3;10;13253860892328930865;Bedrock level;Survival;1;19132;19133;",
			want: &models.Snapshot{
				MOTD:          "Dedicated Server",
				Version:       "1.21.50",
				LevelName:     "Bedrock level",
				GameMode:      "Survival",
				Protocol:      766,
				PlayersOnline: 3,
				PlayersMax:    10,
			},
		},
		{
			name:  "minimal advertisement",
			input: "MCPE;Lobby;x;1.20.0;0;50",
			want: &models.Snapshot{
				MOTD:       "Lobby",
				Version:    "1.20.0",
				PlayersMax: 50,
			},
		},
		{
			name:    "too few fields",
			input:   "MCPE;Lobby;766",
			wantErr: true,
		},
		{
			name:    "bad online count",
			input:   "MCPE;Lobby;766;1.21.50;many;10",
			wantErr: true,
		},
		{
			name:    "bad max count",
			input:   "MCPE;Lobby;766;1.21.50;1;lots",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePong([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcherRoutesByProtocol(t *testing.T) {
	d := NewDispatcher(config.Query{Timeout: time.Second})

	bedrock := &stubQuerier{snap: &models.Snapshot{MOTD: "bedrock"}}
	source := &stubQuerier{snap: &models.Snapshot{MOTD: "source"}}
	d.Handle(models.ProtocolBedrock, bedrock)
	d.Handle(models.ProtocolA2S, source)

	snap, err := d.Query(context.Background(), models.Address{Host: "127.0.0.1", Port: 19132})
	require.NoError(t, err)
	assert.Equal(t, "bedrock", snap.MOTD)
	assert.True(t, bedrock.deadline, "timeout is applied")
	assert.Greater(t, int64(snap.Latency), int64(0))

	snap, err = d.Query(context.Background(), models.Address{Host: "127.0.0.1", Port: 27016, Protocol: models.ProtocolA2S})
	require.NoError(t, err)
	assert.Equal(t, "source", snap.MOTD)

	assert.Equal(t, 1, bedrock.calls)
	assert.Equal(t, 1, source.calls)
}

func TestDispatcherZeroTimeoutKeepsDeadline(t *testing.T) {
	d := NewDispatcher(config.Query{})
	stub := &stubQuerier{snap: &models.Snapshot{}}
	d.Handle(models.ProtocolBedrock, stub)

	_, err := d.Query(context.Background(), models.Address{Host: "127.0.0.1", Port: 19132})
	require.NoError(t, err)
	assert.True(t, stub.deadline)
}

func TestDispatcherUnknownProtocol(t *testing.T) {
	d := NewDispatcher(config.Query{})

	_, err := d.Query(context.Background(), models.Address{Host: "h", Port: 1, Protocol: "gopher"})
	assert.ErrorContains(t, err, "no querier")
}

func TestDispatcherWrapsErrors(t *testing.T) {
	d := NewDispatcher(config.Query{})
	cause := errors.New("i/o timeout")
	d.Handle(models.ProtocolBedrock, &stubQuerier{err: cause})

	_, err := d.Query(context.Background(), models.Address{Host: "10.0.0.1", Port: 19132})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "10.0.0.1:19132")
}

func TestDispatcherRateLimitHonorsContext(t *testing.T) {
	d := NewDispatcher(config.Query{Rate: 0.001, Burst: 1})
	stub := &stubQuerier{snap: &models.Snapshot{}}
	d.Handle(models.ProtocolBedrock, stub)
	addr := models.Address{Host: "127.0.0.1", Port: 19132}

	_, err := d.Query(context.Background(), addr)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = d.Query(ctx, addr)
	assert.ErrorContains(t, err, "rate limit")
	assert.Equal(t, 1, stub.calls)
}
