package graphstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arqlabs/graphcap/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("test_graph_%d.db", os.Getpid())
	os.Remove(path)
	t.Cleanup(func() { os.Remove(path) })

	s, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_S2_ConnectedIPAggregatesAcrossObservations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	obs := func(ts float64, length int) domain.EdgeIntent {
		return domain.EdgeIntent{
			Type: domain.EdgeConnectedIP, Src: "10.0.0.1", Dst: "10.0.0.2",
			Fidelity: domain.Full,
			Obs: &domain.ConnectionObservation{
				Protocol: "tcp", Port: 80, Timestamp: ts, Length: length,
				Service: "http", ServiceLayer: 999,
			},
		}
	}

	require.NoError(t, s.UpsertEdge(ctx, obs(100.0, 60)))
	require.NoError(t, s.UpsertEdge(ctx, obs(100.5, 40)))
	require.NoError(t, s.UpsertEdge(ctx, obs(101.0, 80)))

	var row connectedIPEdge
	require.NoError(t, s.db.Where("src_ip = ? AND dst_ip = ? AND port = ? AND protocol = ?",
		"10.0.0.1", "10.0.0.2", 80, "tcp").First(&row).Error)

	require.Equal(t, int64(3), row.Count)
	require.Equal(t, int64(180), row.DataSize)
	require.Equal(t, 100.0, row.FirstSeen)
	require.Equal(t, 101.0, row.LastSeen)
}

func TestStore_ReducedModeOmitsAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	intent := domain.EdgeIntent{
		Type: domain.EdgeConnectedIP, Src: "10.0.0.1", Dst: "10.0.0.2",
		Fidelity: domain.Reduced,
		Obs: &domain.ConnectionObservation{
			Protocol: "tcp", Port: 80, Timestamp: 100.0, Length: 60,
		},
	}
	require.NoError(t, s.UpsertEdge(ctx, intent))
	require.NoError(t, s.UpsertEdge(ctx, intent))

	var row connectedIPEdge
	require.NoError(t, s.db.Where("src_ip = ? AND dst_ip = ? AND port = ? AND protocol = ?",
		"10.0.0.1", "10.0.0.2", 80, "tcp").First(&row).Error)

	require.Equal(t, int64(0), row.Count)
	require.Equal(t, int64(0), row.DataSize)
}

func TestStore_UpsertNode_DoesNotOverwriteOnMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vendor := "Acme"
	require.NoError(t, s.UpsertNode(ctx, domain.NodeIntent{Label: domain.NodeMAC, Name: "aa:bb", Manufacturer: &vendor, Multicast: false}))
	require.NoError(t, s.UpsertNode(ctx, domain.NodeIntent{Label: domain.NodeMAC, Name: "aa:bb", Manufacturer: nil, Multicast: true}))

	var row macNode
	require.NoError(t, s.db.Where("name = ?", "aa:bb").First(&row).Error)
	require.NotNil(t, row.Manufacturer)
	require.Equal(t, "Acme", *row.Manufacturer)
	require.False(t, row.Multicast, "properties must be write-once on creation")
}

func TestStore_Replay_NodesIdempotentEdgeAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	edge := domain.EdgeIntent{
		Type: domain.EdgeConnectedIP, Src: "10.0.0.1", Dst: "10.0.0.2",
		Fidelity: domain.Full,
		Obs: &domain.ConnectionObservation{
			Protocol: "tcp", Port: 80, Timestamp: 100.0, Length: 60, Service: "http", ServiceLayer: 999,
		},
	}

	for i := 0; i < 2; i++ {
		require.NoError(t, s.UpsertNode(ctx, domain.NodeIntent{Label: domain.NodeIP, Name: "10.0.0.1"}))
		require.NoError(t, s.UpsertNode(ctx, domain.NodeIntent{Label: domain.NodeIP, Name: "10.0.0.2"}))
		require.NoError(t, s.UpsertEdge(ctx, edge))
	}

	var count int64
	require.NoError(t, s.db.Model(&ipNode{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	var row connectedIPEdge
	require.NoError(t, s.db.Where("src_ip = ? AND dst_ip = ?", "10.0.0.1", "10.0.0.2").First(&row).Error)
	require.Equal(t, int64(2), row.Count, "two passes with the same edge must still aggregate, not duplicate rows")
}
