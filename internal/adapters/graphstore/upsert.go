package graphstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/telemetry"
)

const (
	maxAttempts = 4
	baseBackoff = 20 * time.Millisecond
)

// UpsertNode ensures a node exists, writing its properties only on
// creation (§4.4 "on match, do not overwrite existing properties").
func (s *Store) UpsertNode(ctx context.Context, intent domain.NodeIntent) error {
	kind := string(intent.Label)
	return s.withRetry(kind, func() error {
		switch intent.Label {
		case domain.NodeIP:
			row := ipNode{Name: intent.Name, Multicast: intent.Multicast}
			return s.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&row).Error
		case domain.NodeMAC:
			row := macNode{Name: intent.Name, Manufacturer: intent.Manufacturer, Multicast: intent.Multicast}
			return s.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&row).Error
		case domain.NodeSSID:
			row := ssidNode{Name: intent.Name}
			return s.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&row).Error
		default:
			return fmt.Errorf("%w: unknown node label %q", domain.ErrExecutorPermanent, intent.Label)
		}
	})
}

// UpsertEdge ensures an edge exists, applying §4.3's aggregate merge
// semantics for CONNECTED_IP/CONNECTED_MAC edges and a plain
// existence-upsert for everything else.
func (s *Store) UpsertEdge(ctx context.Context, intent domain.EdgeIntent) error {
	kind := string(intent.Type)
	return s.withRetry(kind, func() error {
		switch intent.Type {
		case domain.EdgeAssigned:
			row := assignedEdge{IPName: intent.Src, MACName: intent.Dst}
			return onConflictDoNothing(s.db.WithContext(ctx), &row, "ip_name", "mac_name")
		case domain.EdgeAdvertises:
			row := advertisesEdge{MACName: intent.Src, SSIDName: intent.Dst}
			return onConflictDoNothing(s.db.WithContext(ctx), &row, "mac_name", "ssid_name")
		case domain.EdgeProbes:
			row := probesEdge{MACName: intent.Src, SSIDName: intent.Dst}
			return onConflictDoNothing(s.db.WithContext(ctx), &row, "mac_name", "ssid_name")
		case domain.EdgeProbeResponse:
			row := probeResponseEdge{SrcMAC: intent.Src, DstMAC: intent.Dst}
			return onConflictDoNothing(s.db.WithContext(ctx), &row, "src_mac", "dst_mac")
		case domain.EdgeConnectedIP:
			return s.upsertConnectedIP(ctx, intent)
		case domain.EdgeConnectedMAC:
			return s.upsertConnectedMAC(ctx, intent)
		default:
			return fmt.Errorf("%w: unknown edge type %q", domain.ErrExecutorPermanent, intent.Type)
		}
	})
}

func onConflictDoNothing(tx *gorm.DB, row interface{}, keyCols ...string) error {
	cols := make([]clause.Column, len(keyCols))
	for i, c := range keyCols {
		cols[i] = clause.Column{Name: c}
	}
	return tx.Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).Create(row).Error
}

// upsertConnectedIP applies the IP CONNECTED edge's create/merge semantics
// (§3, §4.3): on creation set the initial aggregates; on match, merge with
// corrected min/max first_seen/last_seen and deepest-layer-wins service
// (§9 open question resolution — not the source's swapped condition).
func (s *Store) upsertConnectedIP(ctx context.Context, intent domain.EdgeIntent) error {
	obs := intent.Obs
	return s.db.Transaction(func(tx *gorm.DB) error {
		row := connectedIPEdge{
			SrcIP: intent.Src, DstIP: intent.Dst, Port: obs.Port, Protocol: obs.Protocol,
		}
		if intent.Fidelity == domain.Reduced {
			return onConflictDoNothing(tx.WithContext(ctx), &row, "src_ip", "dst_ip", "port", "protocol")
		}

		row.FirstSeen, row.LastSeen = obs.Timestamp, obs.Timestamp
		row.DataSize, row.Count = int64(obs.Length), 1
		row.Service, row.ServiceLayer = obs.Service, obs.ServiceLayer

		res := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "src_ip"}, {Name: "dst_ip"}, {Name: "port"}, {Name: "protocol"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil // created: initial aggregates already set
		}

		return tx.WithContext(ctx).Exec(`
			UPDATE connected_ip_edges SET
				first_seen = CASE WHEN ? < first_seen THEN ? ELSE first_seen END,
				last_seen = CASE WHEN ? > last_seen THEN ? ELSE last_seen END,
				data_size = data_size + ?,
				count = count + 1,
				service = CASE WHEN ? > service_layer THEN ? ELSE service END,
				service_layer = CASE WHEN ? > service_layer THEN ? ELSE service_layer END
			WHERE src_ip = ? AND dst_ip = ? AND port = ? AND protocol = ?`,
			obs.Timestamp, obs.Timestamp,
			obs.Timestamp, obs.Timestamp,
			obs.Length,
			obs.ServiceLayer, obs.Service,
			obs.ServiceLayer, obs.ServiceLayer,
			intent.Src, intent.Dst, obs.Port, obs.Protocol,
		).Error
	})
}

// upsertConnectedMAC is identical to upsertConnectedIP but keyed without a
// port (§3).
func (s *Store) upsertConnectedMAC(ctx context.Context, intent domain.EdgeIntent) error {
	obs := intent.Obs
	return s.db.Transaction(func(tx *gorm.DB) error {
		row := connectedMACEdge{SrcMAC: intent.Src, DstMAC: intent.Dst, Protocol: obs.Protocol}
		if intent.Fidelity == domain.Reduced {
			return onConflictDoNothing(tx.WithContext(ctx), &row, "src_mac", "dst_mac", "protocol")
		}

		row.FirstSeen, row.LastSeen = obs.Timestamp, obs.Timestamp
		row.DataSize, row.Count = int64(obs.Length), 1
		row.Service, row.ServiceLayer = obs.Service, obs.ServiceLayer

		res := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "src_mac"}, {Name: "dst_mac"}, {Name: "protocol"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		return tx.WithContext(ctx).Exec(`
			UPDATE connected_mac_edges SET
				first_seen = CASE WHEN ? < first_seen THEN ? ELSE first_seen END,
				last_seen = CASE WHEN ? > last_seen THEN ? ELSE last_seen END,
				data_size = data_size + ?,
				count = count + 1,
				service = CASE WHEN ? > service_layer THEN ? ELSE service END,
				service_layer = CASE WHEN ? > service_layer THEN ? ELSE service_layer END
			WHERE src_mac = ? AND dst_mac = ? AND protocol = ?`,
			obs.Timestamp, obs.Timestamp,
			obs.Timestamp, obs.Timestamp,
			obs.Length,
			obs.ServiceLayer, obs.Service,
			obs.ServiceLayer, obs.ServiceLayer,
			intent.Src, intent.Dst, obs.Protocol,
		).Error
	})
}

// withRetry applies §4.4's retry-with-backoff contract: transient failures
// are retried a bounded number of times; anything else (or exhaustion)
// surfaces wrapped in the permanent/transient sentinels the driver checks.
func (s *Store) withRetry(kind string, op func() error) error {
	start := time.Now()
	defer func() {
		telemetry.ExecutorDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = op()
		if err == nil {
			telemetry.UpsertsIssued.WithLabelValues(kind).Inc()
			return nil
		}
		if !isTransient(err) {
			return fmt.Errorf("%w: %v", domain.ErrExecutorPermanent, err)
		}
		telemetry.ExecutorRetries.WithLabelValues(kind).Inc()
		time.Sleep(baseBackoff * time.Duration(1<<attempt))
	}
	return fmt.Errorf("%w: exhausted %d attempts: %v", domain.ErrExecutorTransient, maxAttempts, err)
}

func isTransient(err error) bool {
	type temporary interface{ Temporary() bool }
	if t, ok := err.(temporary); ok {
		return t.Temporary()
	}
	return false
}
