// Package project implements the Graph Projector (C3): mapping one packet
// record into the minimal ordered sequence of upsert intents that reflects
// it in the graph (§4.3).
package project

import (
	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/ports"
	"github.com/arqlabs/graphcap/internal/core/services/cache"
)

// Intent is exactly one of a node or an edge upsert, preserving the fixed
// per-packet emission order spec'd in §4.3.
type Intent struct {
	Node *domain.NodeIntent
	Edge *domain.EdgeIntent
}

// Projector turns packet records into intents, consulting the recency
// cache to elide redundant mutations (§4.2) — disabling the cache must
// never change the resulting graph, only the number of emitted intents
// (§8 property 5).
type Projector struct {
	Cache     *cache.Cache
	Multicast ports.MulticastClassifier

	// Ignore reports MAC addresses that must never receive an ASSIGNED
	// edge (§4.3 step 3 "mac ∉ ignore-set"). Nil means nothing is ignored,
	// matching the original's default-empty ignore list.
	Ignore func(mac string) bool
}

// New constructs a Projector.
func New(c *cache.Cache, mc ports.MulticastClassifier) *Projector {
	return &Projector{Cache: c, Multicast: mc}
}

// Project returns the ordered intents for rec under the given fidelity.
func (p *Projector) Project(rec domain.PacketRecord, fidelity domain.Fidelity) []Intent {
	var out []Intent

	out = append(out, p.projectIPNodes(rec)...)
	out = append(out, p.projectMACNodes(rec)...)
	out = append(out, p.projectAssignments(rec)...)
	out = append(out, p.projectConnections(rec, fidelity)...)
	out = append(out, p.projectSSID(rec)...)

	return out
}

func (p *Projector) projectIPNodes(rec domain.PacketRecord) []Intent {
	var out []Intent
	for _, ip := range []*string{rec.IP.Src, rec.IP.Dst} {
		if ip == nil {
			continue
		}
		if p.Cache.CheckAndAdmit(cache.KindIP, *ip) {
			continue
		}
		out = append(out, Intent{Node: &domain.NodeIntent{
			Label:     domain.NodeIP,
			Name:      *ip,
			Multicast: p.ipMulticast(*ip),
		}})
	}
	return out
}

func (p *Projector) projectMACNodes(rec domain.PacketRecord) []Intent {
	var out []Intent
	for _, mac := range []*string{rec.MAC.Src, rec.MAC.Dst, rec.MAC.Tra, rec.MAC.Rec} {
		if mac == nil {
			continue
		}
		if p.Cache.CheckAndAdmit(cache.KindMAC, *mac) {
			continue
		}
		var manufacturer *string
		if vendor, ok := rec.OUI[*mac]; ok && vendor != "" {
			v := vendor
			manufacturer = &v
		}
		out = append(out, Intent{Node: &domain.NodeIntent{
			Label:        domain.NodeMAC,
			Name:         *mac,
			Manufacturer: manufacturer,
			Multicast:    p.macMulticast(*mac),
		}})
	}
	return out
}

func (p *Projector) projectAssignments(rec domain.PacketRecord) []Intent {
	var out []Intent
	pairs := []struct{ ip, mac *string }{
		{rec.IP.Src, rec.MAC.Src},
		{rec.IP.Dst, rec.MAC.Dst},
	}
	for _, pair := range pairs {
		if pair.ip == nil || pair.mac == nil {
			continue
		}
		if p.Ignore != nil && p.Ignore(*pair.mac) {
			continue
		}
		if p.Cache.CheckAndAdmit(cache.KindAssign, cache.PairKey(*pair.ip, *pair.mac)) {
			continue
		}
		out = append(out, Intent{Edge: &domain.EdgeIntent{
			Type: domain.EdgeAssigned,
			Src:  *pair.ip,
			Dst:  *pair.mac,
		}})
	}
	return out
}

func (p *Projector) projectConnections(rec domain.PacketRecord, fidelity domain.Fidelity) []Intent {
	var out []Intent

	obs := &domain.ConnectionObservation{
		Protocol:     rec.Protocol,
		Port:         rec.Ports.Dst,
		Timestamp:    rec.Timestamp,
		Length:       rec.Length,
		Service:      rec.Service,
		ServiceLayer: rec.ServiceLayer,
	}

	switch {
	case rec.IP.Src != nil && rec.IP.Dst != nil:
		out = append(out, Intent{Edge: &domain.EdgeIntent{
			Type: domain.EdgeConnectedIP, Src: *rec.IP.Src, Dst: *rec.IP.Dst,
			Obs: obs, Fidelity: fidelity,
		}})
	case rec.MAC.Src != nil && rec.MAC.Dst != nil:
		isProbeResponse := rec.FrameType == domain.FrameProbeResponse
		isRelaySplit := rec.MAC.Tra != nil && rec.MAC.Rec != nil

		if isProbeResponse {
			out = append(out, Intent{Edge: &domain.EdgeIntent{
				Type: domain.EdgeProbeResponse, Src: *rec.MAC.Src, Dst: *rec.MAC.Dst,
			}})
		}

		switch {
		case isRelaySplit:
			// 802.11 forwarding split: the frame took two genuine hops
			// through an AP (ta/ra differ from sa/da), so the graph gets
			// sender->transmitter and receiver->destination edges instead
			// of a direct sender->destination edge it never actually took
			// (§4.3 step 4). Independent of the probe_response check above:
			// a probe response relayed through an AP carries both edges.
			macObs := *obs
			macObs.Port = -1
			out = append(out,
				Intent{Edge: &domain.EdgeIntent{
					Type: domain.EdgeConnectedMAC, Src: *rec.MAC.Src, Dst: *rec.MAC.Tra,
					Obs: &macObs, Fidelity: fidelity,
				}},
				Intent{Edge: &domain.EdgeIntent{
					Type: domain.EdgeConnectedMAC, Src: *rec.MAC.Rec, Dst: *rec.MAC.Dst,
					Obs: &macObs, Fidelity: fidelity,
				}},
			)
		case !isProbeResponse:
			macObs := *obs
			macObs.Port = -1
			out = append(out, Intent{Edge: &domain.EdgeIntent{
				Type: domain.EdgeConnectedMAC, Src: *rec.MAC.Src, Dst: *rec.MAC.Dst,
				Obs: &macObs, Fidelity: fidelity,
			}})
		}
	}

	return out
}

func (p *Projector) projectSSID(rec domain.PacketRecord) []Intent {
	var out []Intent
	if rec.SSID == nil {
		return out
	}

	if !p.Cache.CheckAndAdmit(cache.KindSSID, *rec.SSID) {
		out = append(out, Intent{Node: &domain.NodeIntent{Label: domain.NodeSSID, Name: *rec.SSID}})
	}

	if rec.MAC.Src == nil {
		return out
	}

	var edgeType domain.EdgeType
	var kind cache.Kind
	switch rec.FrameType {
	case domain.FrameBeacon:
		edgeType, kind = domain.EdgeAdvertises, cache.KindAdvertises
	case domain.FrameProbe:
		edgeType, kind = domain.EdgeProbes, cache.KindProbes
	default:
		return out // probe_response: skip (§4.3 step 5)
	}

	if p.Cache.CheckAndAdmit(kind, cache.PairKey(*rec.MAC.Src, *rec.SSID)) {
		return out
	}
	out = append(out, Intent{Edge: &domain.EdgeIntent{Type: edgeType, Src: *rec.MAC.Src, Dst: *rec.SSID}})
	return out
}

func (p *Projector) ipMulticast(addr string) bool {
	if p.Multicast == nil {
		return false
	}
	return p.Multicast.IPMulticast(addr)
}

func (p *Projector) macMulticast(addr string) bool {
	if p.Multicast == nil {
		return false
	}
	return p.Multicast.MACMulticast(addr)
}
