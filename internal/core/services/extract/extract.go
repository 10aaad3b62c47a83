// Package extract implements the Frame Extractor (C1): decoding one opaque
// frame into the normalized Packet Record (§3, §4.1). It never fails on
// missing layers — absence is data, not error.
package extract

import (
	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/ports"
	"github.com/arqlabs/graphcap/internal/core/services/cache"
)

// serviceIgnore layers are a layer lower than the application protocol we
// actually care about and are skipped when resolving the dominant service
// (§3, §9 "service-layer ordinal").
var serviceIgnore = map[string]bool{
	"data-text-lines": true,
	"data":            true,
	"mime_multipart":  true,
}

var servicePriority = []string{"http", "https", "ftp"}

// Extractor turns frames into packet records. The OUI lookup is a shared,
// thread-safe external collaborator (§5); Cache, when set, gates the OUI
// lookup so a MAC seen recently is not re-resolved (§9 "is_cached").
// Extractor itself holds no per-packet state and is safe to reuse across
// one pipeline's packets.
type Extractor struct {
	OUI   ports.OUILookup
	Cache *cache.Cache
}

// New constructs an Extractor. Cache may be nil, in which case every
// present MAC is resolved against OUI unconditionally.
func New(oui ports.OUILookup, c *cache.Cache) *Extractor {
	return &Extractor{OUI: oui, Cache: c}
}

// Extract decodes f into a PacketRecord.
func (e *Extractor) Extract(f ports.Frame) domain.PacketRecord {
	rec := domain.PacketRecord{
		Timestamp: f.Timestamp(),
		Length:    f.Length(),
		OUI:       make(map[string]string),
	}

	layers := f.LayerNames()
	rec.Protocol = resolveProtocol(layers)
	rec.Service, rec.ServiceLayer = resolveService(layers)

	e.extractMACs(f, &rec)
	e.extractIPs(f, &rec)
	e.extractPorts(f, &rec)
	e.extractSSIDAndFrameType(f, &rec)

	return rec
}

func (e *Extractor) extractMACs(f ports.Frame, rec *domain.PacketRecord) {
	var ethSrc, ethDst string
	ethOK := false
	if s, d, ok := f.Ethernet(); ok {
		ethSrc, ethDst, ethOK = s, d, true
	}

	// 802.11 overrides Ethernet MACs when both are present (§4.1).
	if sa, da, ta, ra, ok := f.Dot11(); ok {
		rec.MAC.Src = strPtr(sa)
		rec.MAC.Dst = strPtr(da)
		if ta != sa {
			rec.MAC.Tra = strPtr(ta)
		}
		if ra != da {
			rec.MAC.Rec = strPtr(ra)
		}
	} else if ethOK {
		rec.MAC.Src = strPtr(ethSrc)
		rec.MAC.Dst = strPtr(ethDst)
	}

	for _, mac := range []*string{rec.MAC.Src, rec.MAC.Dst, rec.MAC.Tra, rec.MAC.Rec} {
		if mac == nil {
			continue
		}
		e.resolveOUI(*mac, rec)
	}
}

func (e *Extractor) resolveOUI(mac string, rec *domain.PacketRecord) {
	if _, already := rec.OUI[mac]; already {
		return
	}
	if e.Cache != nil && e.Cache.Check(cache.KindMAC, mac) {
		// Recently admitted: assume already resolved, skip the expensive
		// lookup (§9 "is_cached" gate).
		return
	}
	if e.OUI == nil {
		return
	}
	if vendor, ok := e.OUI.Query(mac); ok {
		rec.OUI[mac] = vendor
	}
}

func (e *Extractor) extractIPs(f ports.Frame, rec *domain.PacketRecord) {
	if s, d, ok := f.IPv4(); ok {
		rec.IP.Src = strPtr(s)
		rec.IP.Dst = strPtr(d)
		return
	}
	if s, d, ok := f.IPv6(); ok {
		rec.IP.Src = strPtr(s)
		rec.IP.Dst = strPtr(d)
	}
}

func (e *Extractor) extractPorts(f ports.Frame, rec *domain.PacketRecord) {
	rec.Ports.Dst = -1
	if sp, dp, ok := f.TCP(); ok {
		rec.Ports.Src = intPtr(sp)
		rec.Ports.Dst = dp
		return
	}
	if sp, dp, ok := f.UDP(); ok {
		rec.Ports.Src = intPtr(sp)
		rec.Ports.Dst = dp
	}
}

func (e *Extractor) extractSSIDAndFrameType(f ports.Frame, rec *domain.PacketRecord) {
	if subtype, ok := f.Dot11FrameControlSubtype(); ok {
		switch subtype {
		case 0x0004:
			rec.FrameType = domain.FrameProbe
		case 0x0005:
			rec.FrameType = domain.FrameProbeResponse
		default:
			rec.FrameType = domain.FrameBeacon
		}
	}

	ssid, ok := f.SSID()
	if !ok || ssid == "" || ssid == "SSID" {
		return
	}
	rec.SSID = strPtr(ssid)
}

func resolveProtocol(layers []string) string {
	for _, l := range layers {
		if l == "udp" || l == "tcp" {
			return l
		}
	}

	idx := indexOf(layers, "ip")
	if idx < 0 {
		idx = indexOf(layers, "ipv6")
	}
	if idx >= 0 && idx+1 < len(layers) {
		return layers[idx+1]
	}
	if len(layers) > 1 {
		return layers[1]
	}
	if len(layers) == 1 {
		return layers[0]
	}
	return "unknown"
}

func resolveService(layers []string) (string, int) {
	for _, service := range servicePriority {
		if indexOf(layers, service) >= 0 {
			return service, 999
		}
	}

	n := len(layers)
	for i := n - 1; i >= 0; i-- {
		if !serviceIgnore[layers[i]] {
			return layers[i], i
		}
	}
	return "unknown", -n
}

func indexOf(ss []string, v string) int {
	for i, s := range ss {
		if s == v {
			return i
		}
	}
	return -1
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
