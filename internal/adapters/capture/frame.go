// Package capture implements the gopacket-backed ports.Frame and the file
// and live capture sources the pipeline driver iterates over.
package capture

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Frame adapts one decoded gopacket.Packet to ports.Frame.
type Frame struct {
	packet gopacket.Packet
}

// NewFrame wraps a decoded packet.
func NewFrame(p gopacket.Packet) Frame {
	return Frame{packet: p}
}

func (f Frame) Timestamp() float64 {
	md := f.packet.Metadata()
	if md == nil {
		return 0
	}
	return float64(md.Timestamp.UnixNano()) / 1e9
}

func (f Frame) Length() int {
	md := f.packet.Metadata()
	if md == nil {
		return len(f.packet.Data())
	}
	return md.CaptureLength
}

// LayerNames returns the decoded layer stack outermost-to-innermost, named
// the way the original's pyshark-derived logic names them (lowercase
// protocol mnemonics) so protocol/service resolution needs no translation
// table.
func (f Frame) LayerNames() []string {
	var names []string
	for _, l := range f.packet.Layers() {
		names = append(names, layerName(l))
	}
	return names
}

func layerName(l gopacket.Layer) string {
	switch l.(type) {
	case *layers.Ethernet:
		return "eth"
	case *layers.Dot11:
		return "wlan"
	case *layers.Dot11MgmtBeacon, *layers.Dot11MgmtProbeReq, *layers.Dot11MgmtProbeResp:
		return "wlan.mgt"
	case *layers.RadioTap:
		return "radiotap"
	case *layers.IPv4:
		return "ip"
	case *layers.IPv6:
		return "ipv6"
	case *layers.TCP:
		return "tcp"
	case *layers.UDP:
		return "udp"
	case *gopacket.Payload:
		return "data"
	default:
		return l.LayerType().String()
	}
}

func (f Frame) Ethernet() (string, string, bool) {
	eth, ok := f.packet.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		return "", "", false
	}
	return eth.SrcMAC.String(), eth.DstMAC.String(), true
}

// Dot11 derives sa/da/ta/ra the way tshark's wlan.sa/da/ta/ra fields do:
// ta is always Address2 and ra is always Address1, while sa/da depend on
// the ToDS/FromDS flags (802.11 address-field table). With neither flag
// set, ta==sa and ra==da; with exactly one set, only the AP side of the
// pair differs (ra!=da for ToDS, ta!=sa for FromDS). Only WDS frames (both
// flags) have both differ, so they are the only frames the extractor's
// "suppress when equal" rule leaves with a full transmitter/receiver split.
func (f Frame) Dot11() (sa, da, ta, ra string, ok bool) {
	d, k := f.packet.Layer(layers.LayerTypeDot11).(*layers.Dot11)
	if !k {
		return "", "", "", "", false
	}

	ta = d.Address2.String()
	ra = d.Address1.String()

	switch {
	case !d.Flags.ToDS() && !d.Flags.FromDS():
		da, sa = d.Address1.String(), d.Address2.String()
	case d.Flags.ToDS() && !d.Flags.FromDS():
		da, sa = d.Address3.String(), d.Address2.String()
	case !d.Flags.ToDS() && d.Flags.FromDS():
		da, sa = d.Address1.String(), d.Address3.String()
	default: // WDS
		da, sa = d.Address3.String(), d.Address4.String()
	}

	return sa, da, ta, ra, true
}

// Dot11FrameControlSubtype returns the management frame's fc_type_subtype
// value the way pyshark reports it. gopacket's Dot11.Type packs the frame
// control type and subtype into one byte as subtype<<2|type, so it must be
// shifted down to recover the bare subtype (4 for probe request, 5 for
// probe response, 8 for beacon).
func (f Frame) Dot11FrameControlSubtype() (uint8, bool) {
	d, ok := f.packet.Layer(layers.LayerTypeDot11).(*layers.Dot11)
	if !ok {
		return 0, false
	}
	return uint8(d.Type) >> 2, true
}

// SSID returns the SSID information element's text for management frames
// (beacon/probe request/probe response), already stripped of its
// length-prefix framing since gopacket decodes the IE directly (§9 "SSID
// byte window" — no manual byte-window slicing is needed, gopacket already
// performs it).
func (f Frame) SSID() (string, bool) {
	for _, l := range f.packet.Layers() {
		mgmt, ok := l.(*layers.Dot11InformationElement)
		if !ok {
			continue
		}
		if mgmt.ID == layers.Dot11InformationElementIDSSID {
			return string(mgmt.Info), true
		}
	}
	return "", false
}

func (f Frame) IPv4() (string, string, bool) {
	ip, ok := f.packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	if !ok {
		return "", "", false
	}
	return ip.SrcIP.String(), ip.DstIP.String(), true
}

func (f Frame) IPv6() (string, string, bool) {
	ip, ok := f.packet.Layer(layers.LayerTypeIPv6).(*layers.IPv6)
	if !ok {
		return "", "", false
	}
	return ip.SrcIP.String(), ip.DstIP.String(), true
}

func (f Frame) TCP() (int, int, bool) {
	tcp, ok := f.packet.Layer(layers.LayerTypeTCP).(*layers.TCP)
	if !ok {
		return 0, 0, false
	}
	return int(tcp.SrcPort), int(tcp.DstPort), true
}

func (f Frame) UDP() (int, int, bool) {
	udp, ok := f.packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok {
		return 0, 0, false
	}
	return int(udp.SrcPort), int(udp.DstPort), true
}
