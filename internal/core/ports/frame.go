package ports

// Frame is the boundary the frame extractor (C1) consumes. It models the
// layered, attribute-style field access pyshark gives the original
// implementation (§9 "dynamic frame introspection") as a small set of typed
// accessors instead of a tagged union, since gopacket already hands back
// concrete layer types.
//
// Every accessor's second return value reports presence; absent layers are
// not errors (§4.1).
type Frame interface {
	Timestamp() float64
	Length() int

	// LayerNames returns the decoded layer stack outermost-to-innermost,
	// e.g. ["eth", "ip", "tcp", "http"]. Used for protocol/service
	// resolution exactly as the original walks packet.layers.
	LayerNames() []string

	Ethernet() (src, dst string, ok bool)

	// Dot11 returns the 802.11 source/destination/transmitter/receiver
	// addresses (sa/da/ta/ra). ok is false when no Dot11 layer is present.
	Dot11() (sa, da, ta, ra string, ok bool)

	// Dot11FrameControlSubtype returns the management frame's
	// fc_type_subtype value, used to derive FrameType (§3).
	Dot11FrameControlSubtype() (subtype uint8, ok bool)

	// SSID returns the SSID information element's text, already stripped
	// of its length-prefix/trailing-delimiter framing (§4.1, §9 "SSID byte
	// window") — ok is false when no management SSID tag is present.
	SSID() (ssid string, ok bool)

	IPv4() (src, dst string, ok bool)
	IPv6() (src, dst string, ok bool)
	TCP() (sport, dport int, ok bool)
	UDP() (sport, dport int, ok bool)
}
