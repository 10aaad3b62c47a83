// Package classify implements the multicast predicates (§6) the core
// treats as external, pure collaborators.
package classify

import (
	"net"

	"github.com/arqlabs/graphcap/internal/adapters/fingerprint"
)

// Multicast implements ports.MulticastClassifier.
type Multicast struct{}

// IPMulticast reports whether addr (IPv4 or IPv6 textual form) is a
// multicast address, per standard IP addressing rules. No repo in the
// reference pack offers a reusable IP-multicast classifier, so this one
// predicate uses net.IP directly (see DESIGN.md).
func (Multicast) IPMulticast(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	return ip.IsMulticast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast()
}

// MACMulticast reports whether addr is a multicast MAC address (LSB of the
// first octet set), reusing fingerprint.MACAddress.IsMulticast exactly.
func (Multicast) MACMulticast(addr string) bool {
	mac, err := fingerprint.ParseMAC(addr)
	if err != nil {
		return false
	}
	return mac.IsMulticast()
}
