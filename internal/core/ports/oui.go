package ports

// OUILookup resolves a MAC address to a manufacturer string (§6). Errors are
// swallowed by implementations — an unresolved MAC yields ok=false.
type OUILookup interface {
	Query(mac string) (manufacturer string, ok bool)
}

// MulticastClassifier exposes the two multicast predicates as pure functions
// (§6 "Multicast predicates").
type MulticastClassifier interface {
	IPMulticast(addr string) bool
	MACMulticast(addr string) bool
}
