package fingerprint

import "context"

// VendorLookup adapts a VendorRepository to the core's ports.OUILookup
// contract (Query(mac string) (vendor string, ok bool)), the shape the
// frame extractor's OUI gate expects (§4.1, §9 "is_cached").
type VendorLookup struct {
	Repo VendorRepository
}

// NewVendorLookup wraps repo, falling back to CommonOUIs when repo is nil.
func NewVendorLookup(repo VendorRepository) *VendorLookup {
	if repo == nil {
		repo = NewStaticVendorRepository(CommonOUIs)
	}
	return &VendorLookup{Repo: repo}
}

// Query implements ports.OUILookup.
func (v *VendorLookup) Query(mac string) (string, bool) {
	addr, err := ParseMAC(mac)
	if err != nil {
		return "", false
	}
	vendor, err := v.Repo.LookupVendor(context.Background(), addr)
	if err != nil || vendor == "" || vendor == "Unknown" {
		return "", false
	}
	return vendor, true
}
