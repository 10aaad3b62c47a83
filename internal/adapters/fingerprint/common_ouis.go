package fingerprint

// CommonOUIs is a small built-in fallback vendor prefix map, used when no
// OUI database file is configured or the database lookup misses. Not meant
// to be exhaustive — just enough to resolve common lab/test hardware without
// requiring a database.
var CommonOUIs = map[string]string{
	"00:00:0C": "Cisco Systems",
	"00:1A:11": "Google",
	"3C:5A:B4": "Google",
	"F4:F5:D8": "Google",
	"00:17:88": "Philips Lighting",
	"B8:27:EB": "Raspberry Pi Foundation",
	"DC:A6:32": "Raspberry Pi Foundation",
	"E4:5F:01": "Raspberry Pi Foundation",
	"00:50:56": "VMware",
	"00:0C:29": "VMware",
	"00:1C:42": "Parallels",
	"08:00:27": "PCS Systemtechnik (VirtualBox)",
	"AC:DE:48": "Apple",
	"F0:18:98": "Apple",
	"00:1E:C2": "Apple",
	"3C:06:30": "Apple",
	"00:25:00": "Apple",
	"00:23:DF": "Apple",
	"B4:F0:AB": "Samsung Electronics",
	"5C:0A:5B": "Samsung Electronics",
	"E8:50:8B": "Tp-Link Technologies",
	"50:C7:BF": "Tp-Link Technologies",
	"EC:08:6B": "Tp-Link Technologies",
	"00:14:6C": "Netgear",
	"20:E5:2A": "Netgear",
	"00:1D:7E": "Cisco-Linksys",
	"C0:56:27": "D-Link",
	"00:26:5A": "D-Link",
	"FC:FC:48": "Xiaomi",
	"28:6C:07": "Xiaomi",
}
