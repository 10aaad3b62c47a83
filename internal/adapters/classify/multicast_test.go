package classify

import "testing"

func TestMulticast_IPMulticast(t *testing.T) {
	m := Multicast{}

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"ipv4 unicast", "10.0.0.1", false},
		{"ipv4 multicast", "239.1.2.3", true},
		{"ipv6 unicast", "::1", false},
		{"ipv6 multicast", "ff02::1", true},
		{"invalid", "not-an-ip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IPMulticast(tt.addr); got != tt.want {
				t.Errorf("IPMulticast(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestMulticast_MACMulticast(t *testing.T) {
	m := Multicast{}

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"unicast", "aa:bb:cc:dd:ee:ff", false},
		{"multicast", "01:00:5e:00:00:01", true},
		{"invalid", "not-a-mac", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MACMulticast(tt.addr); got != tt.want {
				t.Errorf("MACMulticast(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
