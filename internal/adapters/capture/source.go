package capture

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/ports"
)

// Source is the capture iterator the pipeline driver (C5) consumes. It
// yields decoded frames in capture order; Next returns ok=false once the
// source is exhausted (file mode) or ctx-equivalent cancellation occurs.
type Source interface {
	// Next returns the next frame, or ok=false when the source is
	// exhausted. err is non-nil only on a genuine read failure, distinct
	// from normal end-of-capture.
	Next() (frame ports.Frame, ok bool, err error)
	// Live reports whether this source is a live interface, which forces
	// reduced fidelity (§4.5).
	Live() bool
	Close()
}

// FileSource reads frames from a stored capture file via pcap.OpenOffline.
type FileSource struct {
	handle *pcap.Handle
	src    *gopacket.PacketSource
}

// OpenFile opens path for offline reading.
func OpenFile(path string) (*FileSource, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open file %q: %w", path, err)
	}
	return &FileSource{
		handle: handle,
		src:    gopacket.NewPacketSource(handle, handle.LinkType()),
	}, nil
}

// CountFile performs the optional pre-pass counting frames for progress
// estimation (§4.5). It reopens the file so the caller's iteration is
// unaffected.
func CountFile(path string) (int, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return 0, fmt.Errorf("capture: open file %q: %w", path, err)
	}
	defer handle.Close()

	src := gopacket.NewPacketSource(handle, handle.LinkType())
	n := 0
	for range src.Packets() {
		n++
	}
	return n, nil
}

func (s *FileSource) Next() (ports.Frame, bool, error) {
	packet, err := s.src.NextPacket()
	if err != nil {
		if err == pcap.NextErrorTimeoutExpired {
			return nil, false, nil
		}
		if err.Error() == "EOF" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUnsupportedLinkType, err)
	}
	return NewFrame(packet), true, nil
}

func (s *FileSource) Live() bool { return false }

func (s *FileSource) Close() { s.handle.Close() }

// LiveSource reads frames from a live interface in monitor/promiscuous
// mode via pcap.OpenLive. The pipeline driver always forces reduced
// fidelity for a Live() source (§4.5).
type LiveSource struct {
	handle *pcap.Handle
	src    *gopacket.PacketSource
}

// OpenLive opens iface for live capture. snaplen/promisc/timeout mirror
// pcap.OpenLive's standard knobs.
func OpenLive(iface string, snaplen int32, promisc bool, timeout time.Duration) (*LiveSource, error) {
	if snaplen <= 0 {
		snaplen = 65535
	}
	if timeout <= 0 {
		timeout = pcap.BlockForever
	}
	handle, err := pcap.OpenLive(iface, snaplen, promisc, timeout)
	if err != nil {
		return nil, fmt.Errorf("capture: open interface %q: %w", iface, err)
	}
	return &LiveSource{
		handle: handle,
		src:    gopacket.NewPacketSource(handle, handle.LinkType()),
	}, nil
}

func (s *LiveSource) Next() (ports.Frame, bool, error) {
	packet, err := s.src.NextPacket()
	if err != nil {
		if err == pcap.NextErrorTimeoutExpired {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUnsupportedLinkType, err)
	}
	return NewFrame(packet), true, nil
}

func (s *LiveSource) Live() bool { return true }

func (s *LiveSource) Close() { s.handle.Close() }
