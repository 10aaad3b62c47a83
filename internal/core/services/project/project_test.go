package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/services/cache"
)

func strp(s string) *string { return &s }

func countEdges(intents []Intent, t domain.EdgeType) int {
	n := 0
	for _, i := range intents {
		if i.Edge != nil && i.Edge.Type == t {
			n++
		}
	}
	return n
}

func countNodes(intents []Intent, label domain.NodeLabel) int {
	n := 0
	for _, i := range intents {
		if i.Node != nil && i.Node.Label == label {
			n++
		}
	}
	return n
}

func TestProjector_S1_SingleTCPPacket(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		Protocol: "tcp",
		IP:       domain.IPEndpoints{Src: strp("10.0.0.1"), Dst: strp("10.0.0.2")},
		MAC:      domain.MACEndpoints{Src: strp("aa:aa:aa:aa:aa:aa"), Dst: strp("bb:bb:bb:bb:bb:bb")},
		Ports:    domain.Ports{Dst: 80},
		Timestamp: 100.0, Length: 60,
		Service: "http", ServiceLayer: 999,
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 2, countNodes(intents, domain.NodeIP))
	assert.Equal(t, 2, countNodes(intents, domain.NodeMAC))
	assert.Equal(t, 2, countEdges(intents, domain.EdgeAssigned))
	require.Equal(t, 1, countEdges(intents, domain.EdgeConnectedIP))

	for _, i := range intents {
		if i.Edge != nil && i.Edge.Type == domain.EdgeConnectedIP {
			assert.Equal(t, 80, i.Edge.Obs.Port)
			assert.Equal(t, "http", i.Edge.Obs.Service)
			assert.Equal(t, 999, i.Edge.Obs.ServiceLayer)
		}
	}
}

func TestProjector_S3_Beacon(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		MAC:       domain.MACEndpoints{Src: strp("cc:cc:cc:cc:cc:cc")},
		SSID:      strp("home"),
		FrameType: domain.FrameBeacon,
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 1, countNodes(intents, domain.NodeSSID))
	assert.Equal(t, 1, countEdges(intents, domain.EdgeAdvertises))
	assert.Equal(t, 0, countEdges(intents, domain.EdgeConnectedMAC))
	assert.Equal(t, 0, countEdges(intents, domain.EdgeConnectedIP))
}

func TestProjector_S4_ProbeRequest(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		MAC:       domain.MACEndpoints{Src: strp("dd:dd:dd:dd:dd:dd")},
		SSID:      strp("coffee"),
		FrameType: domain.FrameProbe,
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 1, countEdges(intents, domain.EdgeProbes))
	assert.Equal(t, 0, countEdges(intents, domain.EdgeAdvertises))
}

func TestProjector_S5_ProbeResponse(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		MAC:       domain.MACEndpoints{Src: strp("ee:ee:ee:ee:ee:ee"), Dst: strp("ff:ff:ff:ff:ff:ff")},
		FrameType: domain.FrameProbeResponse,
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 1, countEdges(intents, domain.EdgeProbeResponse))
	assert.Equal(t, 0, countEdges(intents, domain.EdgeConnectedMAC))
}

func TestProjector_ProbeResponseWithRelaySplitEmitsBoth(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		MAC: domain.MACEndpoints{
			Src: strp("S"), Dst: strp("D"), Tra: strp("T"), Rec: strp("R"),
		},
		FrameType: domain.FrameProbeResponse,
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 1, countEdges(intents, domain.EdgeProbeResponse))

	var gotST, gotRD bool
	for _, i := range intents {
		if i.Edge == nil || i.Edge.Type != domain.EdgeConnectedMAC {
			continue
		}
		switch {
		case i.Edge.Src == "S" && i.Edge.Dst == "T":
			gotST = true
		case i.Edge.Src == "R" && i.Edge.Dst == "D":
			gotRD = true
		}
	}
	assert.True(t, gotST, "expected S->T edge alongside PROBE_RESPONSE")
	assert.True(t, gotRD, "expected R->D edge alongside PROBE_RESPONSE")
}

func TestProjector_S6_ReducedModeOmitsAggregates(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		IP:        domain.IPEndpoints{Src: strp("10.0.0.1"), Dst: strp("10.0.0.2")},
		Ports:     domain.Ports{Dst: 80},
		Protocol:  "tcp",
		Timestamp: 100.0, Length: 60,
	}

	intents := p.Project(rec, domain.Reduced)

	for _, i := range intents {
		if i.Edge != nil && i.Edge.Type == domain.EdgeConnectedIP {
			assert.Equal(t, domain.Reduced, i.Edge.Fidelity)
		}
	}
}

func TestProjector_S7_Dot11ForwardingSplit(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{
		MAC: domain.MACEndpoints{
			Src: strp("S"), Dst: strp("D"), Tra: strp("T"), Rec: strp("R"),
		},
	}

	intents := p.Project(rec, domain.Full)

	assert.Equal(t, 4, countNodes(intents, domain.NodeMAC))

	var gotST, gotRD, gotSD bool
	for _, i := range intents {
		if i.Edge == nil || i.Edge.Type != domain.EdgeConnectedMAC {
			continue
		}
		switch {
		case i.Edge.Src == "S" && i.Edge.Dst == "T":
			gotST = true
		case i.Edge.Src == "R" && i.Edge.Dst == "D":
			gotRD = true
		case i.Edge.Src == "S" && i.Edge.Dst == "D":
			gotSD = true
		}
	}
	assert.True(t, gotST, "expected S->T edge")
	assert.True(t, gotRD, "expected R->D edge")
	assert.False(t, gotSD, "must not emit a direct S->D edge")
}

func TestProjector_CacheHitSuppressesNodeReEmission(t *testing.T) {
	p := New(cache.New(50), nil)
	rec := domain.PacketRecord{IP: domain.IPEndpoints{Src: strp("10.0.0.1"), Dst: strp("10.0.0.2")}}

	first := p.Project(rec, domain.Full)
	second := p.Project(rec, domain.Full)

	assert.Equal(t, 2, countNodes(first, domain.NodeIP))
	assert.Equal(t, 0, countNodes(second, domain.NodeIP), "cache should suppress re-emission of already-seen nodes")
}
