package graphstore

// ipNode/macNode/ssidNode and the edge tables below are the relational
// projection of the property graph described in §3: one table per node
// label, one table per relationship type, with the relationship's key
// properties forming a unique index so an upsert can target it.

type ipNode struct {
	Name      string `gorm:"primaryKey"`
	Multicast bool
}

func (ipNode) TableName() string { return "ip_nodes" }

type macNode struct {
	Name         string `gorm:"primaryKey"`
	Manufacturer *string
	Multicast    bool
}

func (macNode) TableName() string { return "mac_nodes" }

type ssidNode struct {
	Name string `gorm:"primaryKey"`
}

func (ssidNode) TableName() string { return "ssid_nodes" }

type assignedEdge struct {
	IPName  string `gorm:"primaryKey;column:ip_name"`
	MACName string `gorm:"primaryKey;column:mac_name"`
}

func (assignedEdge) TableName() string { return "assigned_edges" }

type connectedIPEdge struct {
	SrcIP        string `gorm:"primaryKey;column:src_ip"`
	DstIP        string `gorm:"primaryKey;column:dst_ip"`
	Port         int    `gorm:"primaryKey"`
	Protocol     string `gorm:"primaryKey"`
	FirstSeen    float64
	LastSeen     float64
	DataSize     int64
	Count        int64
	Service      string
	ServiceLayer int
}

func (connectedIPEdge) TableName() string { return "connected_ip_edges" }

type connectedMACEdge struct {
	SrcMAC       string `gorm:"primaryKey;column:src_mac"`
	DstMAC       string `gorm:"primaryKey;column:dst_mac"`
	Protocol     string `gorm:"primaryKey"`
	FirstSeen    float64
	LastSeen     float64
	DataSize     int64
	Count        int64
	Service      string
	ServiceLayer int
}

func (connectedMACEdge) TableName() string { return "connected_mac_edges" }

type advertisesEdge struct {
	MACName  string `gorm:"primaryKey;column:mac_name"`
	SSIDName string `gorm:"primaryKey;column:ssid_name"`
}

func (advertisesEdge) TableName() string { return "advertises_edges" }

type probesEdge struct {
	MACName  string `gorm:"primaryKey;column:mac_name"`
	SSIDName string `gorm:"primaryKey;column:ssid_name"`
}

func (probesEdge) TableName() string { return "probes_edges" }

type probeResponseEdge struct {
	SrcMAC string `gorm:"primaryKey;column:src_mac"`
	DstMAC string `gorm:"primaryKey;column:dst_mac"`
}

func (probeResponseEdge) TableName() string { return "probe_response_edges" }

func allModels() []interface{} {
	return []interface{}{
		&ipNode{}, &macNode{}, &ssidNode{},
		&assignedEdge{}, &connectedIPEdge{}, &connectedMACEdge{},
		&advertisesEdge{}, &probesEdge{}, &probeResponseEdge{},
	}
}
