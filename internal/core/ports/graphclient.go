package ports

import (
	"context"

	"github.com/arqlabs/graphcap/internal/core/domain"
)

// GraphClient is the Upsert Executor boundary (C4, §4.4/§6). Implementations
// must parameterize every value; no caller-derived string may reach an
// executable statement unescaped.
type GraphClient interface {
	// UpsertNode ensures a node with the given label/name exists, applying
	// intent's properties only on creation (§4.4).
	UpsertNode(ctx context.Context, intent domain.NodeIntent) error

	// UpsertEdge ensures an edge exists between two nodes already known to
	// the graph. For CONNECTED_IP/CONNECTED_MAC edges with intent.Obs set,
	// it applies the create/merge aggregate semantics of §4.3; for all
	// other edge types it is a no-property existence upsert.
	UpsertEdge(ctx context.Context, intent domain.EdgeIntent) error

	Close() error
}
