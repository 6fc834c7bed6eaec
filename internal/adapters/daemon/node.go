package daemon

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vgren/internal/core/ports"
)

// NodeID is the unique identifier for the daemon dialer Graft node.
const NodeID graft.ID = "adapter.daemon"

func init() {
	graft.Register(graft.Node[ports.DaemonDialer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DaemonDialer, error) {
			return Dialer{}, nil
		},
	})
}
