package transform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vgren/internal/core/ports"
)

// NodeID is the unique identifier for the transformer Graft node.
const NodeID graft.ID = "adapter.transform"

func init() {
	graft.Register(graft.Node[ports.Transformer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Transformer, error) {
			return New(), nil
		},
	})
}
