package ecosrv

import (
	"context"
	"os"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

// FileSource serves a stores payload from disk, for offline analysis of a
// saved dump.
type FileSource struct {
	Path string
}

func (f FileSource) Fetch(ctx context.Context) (market.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return market.Snapshot{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return market.Snapshot{}, err
	}
	stores, err := market.ParseStores(data)
	if err != nil {
		return market.Snapshot{}, err
	}
	return market.Snapshot{Stores: stores, ServerName: "Unknown Server"}, nil
}
