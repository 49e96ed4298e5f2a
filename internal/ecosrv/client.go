// Package ecosrv fetches marketplace snapshots from the game server's
// price-calculator plugin API.
package ecosrv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/metrics"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/network"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
	"github.com/rs/zerolog"
)

const (
	storesPath = "/api/v1/plugins/EcoPriceCalculator/stores"
	itemsPath  = "/api/v1/plugins/EcoPriceCalculator/allItems"
	infoPath   = "/info"
)

type Client struct {
	baseURL string
	hc      *http.Client
	bucket  *network.TokenBucket
	logger  zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      network.NewHTTPClient(),
		bucket:  network.NewTokenBucket(5, 1),
		logger:  logger,
	}
}

// Fetch pulls one full snapshot. The stores payload is required; item
// metadata and server info are cosmetic, so their failures degrade the
// snapshot instead of failing it.
func (c *Client) Fetch(ctx context.Context) (market.Snapshot, error) {
	metrics.SnapshotFetchesTotal.Inc()

	body, err := c.get(ctx, storesPath)
	if err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("stores").Inc()
		return market.Snapshot{}, err
	}
	stores, err := market.ParseStores(body)
	if err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("stores").Inc()
		return market.Snapshot{}, err
	}

	snap := market.Snapshot{Stores: stores, ServerName: "Unknown Server"}

	if body, err := c.get(ctx, itemsPath); err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("items").Inc()
		c.logger.Warn().Err(err).Msg("item metadata unavailable")
	} else if items, err := market.ParseItems(body); err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("items").Inc()
		c.logger.Warn().Err(err).Msg("item metadata unreadable")
	} else {
		snap.Items = items
	}

	if body, err := c.get(ctx, infoPath); err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("info").Inc()
		c.logger.Warn().Err(err).Msg("server info unavailable")
	} else if name, online, err := market.ParseInfo(body); err != nil {
		metrics.SnapshotFetchErrorsTotal.WithLabelValues("info").Inc()
		c.logger.Warn().Err(err).Msg("server info unreadable")
	} else {
		snap.ServerName = name
		snap.OnlinePlayers = online
	}

	return snap, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	for !c.bucket.Allow(time.Now()) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
