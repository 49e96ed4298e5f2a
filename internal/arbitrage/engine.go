package arbitrage

import (
	"context"
	"sync"
	"time"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/config"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/log"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/metrics"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/rates"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/scanner"
)

// SnapshotSource yields one marketplace snapshot per call.
type SnapshotSource interface {
	Fetch(ctx context.Context) (market.Snapshot, error)
}

// Results is the outcome of one completed scan. It is immutable once
// published; readers share it without copying.
type Results struct {
	ServerName     string
	FetchedAt      time.Time
	Currencies     []string
	Items          map[string]market.ItemInfo
	OnlinePlayers  []string
	Rates          *rates.Table
	Trades         []scanner.TradeOpportunity
	Cycles         []scanner.TradeOpportunity
	FX             []scanner.TradeOpportunity
	CombosExamined int
	Truncated      bool
}

type Engine struct {
	cfg    config.Config
	src    SnapshotSource
	logger log.Logger

	mu  sync.RWMutex
	res *Results
}

func New(cfg config.Config, src SnapshotSource, logger log.Logger) *Engine {
	return &Engine{cfg: cfg, src: src, logger: logger}
}

// Run scans immediately and then on every poll tick until the context is
// cancelled. A failed scan keeps the previously published results.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.ScanOnce(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("initial scan failed")
	}
	interval := time.Duration(e.cfg.Source.PollSeconds) * time.Second
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := e.ScanOnce(ctx); err != nil {
				e.logger.Warn().Err(err).Msg("scan failed; keeping previous results")
			}
		}
	}
}

// ScanOnce fetches a snapshot, runs every enabled scanner over it and
// publishes the results atomically.
func (e *Engine) ScanOnce(ctx context.Context) error {
	snap, err := e.src.Fetch(ctx)
	if err != nil {
		return err
	}
	start := time.Now()

	opts := e.options()
	tbl := rates.Estimate(snap.Stores)
	trades := scanner.SameCurrency(snap.Stores, opts)
	cyc := scanner.CrossCurrency(snap.Stores, tbl, opts)
	var fxOpps []scanner.TradeOpportunity
	if e.cfg.FX.Enabled {
		fxOpps = scanner.FixedRate(snap.Stores, scanner.FXParams{
			CurrencyA: e.cfg.FX.CurrencyA,
			CurrencyB: e.cfg.FX.CurrencyB,
			RateA:     e.cfg.FX.RateA,
			RateB:     e.cfg.FX.RateB,
		}, opts)
	}

	res := &Results{
		ServerName:     snap.ServerName,
		FetchedAt:      time.Now(),
		Currencies:     market.Currencies(snap.Stores),
		Items:          snap.Items,
		OnlinePlayers:  snap.OnlinePlayers,
		Rates:          tbl,
		Trades:         trades,
		Cycles:         cyc.Trades,
		FX:             fxOpps,
		CombosExamined: cyc.Combos,
		Truncated:      cyc.Truncated,
	}

	valid := 0
	for _, s := range snap.Stores {
		if s.Valid() {
			valid++
		}
	}
	if skipped := len(snap.Stores) - valid; skipped > 0 {
		e.logger.Warn().Int("skipped", skipped).Msg("stores without offer data excluded from scan")
	}
	metrics.ScansTotal.Inc()
	metrics.ScanDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.StoresSeen.Set(float64(valid))
	metrics.CurrenciesSeen.Set(float64(len(res.Currencies)))
	metrics.OpportunitiesFound.WithLabelValues("same_currency").Set(float64(len(trades)))
	metrics.OpportunitiesFound.WithLabelValues("cross_currency").Set(float64(len(cyc.Trades)))
	metrics.OpportunitiesFound.WithLabelValues("fixed_rate").Set(float64(len(fxOpps)))
	metrics.CombosExaminedTotal.Add(float64(cyc.Combos))
	if cyc.Truncated {
		metrics.ScanTruncationsTotal.Inc()
	}

	e.mu.Lock()
	e.res = res
	e.mu.Unlock()

	e.logger.Info().
		Str("server", res.ServerName).
		Int("stores", valid).
		Int("currencies", len(res.Currencies)).
		Int("trades", len(trades)).
		Int("cycles", len(cyc.Trades)).
		Int("fx", len(fxOpps)).
		Int("combos", cyc.Combos).
		Bool("truncated", cyc.Truncated).
		Dur("took", time.Since(start)).
		Msg("scan complete")
	return nil
}

// Results returns the last published scan, or nil before the first success.
func (e *Engine) Results() *Results {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.res
}

func (e *Engine) options() scanner.Options {
	return scanner.Options{
		BaseCurrency:          e.cfg.Scan.BaseCurrency,
		MinProfit:             e.cfg.Scan.MinProfit,
		SameIntermediateStore: e.cfg.Scan.SameIntermediateStore,
		HideWarnings:          e.cfg.Scan.HideWarnings,
		CorrectProfit:         e.cfg.Scan.CorrectProfit,
		MaxCombos:             e.cfg.Scan.MaxCombos,
	}
}
