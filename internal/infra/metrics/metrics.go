package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScansTotal           = prometheus.NewCounter(prometheus.CounterOpts{Name: "scans_total", Help: "Completed market scans"})
	ScanDurationSeconds  = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scan_duration_seconds", Help: "Wall time of a full scan", Buckets: prometheus.ExponentialBuckets(0.001, 2, 14)})
	OpportunitiesFound   = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "opportunities_found", Help: "Opportunities from the last scan by scanner"}, []string{"scanner"})
	CombosExaminedTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "combos_examined_total", Help: "Cross-currency leg combinations examined"})
	ScanTruncationsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "scan_truncations_total", Help: "Cross-currency scans cut short by the combo cap"})

	StoresSeen     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "stores_seen", Help: "Valid stores in the last snapshot"})
	CurrenciesSeen = prometheus.NewGauge(prometheus.GaugeOpts{Name: "currencies_seen", Help: "Distinct currencies in the last snapshot"})

	SnapshotFetchesTotal     = prometheus.NewCounter(prometheus.CounterOpts{Name: "snapshot_fetches_total", Help: "Snapshot fetch attempts"})
	SnapshotFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "snapshot_fetch_errors_total", Help: "Snapshot fetch errors by endpoint"}, []string{"endpoint"})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		ScansTotal, ScanDurationSeconds, OpportunitiesFound,
		CombosExaminedTotal, ScanTruncationsTotal,
		StoresSeen, CurrenciesSeen,
		SnapshotFetchesTotal, SnapshotFetchErrorsTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
