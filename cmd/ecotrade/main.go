package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/api/rest"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/arbitrage"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/config"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/ecosrv"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/health"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/http/middleware"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/log"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/metrics"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/netutil"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/runner"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/infra/version"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/report"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.NewLogger(cfg)

	var src arbitrage.SnapshotSource
	if cfg.Source.SnapshotFile != "" {
		src = ecosrv.FileSource{Path: cfg.Source.SnapshotFile}
	} else {
		src = ecosrv.NewClient(cfg.Source.BaseURL, logger)
	}
	engine := arbitrage.New(cfg, src, logger)

	registry := metrics.Init(logger)
	mux := http.NewServeMux()
	// admin endpoints (metrics, pprof) behind IP allowlist gate
	adminCIDRs := netutil.MustParseCIDRs(cfg.Server.AdminAllowCIDRs)
	mux.Handle("/metrics", middleware.AdminGate(adminCIDRs, metrics.Handler(registry)))
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	mux.Handle("/", rest.New(engine).Handler())
	if cfg.Server.Pprof {
		mux.Handle("/debug/pprof/", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Index)))
		mux.Handle("/debug/pprof/cmdline", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("/debug/pprof/profile", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Profile)))
		mux.Handle("/debug/pprof/symbol", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Symbol)))
		mux.Handle("/debug/pprof/trace", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Trace)))
	}

	handler := middleware.RequestID(middleware.Logger(logger)(mux))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Str("source", cfg.Source.BaseURL).Msg("trade scanner started")

	g := &runner.Group{}
	workerErrCh := g.Go(ctx, func(ctx context.Context) error {
		return engine.Run(ctx)
	})

	if cfg.Report.CSVPath != "" {
		g.Go(ctx, func(ctx context.Context) error {
			t := time.NewTicker(time.Duration(cfg.Source.PollSeconds) * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					if res := engine.Results(); res != nil {
						if err := report.WriteCSV(cfg.Report.CSVPath, res); err != nil {
							logger.Warn().Err(err).Msg("csv report failed")
						}
					}
				}
			}
		})
	}

	health.SetReady(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case s := <-sigCh:
		logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
	case err := <-workerErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("worker error")
			health.SetReady(false)
		}
	}

	health.SetReady(false)
	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	g.Wait()
	logger.Info().Msg("shutdown complete")
}
