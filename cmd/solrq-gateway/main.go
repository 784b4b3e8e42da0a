package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrq/internal/config"
	dbRedis "github.com/kailas-cloud/solrq/internal/db/redis"
	logpkg "github.com/kailas-cloud/solrq/internal/logger"
	"github.com/kailas-cloud/solrq/internal/metrics"
	"github.com/kailas-cloud/solrq/internal/parser"
	"github.com/kailas-cloud/solrq/internal/repository/respcache"
	chiTransport "github.com/kailas-cloud/solrq/internal/transport/chi"
	"github.com/kailas-cloud/solrq/internal/transport/solrhttp"
	"github.com/kailas-cloud/solrq/internal/usecase/health"
	searchuc "github.com/kailas-cloud/solrq/internal/usecase/search"
	"github.com/kailas-cloud/solrq/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(logpkg.Config{Env: env, Level: cfg.Logging.Level, Service: "solrq-gateway"})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrq gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("solr_urls", cfg.Solr.URLs),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	solrMetrics, err := metrics.NewSolr(reg)
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}
	httpMetrics, err := metrics.NewHTTP(reg)
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	transport, err := solrhttp.New(solrhttp.Config{
		URLs:          cfg.Solr.URLs,
		Client:        &http.Client{Timeout: time.Duration(cfg.Solr.TimeoutSec) * time.Second},
		PostThreshold: cfg.Solr.PostThreshold,
		Logger:        logger,
		Metrics:       solrMetrics,
	})
	if err != nil {
		logger.Fatal("Failed to create search transport", zap.Error(err))
	}

	// Response cache sits between the executer and the transport
	var sender searchuc.Transport = transport
	var cachePinger health.Pinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), 10*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))

		cachePinger = store
		sender = respcache.New(transport, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, solrMetrics.CacheTotal, logger).
			WithCallTimeout(time.Duration(cfg.Solr.TimeoutSec) * time.Second)
	}

	executer := searchuc.New[chiTransport.Document](sender, parser.NewJSON[chiTransport.Document](cfg.Solr.UniqueKey)).
		WithDefaultRows(cfg.Solr.DefaultRows).
		WithPath(cfg.Solr.Handler).
		WithLogger(logger)

	server := chiTransport.NewServer(executer, health.New(transport, cachePinger), logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		Logger:         logger,
		APIKeys:        cfg.Auth.APIKeys,
		Metrics:        httpMetrics.Middleware,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
