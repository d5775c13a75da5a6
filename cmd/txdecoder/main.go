package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/negroni"

	"github.com/ethpandaops/txdecoder/cache"
	"github.com/ethpandaops/txdecoder/clients/blockscout"
	"github.com/ethpandaops/txdecoder/db"
	"github.com/ethpandaops/txdecoder/handlers/api"
	_ "github.com/ethpandaops/txdecoder/handlers/docs"
	"github.com/ethpandaops/txdecoder/handlers/middleware"
	"github.com/ethpandaops/txdecoder/metrics"
	"github.com/ethpandaops/txdecoder/services"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file, if empty string defaults will be used")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, *configPath)
	if err != nil {
		logrus.Fatalf("error reading config file: %v", err)
	}
	utils.Config = cfg
	logWriter, logger := utils.InitLogger()
	defer logWriter.Dispose()

	logger.WithFields(logrus.Fields{
		"config":  *configPath,
		"version": utils.BuildVersion,
		"release": utils.BuildRelease,
	}).Printf("starting")

	if cfg.Database.Engine != "" {
		db.MustInitDB(&cfg.Database)
		err = db.ApplyEmbeddedDbSchema(-2)
		if err != nil {
			logger.Fatalf("error initializing db schema: %v", err)
		}
	}

	abiCache, err := cache.NewTieredCache(ctx, logger.WithField("module", "cache"), cfg.AbiCache.LocalCacheSize, cfg.AbiCache.RedisCacheAddr, cfg.AbiCache.RedisCachePrefix)
	if err != nil {
		logger.Fatalf("error initializing abi cache: %v", err)
	}

	var blockscoutApi services.BlockscoutApi
	if cfg.Blockscout.BaseUrl != "" {
		blockscoutApi = blockscout.NewClient(cfg.Blockscout.BaseUrl, cfg.Blockscout.Timeout, cfg.Blockscout.Headers, logger.WithField("module", "blockscout"))
	}

	signatures := services.NewSignatureService(cfg, logger.WithField("module", "txsig"))
	decoder := services.NewDecoderService(
		cfg,
		services.NewTxSourceRouter(cfg, blockscoutApi, logger.WithField("module", "txsource")),
		services.NewAbiStore(cfg, abiCache, blockscoutApi, signatures, logger.WithField("module", "abistore")),
		signatures,
		logger.WithField("module", "decoder"),
	)

	if cfg.Metrics.Enabled && !cfg.Metrics.Public {
		err = metrics.StartMetricsServer(logger.WithField("module", "metrics"), cfg.Metrics.Host, cfg.Metrics.Port)
		if err != nil {
			logger.Fatalf("error starting metrics server: %v", err)
		}
	}

	webserver, err := startWebserver(ctx, cfg, decoder, logger)
	if err != nil {
		logger.Fatalf("error starting webserver: %v", err)
	}

	utils.WaitForCtrlC()
	logger.Println("exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := webserver.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("error shutting down webserver")
	}
	db.MustCloseDB()
}

func startWebserver(ctx context.Context, cfg *types.Config, decoder api.Decoder, logger logrus.FieldLogger) (*http.Server, error) {
	router := mux.NewRouter()

	apiLogger := logger.WithField("module", "api")
	rateLimiter := middleware.NewRateLimitMiddleware(cfg, apiLogger)
	rateLimiter.StartCleanupLoop(ctx.Done())

	// event batches fetch one abi per log address
	middleware.SetEndpointCost("/api/v1/events", 3)

	router.Use(middleware.NewTokenAuthMiddleware(cfg, apiLogger).Middleware)
	router.Use(middleware.CorsMiddleware(cfg))
	router.Use(middleware.CallCostMiddleware)
	router.Use(rateLimiter.Middleware)

	api.NewApiHandler(cfg, decoder, apiLogger).RegisterRoutes(router)
	router.PathPrefix("/api/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/api/swagger/doc.json")))

	if cfg.Metrics.Enabled && cfg.Metrics.Public {
		router.Handle("/metrics", metrics.GetMetricsHandler()).Methods("GET")
	}

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	n.UseHandler(router)

	if cfg.Server.HttpWriteTimeout == 0 {
		cfg.Server.HttpWriteTimeout = time.Second * 30
	}
	if cfg.Server.HttpReadTimeout == 0 {
		cfg.Server.HttpReadTimeout = time.Second * 15
	}
	if cfg.Server.HttpIdleTimeout == 0 {
		cfg.Server.HttpIdleTimeout = time.Second * 60
	}
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		WriteTimeout: cfg.Server.HttpWriteTimeout,
		ReadTimeout:  cfg.Server.HttpReadTimeout,
		IdleTimeout:  cfg.Server.HttpIdleTimeout,
		Handler:      n,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	logger.Printf("http server listening on %v", srv.Addr)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving api")
		}
	}()

	return srv, nil
}
