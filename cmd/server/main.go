package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/api"
	"github.com/refurbops/opsdash/internal/archive"
	"github.com/refurbops/opsdash/internal/cache"
	"github.com/refurbops/opsdash/internal/config"
	"github.com/refurbops/opsdash/internal/ingest"
	"github.com/refurbops/opsdash/internal/mailfetch"
	"github.com/refurbops/opsdash/internal/repository/postgres"
	"github.com/refurbops/opsdash/internal/service"
	"github.com/refurbops/opsdash/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	store := cache.New(&cfg.Cache)

	salesRepo := postgres.NewSalesRepository(db)
	pnlRepo := postgres.NewPnlRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	namesRepo := postgres.NewNamesRepository(db)
	ingestRepo := postgres.NewIngestRepository(db)
	fetchLogRepo := postgres.NewFetchLogRepository(db)
	searchRepo := postgres.NewSearchRepository(db)

	pnlService := service.NewPnlService(pnlRepo, store, time.Duration(cfg.Cache.PulseTTL)*time.Second, service.SystemClock)
	temperatureService := service.NewTemperatureService(salesRepo, namesRepo, service.SystemClock)
	stockService := service.NewStockService(inventoryRepo, salesRepo, namesRepo, service.SystemClock)
	searchService := service.NewSearchService(searchRepo, service.SystemClock)
	productService := service.NewProductService(inventoryRepo, salesRepo, pnlRepo, namesRepo, service.SystemClock)
	namesService := service.NewNamesService(inventoryRepo, salesRepo, namesRepo)
	adminService := service.NewAdminService(ingestRepo, fetchLogRepo)

	var archiver ingest.Archiver
	if bucket, err := archive.New(context.Background(), &cfg.Archive); err != nil {
		log.Warn().Err(err).Msg("report archive unavailable, continuing without it")
	} else if bucket != nil {
		archiver = bucket
	}

	importer := ingest.NewImporter(ingestRepo, namesService, store, archiver, service.SystemClock)

	mailbox := mailfetch.NewMailbox(&cfg.Mail)
	pipeline := mailfetch.NewPipeline(mailbox, importer, fetchLogRepo, &cfg.Mail, service.SystemClock)
	if pipeline.Enabled() {
		scheduler, err := mailfetch.NewScheduler(pipeline, &cfg.Mail)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule email fetch")
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Info().Msg("email fetch disabled, no IMAP credentials")
	}

	router := api.NewRouter(&api.Services{
		Pnl:         pnlService,
		Temperature: temperatureService,
		Stock:       stockService,
		Search:      searchService,
		Product:     productService,
		Names:       namesService,
		Admin:       adminService,
		Importer:    importer,
		Pipeline:    pipeline,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
