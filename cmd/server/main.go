package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinrates/internal/bot"
	"coinrates/internal/cache"
	"coinrates/internal/config"
	"coinrates/internal/db"
	"coinrates/internal/fetchx"
	"coinrates/internal/handler"
	"coinrates/internal/job"
	"coinrates/internal/repository"
	"coinrates/internal/resolver"
	"coinrates/internal/service"
	"coinrates/internal/web"
	"coinrates/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "coinrates/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newSnapshotRepoFunc    = repository.NewSnapshotRepository
	newRateServiceFunc     = service.NewRateService
	newRefreshJobFunc      = job.NewRefreshJob
	startRefreshJobFunc    = func(j *job.RefreshJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Coinrates API
// @version         1.0
// @description     Crypto and fiat exchange rates with a USD-pivot converter.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Snapshot history is optional; without a pool it stays disabled.
	var history service.SnapshotStore
	if db.Pool != nil {
		repo := newSnapshotRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		history = repo
	}

	client := fetchx.New()
	client.RetryDelay = time.Duration(cfg.FetchRetryMillis) * time.Millisecond
	cryptoTimeout := time.Duration(cfg.CryptoTimeoutMillis) * time.Millisecond
	fiatTimeout := time.Duration(cfg.FiatTimeoutMillis) * time.Millisecond

	cryptoResolver := resolver.DefaultCryptoResolver(client, cryptoTimeout, cfg.FetchMaxAttempts, tracer)
	fiatResolver := resolver.DefaultFiatResolver(client, fiatTimeout, cryptoTimeout, cfg.FetchMaxAttempts, tracer)

	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	rateService := newRateServiceFunc(tracer, cryptoResolver, fiatResolver, redisClient, history,
		time.Duration(cfg.CacheTTLSecs)*time.Second)

	refreshJob := newRefreshJobFunc(tracer, rateService, cfg.RefreshSecs)
	startRefreshJobFunc(refreshJob, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, rateService)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}
	h := newHandlerFunc(tracer, rateService, renderer)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("coinrates"))
	r.Use(handler.CORS())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
