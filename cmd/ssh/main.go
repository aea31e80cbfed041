package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"coinrates/internal/cache"
	"coinrates/internal/config"
	"coinrates/internal/db"
	"coinrates/internal/fetchx"
	"coinrates/internal/repository"
	"coinrates/internal/resolver"
	"coinrates/internal/service"
	"coinrates/internal/tui"
	"coinrates/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newSnapshotRepoFunc = repository.NewSnapshotRepository
	newRateServiceFunc  = service.NewRateService
	newWishServerFunc   = wish.NewServer
	setupSignalNotify   = ossignal.Notify
	waitForSignalFunc   = func(quit <-chan os.Signal) { <-quit }
)

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

	var history service.SnapshotStore
	if db.Pool != nil {
		history = newSnapshotRepoFunc(db.Pool, tracer)
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

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewAppModel(rateService)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
