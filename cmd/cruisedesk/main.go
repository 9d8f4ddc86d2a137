package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/config"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/logging"
	"github.com/erazemk/cruisedesk/internal/web"
)

func main() {
	fs := flag.NewFlagSet("cruisedesk", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: cruisedesk [flags]

Flags:
  -c, -config <path>   YAML configuration file (default: built-in defaults)
  -h, -help            show this help and exit

Settings can also come from a .env file or CRUISEDESK_* environment variables.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logging.Setup(cfg.Log.Path, cfg.Log.MinLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	key, err := csrfKey(cfg.HTTP.CSRFKey)
	if err != nil {
		slog.Error("invalid CSRF key", "error", err)
		os.Exit(1)
	}

	toasts := toastStore(cfg.Redis)

	var publisher audit.Publisher = audit.NewLogPublisher(slog.Default())
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		slog.Info("publishing audit events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.AuditTopic)
	}
	defer publisher.Close()

	handler, err := web.NewRouter(web.Options{
		Client:        gateway.New(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		Toasts:        toasts,
		Audit:         publisher,
		PageSizes:     pageSizes(cfg.Console),
		SecureCookies: cfg.HTTP.SecureCookies,
		CSRFKey:       key,
	})
	if err != nil {
		slog.Error("failed to set up console router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("console started", "addr", cfg.HTTP.Address, "backend", cfg.Backend.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// csrfKey decodes the configured key or generates one for this run.
func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		key, err := hex.DecodeString(configured)
		if err != nil {
			return nil, fmt.Errorf("decoding csrf_key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("csrf_key must be 32 bytes, got %d", len(key))
		}
		return key, nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating csrf key: %w", err)
	}
	slog.Warn("CSRF key auto-generated (open forms are invalidated on restart)")
	return key, nil
}

// toastStore uses redis when it is configured and reachable, and the
// in-process store otherwise.
func toastStore(cfg config.RedisConfig) feedback.Store {
	if cfg.Addr == "" {
		return feedback.NewMemoryStore(cfg.ToastTTL)
	}

	store := feedback.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.ToastTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		slog.Warn("redis unavailable, keeping toasts in memory", "addr", cfg.Addr, "error", err)
		return feedback.NewMemoryStore(cfg.ToastTTL)
	}
	slog.Info("keeping toasts in redis", "addr", cfg.Addr)
	return store
}

// pageSizes puts the default page size first.
func pageSizes(cfg config.ConsoleConfig) []int {
	sizes := []int{cfg.DefaultPageSize}
	for _, n := range cfg.PageSizes {
		if !slices.Contains(sizes, n) {
			sizes = append(sizes, n)
		}
	}
	return sizes
}
