package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/cruisedesk/internal/api"
	"github.com/erazemk/cruisedesk/internal/auth"
	"github.com/erazemk/cruisedesk/internal/db"
	"github.com/erazemk/cruisedesk/internal/logging"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

func main() {
	fs := flag.NewFlagSet("cruisedesk-backend", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "cruisedesk.sqlite3", "")
	fs.StringVar(&dbPath, "d", "cruisedesk.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8081", "")
	fs.StringVar(&addr, "a", ":8081", "")

	var adminEmail string
	fs.StringVar(&adminEmail, "user", "admin@cruisedesk.local", "")
	fs.StringVar(&adminEmail, "u", "admin@cruisedesk.local", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var secureCookies bool
	fs.BoolVar(&secureCookies, "secure-cookies", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: cruisedesk-backend [flags]

Flags:
  -d, -db <path>          SQLite database path (default: cruisedesk.sqlite3)
  -a, -addr <host:port>   listen address (default: :8081)
  -u, -user <email>       admin email on first run (default: admin@cruisedesk.local)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -secure-cookies         mark the session cookie Secure
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := logging.Setup(logPath, slog.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	ctx := context.Background()
	password, err := bootstrapAdmin(ctx, database, adminEmail)
	if err != nil {
		slog.Error("failed to create admin account", "error", err)
		os.Exit(1)
	}
	if password != "" {
		printAdmin(adminEmail, password)
	}

	secret, err := store.SessionSecret(ctx, database)
	if err != nil {
		slog.Error("failed to load session secret", "error", err)
		os.Exit(1)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, secret, api.Options{SecureCookies: secureCookies}))

	server := &http.Server{
		Addr:              addr,
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

	slog.Info("backend started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// bootstrapAdmin creates the first admin account on an empty database and
// returns its generated password. It returns "" when users already exist.
func bootstrapAdmin(ctx context.Context, database *sql.DB, email string) (string, error) {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return "", nil
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	reg := model.Registration{FullName: "Administrator", Email: email, Role: model.RoleAdmin}
	if _, err := store.CreateUser(ctx, database, reg, hash); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

func printAdmin(email, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  User name: %s\n", email)
	fmt.Printf("  Password:  %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println()
}
