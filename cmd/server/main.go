package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/divvy/internal/auth"
	"github.com/mmynk/divvy/internal/server"
	"github.com/mmynk/divvy/internal/service"
	"github.com/mmynk/divvy/internal/storage/sqlite"
	"github.com/mmynk/divvy/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Invalid duration, using fallback", "key", key, "fallback", fallback)
	}
	return fallback
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			slog.Info("Loaded env file", "path", p)
			return
		}
	}
}

func main() {
	logging.Setup()
	loadDotenv()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is not set. Refusing to start.")
		os.Exit(1)
	}

	dbPath := getEnv("DB_PATH", "./data/divvy.db")
	tokenTTL := getEnvDuration("TOKEN_TTL", 24*time.Hour)
	requestTimeout := getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	accounts := service.NewAuthService(authenticator, jwtManager, store, slog.Default())
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store)

	var origins []string
	for _, p := range strings.Split(getEnv("CORS_ORIGIN", ""), ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}

	srv := server.New(expenses, groups, accounts, jwtManager, server.Config{
		AllowedOrigins: origins,
		RequestTimeout: requestTimeout,
	})

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(srv.Router(), &http2.Server{})

	addr := fmt.Sprintf(":%s", getEnv("PORT", "8080"))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}
}
