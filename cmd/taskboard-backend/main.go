package main

import (
	"crypto/rand"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/taskboard/backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		addr       string
		baseURL    string
		sqlitePath string
		objectsDir string
	)

	defaultDataDir := filepath.Join(os.TempDir(), "taskboard-data")
	flag.StringVar(&addr, "addr", "127.0.0.1:8080", "server listen address")
	flag.StringVar(&baseURL, "base-url", "http://127.0.0.1:8080", "public base URL used in signed object links")
	flag.StringVar(&sqlitePath, "sqlite-path", filepath.Join(defaultDataDir, "taskboard.db"), "sqlite database path")
	flag.StringVar(&objectsDir, "objects-dir", filepath.Join(defaultDataDir, "objects"), "local object storage directory")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		logger.Error("create sqlite parent dir failed", "error", err)
		os.Exit(1)
	}
	if objectsDir != "" {
		if err := os.MkdirAll(objectsDir, 0o755); err != nil {
			logger.Error("create objects dir failed", "error", err)
			os.Exit(1)
		}
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		logger.Error("generate object secret failed", "error", err)
		os.Exit(1)
	}

	app, err := server.New(server.Options{
		SQLitePath:   sqlitePath,
		ObjectsDir:   objectsDir,
		BaseURL:      baseURL,
		ObjectSecret: secret,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("init server failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close server failed", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting taskboard backend", "addr", addr, "sqlite_path", sqlitePath, "objects_dir", objectsDir)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		if err := httpServer.Close(); err != nil {
			logger.Error("http server close failed", "error", err)
		}
	}()
	<-shutdownDone
	logger.Info("server stopped")
}
