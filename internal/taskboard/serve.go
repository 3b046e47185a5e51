package taskboard

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskboard/backend/internal/server"
)

const defaultListenAddr = "127.0.0.1:8080"

func addrFromServerURL(serverURL string) string {
	raw := strings.TrimSpace(serverURL)
	if raw == "" {
		return defaultListenAddr
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return defaultListenAddr
	}

	host := u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr == nil {
		return host
	}

	switch u.Scheme {
	case "https":
		return net.JoinHostPort(host, "443")
	case "http":
		return net.JoinHostPort(host, "80")
	default:
		return defaultListenAddr
	}
}

func newServeCommand(cfg *Config) *cobra.Command {
	addr := addrFromServerURL(cfg.ServerURL)
	sqlitePath := cfg.SQLitePath
	objectsDir := cfg.ObjectsDir

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the taskboard backend API server.",
		Long:  "Runs the backend API server with sqlite storage and local object storage.",
		Example: strings.TrimSpace(`taskboard serve
taskboard serve --addr 127.0.0.1:8090
taskboard serve --sqlite-path /tmp/taskboard/taskboard.db --objects-dir /tmp/taskboard/objects`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			serveAddr := strings.TrimSpace(addr)
			serveSQLite := strings.TrimSpace(sqlitePath)
			serveObjects := strings.TrimSpace(objectsDir)

			if !cmd.Flags().Changed("addr") {
				serveAddr = addrFromServerURL(cfg.ServerURL)
			}
			if !cmd.Flags().Changed("sqlite-path") {
				serveSQLite = strings.TrimSpace(cfg.SQLitePath)
			}
			if !cmd.Flags().Changed("objects-dir") {
				serveObjects = strings.TrimSpace(cfg.ObjectsDir)
			}

			if serveAddr == "" {
				return errors.New("--addr cannot be empty")
			}
			if serveSQLite == "" {
				return errors.New("--sqlite-path cannot be empty")
			}

			return runServe(serveAddr, cfg.ServerURL, serveSQLite, serveObjects)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "server listen address")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", sqlitePath, "sqlite database path")
	cmd.Flags().StringVar(&objectsDir, "objects-dir", objectsDir, "local object storage directory")
	return cmd
}

func runServe(addr, baseURL, sqlitePath, objectsDir string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return fmt.Errorf("create sqlite parent dir failed: %w", err)
	}
	if objectsDir != "" {
		if err := os.MkdirAll(objectsDir, 0o755); err != nil {
			return fmt.Errorf("create objects dir failed: %w", err)
		}
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generate object secret failed: %w", err)
	}

	app, err := server.New(server.Options{
		SQLitePath:   sqlitePath,
		ObjectsDir:   objectsDir,
		BaseURL:      baseURL,
		ObjectSecret: secret,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("init server failed: %w", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("close server failed", "error", closeErr)
		}
	}()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting taskboard backend", "addr", addr, "sqlite_path", sqlitePath, "objects_dir", objectsDir)

	serverErrCh := make(chan error, 1)
	go func() {
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			serverErrCh <- listenErr
			return
		}
		serverErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case listenErr := <-serverErrCh:
		if listenErr != nil {
			return fmt.Errorf("listen failed: %w", listenErr)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	if err := httpServer.Close(); err != nil {
		return fmt.Errorf("http server close failed: %w", err)
	}
	if listenErr := <-serverErrCh; listenErr != nil {
		return fmt.Errorf("listen failed after shutdown: %w", listenErr)
	}
	logger.Info("server stopped")
	return nil
}
