package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Tyrowin/boardchat/internal/auth"
	"github.com/Tyrowin/boardchat/internal/config"
	"github.com/Tyrowin/boardchat/internal/monitor"
	"github.com/Tyrowin/boardchat/internal/ratelimit"
	"github.com/Tyrowin/boardchat/internal/realtime"
	"github.com/Tyrowin/boardchat/internal/server"
	"github.com/Tyrowin/boardchat/internal/store"
)

func serveCmd() *cobra.Command {
	var (
		port   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		Long: `Start the server. Settings come from the environment and an optional
.env file; --port and --db override PORT and DB_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			return run(cmd.Context(), config.Sanitize(cfg))
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the SQLite database")

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	st := store.New(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counters := monitor.New(monitor.WithRegistry(registry))

	hub := realtime.NewHub(realtime.HubOptions{
		Logger:         logger,
		Counters:       counters,
		MaxMessageSize: cfg.MaxMessageSize,
	})
	realtime.NewRouter(realtime.RouterConfig{
		Store:       st,
		Hub:         hub,
		Limiter:     ratelimit.New(cfg.RateLimit.Burst, cfg.RateLimit.Window),
		Counters:    counters,
		Logger:      logger,
		HistorySize: cfg.HistorySize,
	})
	go hub.Run()

	router := server.NewRouter(server.Deps{
		Accounts:    auth.NewService(st, cfg.BcryptCost),
		Hub:         hub,
		CheckOrigin: config.NewOriginPolicy(cfg.AllowedOrigins, logger).CheckOrigin,
		Gatherer:    registry,
		PublicDir:   cfg.PublicDir,
		Logger:      logger,
	})
	httpServer := server.CreateServer(cfg.Addr(), router)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.StartServer(httpServer, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = hub.Shutdown(cfg.ShutdownTimeout)
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownErr := server.ShutdownServer(httpServer, cfg.ShutdownTimeout, logger)
	if err := hub.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Warn("hub shutdown", "error", err)
	}
	return shutdownErr
}
