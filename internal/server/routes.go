package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tyrowin/boardchat/internal/realtime"
)

// Deps are the collaborators the routes serve.
type Deps struct {
	Accounts    Accounts
	Hub         *realtime.Hub
	CheckOrigin func(*http.Request) bool
	// Gatherer backs /metrics; the route is omitted when nil.
	Gatherer  prometheus.Gatherer
	PublicDir string
	Logger    *slog.Logger
}

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	authH := NewAuthHandler(deps.Accounts, logger)
	wsH := NewWebSocketHandler(deps.Hub, deps.CheckOrigin, logger)

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/ws", wsH)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
	})

	if info, err := os.Stat(deps.PublicDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(deps.PublicDir)))
	} else if deps.PublicDir != "" {
		logger.Warn("public directory not found, static client disabled", "dir", deps.PublicDir)
	}

	return r
}
