// Package gateway is the HTTP surface of the bot in webhook mode: the
// Telegram webhook endpoint, a health check, and Prometheus metrics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flemzord/scribe/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// Config holds the gateway's settings.
type Config struct {
	// Bind is the listen address, e.g. ":8080".
	Bind string

	// Secret is the webhook secret. It must match both the URL path segment
	// and the X-Telegram-Bot-Api-Secret-Token header on incoming requests.
	Secret string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c *Config) defaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
}

// Gateway serves the webhook, health, and metrics endpoints.
type Gateway struct {
	config    Config
	handler   telegram.UpdateHandler
	metrics   *Metrics
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a Gateway dispatching validated updates to handler.
func New(cfg Config, handler telegram.UpdateHandler, metrics *Metrics, logger *slog.Logger) *Gateway {
	cfg.defaults()
	return &Gateway{
		config:  cfg,
		handler: handler,
		metrics: metrics,
		logger:  logger,
	}
}

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/", g.handleHealth())
	r.Get("/metrics", g.metrics.Handler().ServeHTTP)
	r.Post("/tg/{secret}", g.handleWebhook())

	return r
}

// Start begins serving in a background goroutine. It returns once the
// listener is bound, so a failure to bind surfaces immediately.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
