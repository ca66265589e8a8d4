// Package app wires the bot together and runs it until a shutdown signal.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flemzord/scribe/internal/access"
	"github.com/flemzord/scribe/internal/bot"
	"github.com/flemzord/scribe/internal/config"
	"github.com/flemzord/scribe/internal/gateway"
	"github.com/flemzord/scribe/internal/summary"
	"github.com/flemzord/scribe/internal/telegram"
	"github.com/flemzord/scribe/internal/transcribe"
)

// startupTimeout bounds the Telegram API calls made during startup and
// shutdown (getMe, webhook registration and removal).
const startupTimeout = 30 * time.Second

// pollingTimeout is the long-poll duration passed to getUpdates, in seconds.
const pollingTimeout = 30

// RunParams configures Run.
type RunParams struct {
	// ConfigPath is an optional path to a YAML configuration file.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string
}

// Run loads configuration, starts the chosen update transport, and blocks
// until SIGINT or SIGTERM.
func Run(params RunParams) error {
	settings, err := config.Load(params.ConfigPath)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(settings.LogLevel),
	}))

	logger.Info("starting scribe",
		"version", params.Version,
		"commit", params.Commit,
		"mode", settings.Mode)

	client := telegram.NewClient(settings.TelegramToken, settings.TelegramAPIURL)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	me, err := client.GetMe(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("app: telegram token check failed: %w", err)
	}
	logger.Info("authorized", "bot", "@"+me.Username, "id", me.ID)

	allow := access.New(settings.Allowlist)
	if allow.Empty() {
		logger.Warn("allowlist is empty, every sender will be denied")
	}

	groq := transcribe.NewGroq(
		settings.GroqAPIKey,
		settings.GroqAPIURL,
		settings.Language,
		settings.ModelPrimary,
		settings.ReadTimeout,
	)
	engine := transcribe.NewEngine(groq, settings.ModelPrimary, settings.ModelFallback, logger)

	var summarizer *summary.Client
	if settings.OpenAIAPIKey != "" {
		summarizer = summary.New(settings.OpenAIAPIKey, logger)
		logger.Info("transcript summaries enabled")
	}

	metrics := gateway.NewMetrics()

	handler := bot.New(bot.Config{
		Client:     client,
		Allow:      allow,
		Engine:     engine,
		Summarizer: summarizer,
		Recorder:   metrics,
		Logger:     logger,
	})

	switch settings.Mode {
	case "polling":
		return runPolling(client, handler, logger)
	case "webhook":
		return runWebhook(settings, client, handler, metrics, logger)
	default:
		return fmt.Errorf("app: unknown mode %q", settings.Mode)
	}
}

// runPolling drops any stale webhook and long-polls for updates.
func runPolling(client *telegram.Client, handler *bot.Handler, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	err := client.DeleteWebhook(ctx, true)
	cancel()
	if err != nil {
		return fmt.Errorf("app: delete webhook before polling: %w", err)
	}

	poller := telegram.NewPoller(client, handler.HandleUpdate, logger, pollingTimeout, []string{"message"})
	poller.Start()
	logger.Info("polling for updates")

	waitForSignal(logger)

	poller.Stop()
	logger.Info("shutdown complete")
	return nil
}

// runWebhook serves the gateway and registers the webhook with Telegram.
func runWebhook(settings *config.Settings, client *telegram.Client, handler *bot.Handler, metrics *gateway.Metrics, logger *slog.Logger) error {
	gw := gateway.New(gateway.Config{
		Bind:   settings.Bind,
		Secret: settings.WebhookSecret,
	}, handler.HandleUpdate, metrics, logger)

	if err := gw.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	err := client.SetWebhook(ctx, telegram.SetWebhookRequest{
		URL:                settings.WebhookURL(),
		SecretToken:        settings.WebhookSecret,
		AllowedUpdates:     []string{"message"},
		DropPendingUpdates: true,
	})
	cancel()
	if err != nil {
		_ = gw.Stop(context.Background())
		return fmt.Errorf("app: set webhook: %w", err)
	}
	// The full URL embeds the secret, so log only the base.
	logger.Info("webhook registered", "base_url", settings.PublicBaseURL)

	waitForSignal(logger)

	ctx, cancel = context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := client.DeleteWebhook(ctx, false); err != nil {
		logger.Error("failed to delete webhook", "error", err)
	}
	if err := gw.Stop(ctx); err != nil {
		logger.Error("gateway shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func waitForSignal(logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())
}

// slogLevel maps the validated config value onto a slog level.
func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
