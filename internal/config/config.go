// Package config loads and validates scribe's runtime settings.
//
// Settings come from three layers, lowest precedence first: an optional YAML
// configuration file, the process environment, and built-in defaults for
// anything still unset. A .env file in the working directory is folded into
// the environment before resolution, so containerized and local runs behave
// the same way.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Settings is the immutable runtime configuration. It is resolved once at
// startup and shared read-only across the bot, transport, and clients.
type Settings struct {
	// TelegramToken is the Bot API token issued by @BotFather.
	TelegramToken string `yaml:"telegram_token"`

	// GroqAPIKey authenticates transcription calls.
	GroqAPIKey string `yaml:"groq_api_key"`

	// Mode selects the update transport: "webhook" or "polling".
	Mode string `yaml:"mode"`

	// PublicBaseURL is the externally reachable base URL used to build the
	// webhook endpoint. Required in webhook mode.
	PublicBaseURL string `yaml:"public_base_url"`

	// WebhookSecret is embedded in the webhook path and asserted against the
	// X-Telegram-Bot-Api-Secret-Token header. Required in webhook mode.
	WebhookSecret string `yaml:"webhook_secret"`

	// Allowlist holds permitted sender identities: numeric user IDs or
	// usernames, with or without a leading @.
	Allowlist []string `yaml:"allowlist"`

	// Bind is the listen address for the webhook server.
	Bind string `yaml:"bind"`

	// ReadTimeout bounds outbound transcription calls.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// ModelPrimary and ModelFallback identify the Groq Whisper models tried
	// in order until one succeeds.
	ModelPrimary  string `yaml:"model_primary"`
	ModelFallback string `yaml:"model_fallback"`

	// Language is an optional hint passed to the transcription API.
	// Empty means auto-detect.
	Language string `yaml:"language"`

	// OpenAIAPIKey enables best-effort summaries for long transcripts.
	// Empty disables the feature.
	OpenAIAPIKey string `yaml:"openai_api_key"`

	// TelegramAPIURL and GroqAPIURL override the upstream base URLs.
	// Used by tests and self-hosted Bot API servers.
	TelegramAPIURL string `yaml:"telegram_api_url"`
	GroqAPIURL     string `yaml:"groq_api_url"`

	// LogLevel sets the minimum slog level: debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`
}

// defaults fills zero values with sensible defaults.
func (s *Settings) defaults() {
	if s.Mode == "" {
		s.Mode = "webhook"
	}
	if s.Bind == "" {
		s.Bind = ":8080"
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 120 * time.Second
	}
	if s.ModelPrimary == "" {
		s.ModelPrimary = "whisper-large-v3-turbo"
	}
	if s.ModelFallback == "" {
		s.ModelFallback = "whisper-large-v3"
	}
	if s.TelegramAPIURL == "" {
		s.TelegramAPIURL = "https://api.telegram.org"
	}
	if s.GroqAPIURL == "" {
		s.GroqAPIURL = "https://api.groq.com"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// Validate checks the resolved settings and reports every problem at once.
func (s *Settings) Validate() error {
	var errs []error

	if s.TelegramToken == "" {
		errs = append(errs, errors.New("config: telegram token is required"))
	}
	if s.GroqAPIKey == "" {
		errs = append(errs, errors.New("config: groq api key is required"))
	}

	switch s.Mode {
	case "polling":
	case "webhook":
		if s.PublicBaseURL == "" {
			errs = append(errs, errors.New("config: public base URL is required in webhook mode"))
		} else if u, err := url.Parse(s.PublicBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("config: public base URL must be a valid http/https URL, got %q", s.PublicBaseURL))
		}
		if s.WebhookSecret == "" {
			errs = append(errs, errors.New("config: webhook secret is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: invalid mode %q (must be \"polling\" or \"webhook\")", s.Mode))
	}

	if s.ReadTimeout < time.Second || s.ReadTimeout > 10*time.Minute {
		errs = append(errs, fmt.Errorf("config: read timeout must be 1s-10m, got %s", s.ReadTimeout))
	}

	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config: invalid log level %q", s.LogLevel))
	}

	return errors.Join(errs...)
}

// WebhookURL returns the full webhook endpoint registered with Telegram.
func (s *Settings) WebhookURL() string {
	return strings.TrimRight(s.PublicBaseURL, "/") + "/tg/" + s.WebhookSecret
}
