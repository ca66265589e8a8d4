package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPattern matches ${VAR} and ${VAR:-default} expressions in YAML files.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load resolves the full settings chain: .env file, optional YAML file,
// environment overrides, defaults. path may be empty, in which case
// configuration is environment-only.
func Load(path string) (*Settings, error) {
	// A missing .env is normal — deployments usually inject real env vars.
	_ = godotenv.Load()

	var s Settings

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		expanded, err := expandEnv(raw)
		if err != nil {
			return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
		}
		if err := yaml.Unmarshal(expanded, &s); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	s.defaults()

	return &s, nil
}

// applyEnv overlays environment variables onto the settings.
// Environment values always win over file values.
func (s *Settings) applyEnv() error {
	var errs []error

	setString(&s.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&s.GroqAPIKey, "GROQ_API_KEY")
	setString(&s.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&s.WebhookSecret, "WEBHOOK_SECRET")
	setString(&s.ModelPrimary, "GROQ_MODEL_PRIMARY")
	setString(&s.ModelFallback, "GROQ_MODEL_FALLBACK")
	setString(&s.Language, "TRANSCRIBE_LANGUAGE")
	setString(&s.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.TelegramAPIURL, "TELEGRAM_API_URL")
	setString(&s.GroqAPIURL, "GROQ_API_URL")
	setString(&s.LogLevel, "SCRIBE_LOG_LEVEL")

	if v, ok := os.LookupEnv("ALLOWLIST"); ok {
		s.Allowlist = splitList(v)
	}

	if v, ok := os.LookupEnv("USE_WEBHOOK"); ok {
		use, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: USE_WEBHOOK: %w", err))
		} else if use {
			s.Mode = "webhook"
		} else {
			s.Mode = "polling"
		}
	}

	if v, ok := os.LookupEnv("PORT"); ok {
		if _, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("config: PORT: %w", err))
		} else {
			s.Bind = ":" + v
		}
	}

	if v, ok := os.LookupEnv("READ_TIMEOUT_SEC"); ok {
		sec, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: READ_TIMEOUT_SEC: %w", err))
		} else {
			s.ReadTimeout = time.Duration(sec) * time.Second
		}
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// splitList parses a comma-separated allowlist, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// expandEnv replaces ${VAR} and ${VAR:-default} patterns in raw YAML bytes.
// Returns an error listing all unresolved variables (no default, no env value).
func expandEnv(raw []byte) ([]byte, error) {
	var errs []error

	result := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		subs := envPattern.FindSubmatch(match)
		name := string(subs[1])
		hasDefault := len(subs) > 2 && subs[2] != nil
		defaultVal := ""
		if hasDefault {
			defaultVal = string(subs[2])
		}

		value, ok := os.LookupEnv(name)
		if ok {
			return []byte(value)
		}

		if hasDefault {
			return []byte(defaultVal)
		}

		errs = append(errs, fmt.Errorf("unresolved variable: %s", name))
		return match
	})

	return result, errors.Join(errs...)
}
