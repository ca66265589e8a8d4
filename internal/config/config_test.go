package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for a valid webhook-mode load.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "12345:TEST")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PUBLIC_BASE_URL", "https://bot.example.com")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("ALLOWLIST", "123456789,@bob")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if s.TelegramToken != "12345:TEST" {
		t.Errorf("TelegramToken = %q", s.TelegramToken)
	}
	if s.Mode != "webhook" {
		t.Errorf("Mode = %q, want %q", s.Mode, "webhook")
	}
	if len(s.Allowlist) != 2 || s.Allowlist[0] != "123456789" || s.Allowlist[1] != "@bob" {
		t.Errorf("Allowlist = %v", s.Allowlist)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Bind != ":8080" {
		t.Errorf("Bind = %q, want %q", s.Bind, ":8080")
	}
	if s.ReadTimeout != 120*time.Second {
		t.Errorf("ReadTimeout = %s, want 2m0s", s.ReadTimeout)
	}
	if s.ModelPrimary != "whisper-large-v3-turbo" {
		t.Errorf("ModelPrimary = %q", s.ModelPrimary)
	}
	if s.ModelFallback != "whisper-large-v3" {
		t.Errorf("ModelFallback = %q", s.ModelFallback)
	}
	if s.GroqAPIURL != "https://api.groq.com" {
		t.Errorf("GroqAPIURL = %q", s.GroqAPIURL)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USE_WEBHOOK", "false")
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT_SEC", "30")
	t.Setenv("GROQ_MODEL_PRIMARY", "whisper-test")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Mode != "polling" {
		t.Errorf("Mode = %q, want %q", s.Mode, "polling")
	}
	if s.Bind != ":9090" {
		t.Errorf("Bind = %q, want %q", s.Bind, ":9090")
	}
	if s.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %s, want 30s", s.ReadTimeout)
	}
	if s.ModelPrimary != "whisper-test" {
		t.Errorf("ModelPrimary = %q, want %q", s.ModelPrimary, "whisper-test")
	}
}

func TestLoadBadEnvValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USE_WEBHOOK", "maybe")
	t.Setenv("PORT", "eighty")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for malformed env values")
	}
	if !strings.Contains(err.Error(), "USE_WEBHOOK") {
		t.Errorf("error should mention USE_WEBHOOK: %v", err)
	}
	if !strings.Contains(err.Error(), "PORT") {
		t.Errorf("error should mention PORT: %v", err)
	}
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GROQ_MODEL_PRIMARY", "from-env")

	path := filepath.Join(t.TempDir(), "scribe.yaml")
	data := "mode: polling\nmodel_primary: from-file\nlanguage: ru\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Mode != "polling" {
		t.Errorf("Mode = %q, want %q (from file)", s.Mode, "polling")
	}
	if s.Language != "ru" {
		t.Errorf("Language = %q, want %q (from file)", s.Language, "ru")
	}
	if s.ModelPrimary != "from-env" {
		t.Errorf("ModelPrimary = %q, want %q (env wins)", s.ModelPrimary, "from-env")
	}
}

func TestLoadYAMLExpandsVariables(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MY_LANG", "de")

	path := filepath.Join(t.TempDir(), "scribe.yaml")
	data := "language: ${MY_LANG}\nbind: ${MY_BIND:-:7070}\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Language != "de" {
		t.Errorf("Language = %q, want %q", s.Language, "de")
	}
	if s.Bind != ":7070" {
		t.Errorf("Bind = %q, want %q (default expansion)", s.Bind, ":7070")
	}
}

func TestLoadYAMLUnresolvedVariable(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "scribe.yaml")
	if err := os.WriteFile(path, []byte("language: ${SCRIBE_NO_SUCH_VAR}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "SCRIBE_NO_SUCH_VAR") {
		t.Fatalf("expected unresolved variable error, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"missing token", func(s *Settings) { s.TelegramToken = "" }, "telegram token"},
		{"missing groq key", func(s *Settings) { s.GroqAPIKey = "" }, "groq api key"},
		{"bad mode", func(s *Settings) { s.Mode = "carrier-pigeon" }, "invalid mode"},
		{"webhook without base url", func(s *Settings) { s.PublicBaseURL = "" }, "public base URL"},
		{"webhook bad base url", func(s *Settings) { s.PublicBaseURL = "not a url\x7f" }, "public base URL"},
		{"webhook without secret", func(s *Settings) { s.WebhookSecret = "" }, "webhook secret"},
		{"timeout too small", func(s *Settings) { s.ReadTimeout = 10 * time.Millisecond }, "read timeout"},
		{"bad log level", func(s *Settings) { s.LogLevel = "loud" }, "log level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &Settings{
				TelegramToken: "12345:TEST",
				GroqAPIKey:    "gsk_test",
				Mode:          "webhook",
				PublicBaseURL: "https://bot.example.com",
				WebhookSecret: "s3cret",
			}
			s.defaults()
			tc.mutate(s)

			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidatePollingNeedsNoWebhookSettings(t *testing.T) {
	s := &Settings{
		TelegramToken: "12345:TEST",
		GroqAPIKey:    "gsk_test",
		Mode:          "polling",
	}
	s.defaults()
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestWebhookURL(t *testing.T) {
	s := &Settings{PublicBaseURL: "https://bot.example.com/", WebhookSecret: "abc"}
	if got, want := s.WebhookURL(), "https://bot.example.com/tg/abc"; got != want {
		t.Errorf("WebhookURL() = %q, want %q", got, want)
	}
}
