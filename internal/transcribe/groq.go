package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	transcriptionsPath = "/openai/v1/audio/transcriptions"

	maxErrorBodyBytes = 64 << 10
)

// Groq is an HTTP client for the Groq Whisper transcriptions endpoint.
type Groq struct {
	apiKey   string
	baseURL  string
	language string
	model    string
	http     *http.Client
}

// NewGroq creates a Groq transcription client. language may be empty for
// auto-detection; model is the default model used when a request does not
// name one.
func NewGroq(apiKey, baseURL, language, model string, timeout time.Duration) *Groq {
	return &Groq{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		model:    model,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// groqResult mirrors the verbose_json transcription response.
type groqResult struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
}

// groqError mirrors the OpenAI-compatible error envelope.
type groqError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Transcribe uploads the audio as multipart form data and returns the
// recognized text. Failures are classified into the package sentinel errors
// so the caller can decide whether a fallback attempt makes sense.
func (g *Groq) Transcribe(ctx context.Context, req Request) (*Result, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("transcribe: create form file: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("transcribe: write audio: %w", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("transcribe: write model field: %w", err)
	}
	if g.language != "" {
		if err := writer.WriteField("language", g.language); err != nil {
			return nil, fmt.Errorf("transcribe: write language field: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("transcribe: write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("transcribe: close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+transcriptionsPath, body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}

	var out groqResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("transcribe: decode response: %w", err)
	}

	return &Result{
		Text:     strings.TrimSpace(out.Text),
		Duration: out.Duration,
		Language: out.Language,
		Model:    model,
	}, nil
}

// classifyTransport maps transport-level failures onto sentinel errors.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("transcribe: %w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("transcribe: %w: %w", ErrUnavailable, err)
}

// classifyStatus maps non-200 responses onto sentinel errors. The body is
// read with a cap — error payloads are small, and a misbehaving server must
// not make us buffer gigabytes.
func classifyStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	msg := http.StatusText(resp.StatusCode)
	var envelope groqError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "format") || strings.Contains(lower, "unsupported") || strings.Contains(lower, "could not process") {
			return fmt.Errorf("transcribe: %w: %s", ErrUnsupportedFormat, msg)
		}
		return fmt.Errorf("transcribe: %w: bad request: %s", ErrUnavailable, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("transcribe: %w: %s", ErrAuth, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("transcribe: %w: %s", ErrRateLimit, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("transcribe: %w: %d %s", ErrUnavailable, resp.StatusCode, msg)
	default:
		return fmt.Errorf("transcribe: %w: unexpected status %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}
}
