// Package summary generates short digests of long transcripts through the
// OpenAI chat completions API. Summaries are a best-effort add-on: callers
// log failures and carry on without one.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-5-nano"

	// MinTranscriptChars is the transcript length below which a summary adds
	// nothing over just reading the text.
	MinTranscriptChars = 2000

	maxResponseBytes = 10 << 20
)

const systemPrompt = "You are an analyst and editor who writes accurate, concise and useful " +
	"summaries of audio transcripts. Never invent facts; if information is " +
	"missing, say so explicitly. Preserve names, dates, numbers and the " +
	"wording of decisions."

// Client talks to the OpenAI chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	logger  *slog.Logger
	http    *http.Client
}

// New creates a summary client. An empty apiKey produces a disabled client;
// Summarize then returns an empty string without calling the API.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		logger:  logger,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	MaxTokens        int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize returns a digest of the transcript, or an empty string when the
// client is disabled or the transcript is empty.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", nil
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(transcript)},
		},
		Temperature:      0.2,
		TopP:             1.0,
		FrequencyPenalty: 0.2,
		MaxTokens:        maxTokensFor(transcript),
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("summary: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("summary: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("summary: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("summary: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary: unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("summary: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("summary: response has no choices")
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("summary: response is empty")
	}

	c.logger.Debug("generated summary", "chars", len(text), "model", c.model)
	return text, nil
}

// maxTokensFor scales the completion budget with transcript length. Roughly
// 1200 words is ten minutes of speech.
func maxTokensFor(transcript string) int {
	words := len(strings.Fields(transcript))
	switch {
	case words < 1200:
		return 500
	case words < 6000:
		return 1000
	default:
		return 1500
	}
}

func buildPrompt(transcript string) string {
	return "Summarize the transcribed audio below. Scale the level of detail " +
		"to the length of the text.\n\n" +
		"Requirements:\n" +
		"- Neutral, businesslike tone, no emoji.\n" +
		"- Structure when applicable: TL;DR (1-3 sentences); main topics as " +
		"bullets; decisions reached; action items (who, what, when); exact " +
		"numbers, dates and names; open questions and risks.\n" +
		"- Brevity over verbatim retelling. Drop repetitions and filler.\n" +
		"- Invent nothing. If something is absent from the text, say so.\n\n" +
		"Text:\n<<<TRANSCRIPT_START\n" + transcript + "\nTRANSCRIPT_END>>>"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
