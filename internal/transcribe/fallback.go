package transcribe

import (
	"context"
	"fmt"
	"log/slog"
)

// Engine runs transcriptions against a primary model and retries exactly
// once with a fallback model when the first attempt fails for a reason that
// another model might survive.
type Engine struct {
	client   Transcriber
	primary  string
	fallback string
	logger   *slog.Logger
}

// NewEngine wires a Transcriber with the primary and fallback model names.
// fallback may equal primary, in which case the retry still happens but with
// the same model.
func NewEngine(client Transcriber, primary, fallback string, logger *slog.Logger) *Engine {
	return &Engine{
		client:   client,
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Transcribe tries the primary model first. On a retryable failure it makes
// one more attempt with the fallback model; there is never a third call.
func (e *Engine) Transcribe(ctx context.Context, req Request) (*Result, error) {
	req.Model = e.primary
	result, err := e.client.Transcribe(ctx, req)
	if err == nil {
		return result, nil
	}

	if !IsRetryable(err) {
		return nil, err
	}

	e.logger.Warn("primary model failed, trying fallback",
		"primary", e.primary,
		"fallback", e.fallback,
		"error", err)

	req.Model = e.fallback
	result, ferr := e.client.Transcribe(ctx, req)
	if ferr == nil {
		return result, nil
	}

	return nil, fmt.Errorf("%w: last error: %w", ErrAllModels, ferr)
}
