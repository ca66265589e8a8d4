package transcribe

import (
	"context"
	"errors"
)

// Sentinel errors for transcription operations.
var (
	// ErrUnsupportedFormat indicates the remote service rejected the audio
	// container or codec.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrAuth indicates the API key was rejected or the quota is exhausted.
	ErrAuth = errors.New("transcription auth or quota error")

	// ErrRateLimit indicates the service returned a rate limit response.
	ErrRateLimit = errors.New("transcription rate limited")

	// ErrUnavailable indicates the service is temporarily unavailable.
	ErrUnavailable = errors.New("transcription service unavailable")

	// ErrTimeout indicates the request did not complete within the deadline.
	ErrTimeout = errors.New("transcription timed out")

	// ErrAllModels indicates both the primary and the fallback model failed.
	ErrAllModels = errors.New("all transcription models failed")
)

// IsRetryable reports whether the failure is worth one more attempt with the
// fallback model. Every service failure qualifies, including a format
// rejection: models differ in what they accept, so a second opinion is
// cheap relative to failing the user. Only a cancelled caller is final,
// since it should not burn another API call.
func IsRetryable(err error) bool {
	return !errors.Is(err, context.Canceled)
}
