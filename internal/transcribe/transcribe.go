// Package transcribe wraps the Groq Whisper speech-to-text API and adds
// primary/fallback model failover on top of it.
package transcribe

import "context"

// Request carries one audio payload to the speech-to-text API. The filename
// extension is how the remote service detects the container format, so it
// must reflect the actual media type.
type Request struct {
	Data     []byte
	Filename string

	// Model overrides the client's default model identifier.
	Model string
}

// Result is a completed transcription.
type Result struct {
	Text     string
	Duration float64
	Language string

	// Model is the model identifier that produced the text.
	Model string
}

// Transcriber converts audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
}
