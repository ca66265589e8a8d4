// Package bot implements the update handling logic: access control, command
// replies, and the voice-to-transcript flow.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/flemzord/scribe/internal/access"
	"github.com/flemzord/scribe/internal/summary"
	"github.com/flemzord/scribe/internal/telegram"
	"github.com/flemzord/scribe/internal/transcribe"
)

// Recorder receives handler events for metrics. Implementations must be safe
// for concurrent use.
type Recorder interface {
	UpdateReceived(kind string)
	AccessDenied()
	TranscriptionObserved(model, outcome string, seconds float64)
	ReplySent()
}

type nopRecorder struct{}

func (nopRecorder) UpdateReceived(string)                        {}
func (nopRecorder) AccessDenied()                                {}
func (nopRecorder) TranscriptionObserved(string, string, float64) {}
func (nopRecorder) ReplySent()                                   {}

// Config carries the handler's dependencies. Summarizer and Recorder are
// optional.
type Config struct {
	Client     *telegram.Client
	Allow      *access.AllowList
	Engine     transcribe.Transcriber
	Summarizer *summary.Client
	Recorder   Recorder
	Logger     *slog.Logger
}

// Handler processes incoming Telegram updates.
type Handler struct {
	client     *telegram.Client
	allow      *access.AllowList
	engine     transcribe.Transcriber
	summarizer *summary.Client
	rec        Recorder
	logger     *slog.Logger
}

// New creates a Handler from cfg.
func New(cfg Config) *Handler {
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Handler{
		client:     cfg.Client,
		allow:      cfg.Allow,
		engine:     cfg.Engine,
		summarizer: cfg.Summarizer,
		rec:        rec,
		logger:     cfg.Logger,
	}
}

// HandleUpdate processes one update. It never panics: a panic anywhere in
// the flow is recovered, logged, and answered with a generic failure reply
// so one malformed update cannot take the bot down.
func (h *Handler) HandleUpdate(ctx context.Context, update *telegram.Update) {
	if update == nil || update.Message == nil {
		return
	}
	m := update.Message

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in update handler",
				"update_id", update.UpdateID,
				"panic", r,
				"stack", string(debug.Stack()))
			h.reply(ctx, m, msgGeneralError)
		}
	}()

	h.rec.UpdateReceived(updateKind(m))

	if !h.allowed(m) {
		h.rec.AccessDenied()
		h.logger.Info("access denied", "chat_id", m.Chat.ID, "user", senderLabel(m))
		h.reply(ctx, m, msgAccessDenied)
		return
	}

	if cmd := command(m.Text); cmd != "" {
		h.handleCommand(ctx, m, cmd)
		return
	}

	media, err := extractMedia(m)
	if err != nil {
		// A document that is not audio.
		h.reply(ctx, m, msgUnsupportedFormat)
		return
	}
	if media == nil {
		// Plain text or other content. Nothing to do.
		return
	}

	h.handleMedia(ctx, m, media)
}

func (h *Handler) allowed(m *telegram.Message) bool {
	if m.From == nil {
		return false
	}
	return h.allow.Allowed(m.From.ID, m.From.Username)
}

func (h *Handler) handleCommand(ctx context.Context, m *telegram.Message, cmd string) {
	switch cmd {
	case "start":
		h.reply(ctx, m, msgStart)
	case "help":
		h.reply(ctx, m, msgHelp)
	default:
		// Unknown commands are ignored.
	}
}

func (h *Handler) handleMedia(ctx context.Context, m *telegram.Message, media *mediaInfo) {
	h.logger.Info("processing media",
		"kind", media.kind,
		"chat_id", m.Chat.ID,
		"file_id", media.fileID,
		"size", media.size,
		"duration", media.duration)

	processing, err := h.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:           m.Chat.ID,
		Text:             msgProcessing,
		ReplyToMessageID: m.MessageID,
	})
	if err != nil {
		h.logger.Error("failed to send processing message", "error", err)
		return
	}

	if err := h.client.SendChatAction(ctx, m.Chat.ID, "typing"); err != nil {
		h.logger.Debug("failed to send chat action", "error", err)
	}

	if media.size > maxFileBytes {
		h.edit(ctx, m.Chat.ID, processing.MessageID, msgFileTooLarge)
		return
	}

	file, err := h.client.GetFile(ctx, media.fileID)
	if err != nil || file.FilePath == "" {
		h.logger.Error("getFile failed", "file_id", media.fileID, "error", err)
		h.edit(ctx, m.Chat.ID, processing.MessageID, msgDownloadError)
		return
	}
	if file.FileSize > maxFileBytes {
		h.edit(ctx, m.Chat.ID, processing.MessageID, msgFileTooLarge)
		return
	}

	data, err := h.client.DownloadFile(ctx, file.FilePath, maxFileBytes)
	if err != nil {
		h.logger.Error("download failed", "file_path", file.FilePath, "error", err)
		h.edit(ctx, m.Chat.ID, processing.MessageID, msgDownloadError)
		return
	}

	start := time.Now()
	result, err := h.engine.Transcribe(ctx, transcribe.Request{
		Data:     data,
		Filename: media.filename,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		h.rec.TranscriptionObserved("", outcomeFor(err), elapsed)
		h.logger.Error("transcription failed", "error", err)
		h.edit(ctx, m.Chat.ID, processing.MessageID, errorReply(err))
		return
	}
	h.rec.TranscriptionObserved(result.Model, "ok", elapsed)

	text := strings.TrimSpace(result.Text)
	if text == "" {
		h.edit(ctx, m.Chat.ID, processing.MessageID, msgEmptyTranscription)
		return
	}

	h.logger.Info("transcription complete",
		"model", result.Model,
		"chars", len(text),
		"audio_seconds", result.Duration,
		"took_seconds", elapsed)

	h.deliver(ctx, m, processing.MessageID, text)
	h.maybeSummarize(ctx, m, text)
}

// deliver sends the transcript: in place of the processing message when it
// fits, otherwise as a numbered series of messages.
func (h *Handler) deliver(ctx context.Context, m *telegram.Message, processingID int, text string) {
	if len(text) <= maxReplyBytes {
		h.edit(ctx, m.Chat.ID, processingID, text)
		h.rec.ReplySent()
		return
	}

	if err := h.client.DeleteMessage(ctx, m.Chat.ID, processingID); err != nil {
		h.logger.Debug("failed to delete processing message", "error", err)
	}

	parts := splitTranscript(text, maxReplyBytes)
	for i, part := range parts {
		req := telegram.SendMessageRequest{
			ChatID: m.Chat.ID,
			Text:   fmt.Sprintf("Part %d/%d:\n\n%s", i+1, len(parts), part),
		}
		if i == 0 {
			req.ReplyToMessageID = m.MessageID
		}
		if _, err := h.client.SendMessage(ctx, req); err != nil {
			h.logger.Error("failed to send transcript part",
				"part", i+1, "total", len(parts), "error", err)
			return
		}
		h.rec.ReplySent()
	}
}

// maybeSummarize appends a generated summary for long transcripts. Summary
// failures are logged and swallowed, the transcript is already delivered.
func (h *Handler) maybeSummarize(ctx context.Context, m *telegram.Message, text string) {
	if h.summarizer == nil || !h.summarizer.Enabled() {
		return
	}
	if len(text) < summary.MinTranscriptChars {
		return
	}

	s, err := h.summarizer.Summarize(ctx, text)
	if err != nil {
		h.logger.Warn("summary generation failed", "error", err)
		return
	}
	if s == "" {
		return
	}

	if _, err := h.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID: m.Chat.ID,
		Text:   "Summary:\n\n" + s,
	}); err != nil {
		h.logger.Warn("failed to send summary", "error", err)
		return
	}
	h.rec.ReplySent()
}

// reply sends text as a reply to m, logging failures.
func (h *Handler) reply(ctx context.Context, m *telegram.Message, text string) {
	if _, err := h.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:           m.Chat.ID,
		Text:             text,
		ReplyToMessageID: m.MessageID,
	}); err != nil {
		h.logger.Error("failed to send reply", "chat_id", m.Chat.ID, "error", err)
	}
}

// edit replaces the text of an existing message, logging failures.
func (h *Handler) edit(ctx context.Context, chatID int64, messageID int, text string) {
	if _, err := h.client.EditMessageText(ctx, telegram.EditMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}); err != nil {
		h.logger.Error("failed to edit message", "chat_id", chatID, "error", err)
	}
}

// errorReply maps a transcription failure onto a user-facing message.
func errorReply(err error) string {
	switch {
	case errors.Is(err, transcribe.ErrUnsupportedFormat):
		return msgUnsupportedFormat
	case errors.Is(err, transcribe.ErrTimeout):
		return msgTimeout
	case errors.Is(err, transcribe.ErrAuth),
		errors.Is(err, transcribe.ErrRateLimit),
		errors.Is(err, transcribe.ErrUnavailable),
		errors.Is(err, transcribe.ErrAllModels):
		return msgServiceUnavailable
	default:
		return msgGeneralError
	}
}

// outcomeFor labels a transcription failure for metrics.
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, transcribe.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, transcribe.ErrTimeout):
		return "timeout"
	case errors.Is(err, transcribe.ErrRateLimit):
		return "rate_limited"
	case errors.Is(err, transcribe.ErrAuth):
		return "auth"
	case errors.Is(err, transcribe.ErrUnavailable):
		return "unavailable"
	default:
		return "failed"
	}
}

// command extracts the command name from a message text, stripping the
// leading slash and any @botname suffix. Returns "" for non-commands.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	fields := strings.Fields(text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd
}

// updateKind classifies a message for metrics.
func updateKind(m *telegram.Message) string {
	switch {
	case m.Voice != nil:
		return "voice"
	case m.Audio != nil:
		return "audio"
	case m.Document != nil:
		return "document"
	case command(m.Text) != "":
		return "command"
	case m.Text != "":
		return "text"
	default:
		return "other"
	}
}

// senderLabel formats the sender for logs.
func senderLabel(m *telegram.Message) string {
	if m.From == nil {
		return "unknown"
	}
	if m.From.Username != "" {
		return "@" + m.From.Username
	}
	return fmt.Sprintf("id:%d", m.From.ID)
}
