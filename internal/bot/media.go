package bot

import (
	"errors"
	"path"
	"strings"

	"github.com/flemzord/scribe/internal/telegram"
)

// maxFileBytes is the Bot API download limit. Telegram refuses getFile for
// anything larger, so we reject early instead of burning a round trip.
const maxFileBytes int64 = 20 << 20

var errNotAudio = errors.New("document is not an audio file")

var audioExtensions = map[string]bool{
	".aac":  true,
	".flac": true,
	".m4a":  true,
	".mp3":  true,
	".mp4":  true,
	".mpeg": true,
	".oga":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".webm": true,
}

// mediaInfo describes one transcribable attachment.
type mediaInfo struct {
	fileID string

	// filename is the name the audio is uploaded under. The transcription
	// service detects the container format from its extension.
	filename string

	size     int64
	duration int
	kind     string
}

// extractMedia pulls the transcribable attachment out of a message. It
// returns nil when the message carries no media, and errNotAudio when a
// document attachment is clearly not audio.
func extractMedia(m *telegram.Message) (*mediaInfo, error) {
	switch {
	case m.Voice != nil:
		return &mediaInfo{
			fileID:   m.Voice.FileID,
			filename: "voice.ogg",
			size:     m.Voice.FileSize,
			duration: m.Voice.Duration,
			kind:     "voice",
		}, nil

	case m.Audio != nil:
		return &mediaInfo{
			fileID:   m.Audio.FileID,
			filename: uploadName(m.Audio.FileName, ".mp3"),
			size:     m.Audio.FileSize,
			duration: m.Audio.Duration,
			kind:     "audio",
		}, nil

	case m.Document != nil:
		if !isAudioDocument(m.Document) {
			return nil, errNotAudio
		}
		return &mediaInfo{
			fileID:   m.Document.FileID,
			filename: uploadName(m.Document.FileName, ".mp3"),
			size:     m.Document.FileSize,
			kind:     "document",
		}, nil
	}

	return nil, nil
}

// uploadName keeps the original filename when it has an extension and falls
// back to a generic name with defaultExt otherwise.
func uploadName(original, defaultExt string) string {
	if original != "" && path.Ext(original) != "" {
		return original
	}
	return "audio" + defaultExt
}

func isAudioDocument(d *telegram.Document) bool {
	if strings.HasPrefix(d.MIMEType, "audio/") {
		return true
	}
	if d.FileName != "" && audioExtensions[strings.ToLower(path.Ext(d.FileName))] {
		return true
	}
	return false
}
