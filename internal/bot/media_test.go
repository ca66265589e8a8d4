package bot

import (
	"errors"
	"testing"

	"github.com/flemzord/scribe/internal/telegram"
)

func TestExtractMedia(t *testing.T) {
	tests := []struct {
		name         string
		msg          *telegram.Message
		wantNil      bool
		wantErr      error
		wantFilename string
		wantKind     string
	}{
		{
			name:         "voice",
			msg:          &telegram.Message{Voice: &telegram.Voice{FileID: "v1", Duration: 3}},
			wantFilename: "voice.ogg",
			wantKind:     "voice",
		},
		{
			name:         "audio with filename",
			msg:          &telegram.Message{Audio: &telegram.Audio{FileID: "a1", FileName: "song.m4a"}},
			wantFilename: "song.m4a",
			wantKind:     "audio",
		},
		{
			name:         "audio without filename",
			msg:          &telegram.Message{Audio: &telegram.Audio{FileID: "a2"}},
			wantFilename: "audio.mp3",
			wantKind:     "audio",
		},
		{
			name:         "audio filename without extension",
			msg:          &telegram.Message{Audio: &telegram.Audio{FileID: "a3", FileName: "recording"}},
			wantFilename: "audio.mp3",
			wantKind:     "audio",
		},
		{
			name:         "audio document by mime",
			msg:          &telegram.Message{Document: &telegram.Document{FileID: "d1", FileName: "note.bin", MIMEType: "audio/mpeg"}},
			wantFilename: "note.bin",
			wantKind:     "document",
		},
		{
			name:         "audio document by extension",
			msg:          &telegram.Message{Document: &telegram.Document{FileID: "d2", FileName: "Meeting.WAV"}},
			wantFilename: "Meeting.WAV",
			wantKind:     "document",
		},
		{
			name:    "pdf document",
			msg:     &telegram.Message{Document: &telegram.Document{FileID: "d3", FileName: "report.pdf", MIMEType: "application/pdf"}},
			wantErr: errNotAudio,
		},
		{
			name:    "text only",
			msg:     &telegram.Message{Text: "hello"},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractMedia(tt.msg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMedia() error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil, want media")
			}
			if got.filename != tt.wantFilename {
				t.Errorf("filename = %q, want %q", got.filename, tt.wantFilename)
			}
			if got.kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.kind, tt.wantKind)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/help extra words", "help"},
		{"/start@scribe_bot", "start"},
		{"  /help  ", "help"},
		{"hello", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := command(tt.text); got != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
