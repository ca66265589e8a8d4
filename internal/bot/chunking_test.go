package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTranscriptShortText(t *testing.T) {
	got := splitTranscript("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("splitTranscript() = %v, want single chunk", got)
	}
}

func TestSplitTranscriptAtLineBoundaries(t *testing.T) {
	text := strings.TrimRight(strings.Repeat("0123456789\n", 10), "\n") // 10 lines of 10 chars

	chunks := splitTranscript(text, 35)
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 35 {
			t.Errorf("chunk %d has length %d, exceeds 35", i, len(c))
		}
		for _, line := range strings.Split(c, "\n") {
			if line != "0123456789" {
				t.Errorf("chunk %d contains broken line %q", i, line)
			}
		}
	}

	if got := strings.Join(chunks, "\n"); got != text {
		t.Error("rejoined chunks do not reproduce the original text")
	}
}

func TestSplitTranscriptForceSplitsLongLine(t *testing.T) {
	line := strings.Repeat("x", 95)
	chunks := splitTranscript(line, 40)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 40 {
			t.Errorf("chunk %d has length %d, exceeds 40", i, len(c))
		}
	}
	if strings.Join(chunks, "") != line {
		t.Error("rejoined chunks do not reproduce the line")
	}
}

func TestSplitTranscriptKeepsRunesIntact(t *testing.T) {
	// One long Cyrillic line with no newlines, so every cut is a hard split.
	text := strings.TrimSpace(strings.Repeat("привет как дела ", 300))

	chunks := splitTranscript(text, maxReplyBytes)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d contains invalid UTF-8 near its boundary", i)
		}
		if len(c) > maxReplyBytes {
			t.Errorf("chunk %d has length %d, exceeds %d", i, len(c), maxReplyBytes)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("rejoined chunks do not reproduce the original text")
	}
}

func TestForceSplitBacksOffToRuneBoundary(t *testing.T) {
	line := strings.Repeat("щ", 10) // 2 bytes per rune

	parts := forceSplit(line, 5)
	for i, p := range parts {
		if !utf8.ValidString(p) {
			t.Errorf("part %d = %q is invalid UTF-8", i, p)
		}
		if len(p) > 5 {
			t.Errorf("part %d has length %d, exceeds 5", i, len(p))
		}
	}
	if strings.Join(parts, "") != line {
		t.Error("rejoined parts do not reproduce the line")
	}
}

func TestSplitTranscriptNoLimit(t *testing.T) {
	text := strings.Repeat("a", 5000)
	got := splitTranscript(text, 0)
	if len(got) != 1 {
		t.Errorf("got %d chunks, want 1 when limit disabled", len(got))
	}
}
