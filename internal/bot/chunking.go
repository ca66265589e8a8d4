package bot

import (
	"strings"
	"unicode/utf8"
)

// maxReplyBytes is the per-message budget for transcript chunks, in bytes.
// Telegram caps messages at 4096 characters; counting bytes is stricter than
// counting characters, so a 4000-byte chunk always fits with room for the
// part prefix.
const maxReplyBytes = 4000

// splitTranscript breaks a transcript into chunks of at most maxLen bytes,
// preferring line boundaries. A single line longer than maxLen is hard-split
// at a rune boundary so no chunk ever carries invalid UTF-8.
func splitTranscript(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	var current strings.Builder

	for _, line := range lines {
		lineWithNewline := line + "\n"

		if current.Len()+len(lineWithNewline) > maxLen {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
				current.Reset()
			}

			if len(lineWithNewline) > maxLen {
				chunks = append(chunks, forceSplit(line, maxLen)...)
				continue
			}
		}

		current.WriteString(lineWithNewline)
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
	}

	return chunks
}

// forceSplit breaks a single long line into chunks of at most maxLen bytes,
// backing each cut off to the nearest rune boundary.
func forceSplit(line string, maxLen int) []string {
	var parts []string
	for len(line) > maxLen {
		n := maxLen
		for n > 0 && !utf8.RuneStart(line[n]) {
			n--
		}
		if n == 0 {
			// Degenerate input (a run of continuation bytes); cut anyway
			// rather than loop forever.
			n = maxLen
		}
		parts = append(parts, line[:n])
		line = line[n:]
	}
	if len(line) > 0 {
		parts = append(parts, line)
	}
	return parts
}
