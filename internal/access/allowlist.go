// Package access implements the sender allowlist gate.
package access

import (
	"strconv"
	"strings"
)

// AllowList controls which Telegram users may talk to the bot. Entries are
// numeric user IDs or usernames (with or without a leading @). An empty or
// nil AllowList denies everyone — security by default.
type AllowList struct {
	ids       map[int64]struct{}
	usernames map[string]struct{}
}

// New creates an AllowList with O(1) lookups. Entries are trimmed, lowercased,
// and stripped of a leading @ at construction time so that Allowed can use
// direct map lookups.
func New(entries []string) *AllowList {
	a := &AllowList{
		ids:       make(map[int64]struct{}, len(entries)),
		usernames: make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		e = normalize(e)
		if e == "" {
			continue
		}
		if id, err := strconv.ParseInt(e, 10, 64); err == nil {
			a.ids[id] = struct{}{}
			continue
		}
		a.usernames[e] = struct{}{}
	}
	return a
}

// Allowed reports whether the sender is permitted.
//
// Rules:
//   - If the list is empty → deny (no one is allowed).
//   - If the sender's numeric ID matches an ID entry → allow.
//   - If the sender's username matches a username entry → allow.
//   - Otherwise → deny.
func (a *AllowList) Allowed(id int64, username string) bool {
	if a == nil || (len(a.ids) == 0 && len(a.usernames) == 0) {
		return false
	}

	if _, ok := a.ids[id]; ok {
		return true
	}
	if username != "" {
		if _, ok := a.usernames[normalize(username)]; ok {
			return true
		}
	}
	return false
}

// Empty reports whether the list has no entries at all.
func (a *AllowList) Empty() bool {
	return a == nil || (len(a.ids) == 0 && len(a.usernames) == 0)
}

func normalize(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
}
