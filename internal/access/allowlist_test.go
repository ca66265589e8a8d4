package access

import "testing"

func TestAllowList_NilDeniesAll(t *testing.T) {
	t.Parallel()
	var a *AllowList
	if a.Allowed(123, "alice") {
		t.Error("nil AllowList should deny everyone")
	}
}

func TestAllowList_EmptyDeniesAll(t *testing.T) {
	t.Parallel()
	a := New(nil)
	if a.Allowed(123, "alice") {
		t.Error("empty AllowList should deny everyone")
	}
	if !a.Empty() {
		t.Error("Empty() = false, want true")
	}
}

func TestAllowList_ByID(t *testing.T) {
	t.Parallel()
	a := New([]string{"123", "@bob"})

	tests := []struct {
		name     string
		id       int64
		username string
		allowed  bool
	}{
		{"allowed by id", 123, "", true},
		{"allowed by id with foreign username", 123, "mallory", true},
		{"unknown id", 999, "", false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := a.Allowed(tc.id, tc.username); got != tc.allowed {
				t.Errorf("Allowed(%d, %q) = %v, want %v", tc.id, tc.username, got, tc.allowed)
			}
		})
	}
}

func TestAllowList_ByUsername(t *testing.T) {
	t.Parallel()
	a := New([]string{"123", "@bob", "carol"})

	tests := []struct {
		name     string
		id       int64
		username string
		allowed  bool
	}{
		{"entry with at, sender without", 555, "bob", true},
		{"entry without at", 556, "carol", true},
		{"case insensitive", 557, "Bob", true},
		{"unknown username", 558, "mallory", false},
		{"no username", 559, "", false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := a.Allowed(tc.id, tc.username); got != tc.allowed {
				t.Errorf("Allowed(%d, %q) = %v, want %v", tc.id, tc.username, got, tc.allowed)
			}
		})
	}
}

func TestAllowList_NormalizesEntries(t *testing.T) {
	t.Parallel()
	a := New([]string{" @Alice ", " 42 ", "", "  "})

	if !a.Allowed(999, "alice") {
		t.Error("should allow normalized username match")
	}
	if !a.Allowed(42, "") {
		t.Error("should allow normalized ID match")
	}
	if a.Empty() {
		t.Error("Empty() = true, want false")
	}
}

func TestAllowList_SpecExample(t *testing.T) {
	t.Parallel()
	// allowlist = {123, "@bob"}: 123 allowed, @bob allowed, 999 denied.
	a := New([]string{"123", "@bob"})
	if !a.Allowed(123, "") {
		t.Error("sender ID 123 should be allowed")
	}
	if !a.Allowed(777, "bob") {
		t.Error("sender @bob should be allowed")
	}
	if a.Allowed(999, "") {
		t.Error("sender ID 999 should be denied")
	}
}
