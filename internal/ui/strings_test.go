package ui

import "testing"

func TestContainsFolded(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{"Electrónica", "electronica", true},
		{"Gadget Increíble", "INCREÍBLE", true},
		{"Ofertas en pequeño electrodoméstico", "pequeno", true},
		{"Moda", "hogar", false},
		{"Moda", "   ", true},
	}
	for _, tt := range tests {
		if got := containsFolded(tt.haystack, tt.needle); got != tt.want {
			t.Fatalf("containsFolded(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"Portátil Xtreme", 8, "Portá..."},
		{"abcdef", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestThemeLookup(t *testing.T) {
	if got := GetTheme("missing").Name; got != "Dracula" {
		t.Fatalf("GetTheme(missing) = %q, want Dracula", got)
	}
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q", got)
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, key := range []string{"idle", "loading", "succeeded", "failed", badgeSpecial, badgeExpired} {
			if th.StatusColors[key] == "" {
				t.Fatalf("theme %s has no color for %q", name, key)
			}
		}
	}
}
