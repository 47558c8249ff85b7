package download

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Video Title", "My_Video_Title"},
		{"illegal chars stripped", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"whitespace collapsed", "too   many\t\tspaces", "too_many_spaces"},
		{"leading trailing trimmed", "  padded  ", "padded"},
		{"empty", "", FallbackName},
		{"all illegal", `<>:"/\|?*`, FallbackName},
		{"only whitespace", "   \t  ", FallbackName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 80))
	if len([]rune(got)) != 50 {
		t.Errorf("length = %d, want 50", len([]rune(got)))
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"My Video Title",
		`we/ird * name  with   <stuff>`,
		strings.Repeat("word ", 30),
		"",
		"émojis and ünïcode 🎬 galore",
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestSanitizeFilenameNeverContainsIllegalChars(t *testing.T) {
	inputs := []string{
		`a<b>c:d"e/f\g|h?i*j`,
		"normal title",
		`???///***`,
	}
	for _, in := range inputs {
		got := SanitizeFilename(in)
		if strings.ContainsAny(got, `<>:"/\|?*`) {
			t.Errorf("SanitizeFilename(%q) = %q still contains illegal characters", in, got)
		}
	}
}
