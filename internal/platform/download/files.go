package download

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/Data-Corruption/stdx/xlog"
)

// FallbackName is used when a title sanitizes down to nothing.
const FallbackName = "untitled"

const maxNameRunes = 50

var (
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a media title into a safe, deterministic file name:
// characters illegal on common filesystems are stripped, whitespace runs
// collapse to a single underscore, and the result is capped at 50 runes.
// Applying it twice yields the same result as once.
func SanitizeFilename(name string) string {
	s := illegalChars.ReplaceAllString(name, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "_")
	if r := []rune(s); len(r) > maxNameRunes {
		s = string(r[:maxNameRunes])
	}
	if s == "" {
		return FallbackName
	}
	return s
}

// Remove deletes a downloaded artifact. Failures are logged, never escalated;
// a missing file counts as success.
func Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		xlog.Warnf(ctx, "failed to remove artifact %s: %v", path, err)
		return
	}
	xlog.Debugf(ctx, "removed artifact %s", path)
}
