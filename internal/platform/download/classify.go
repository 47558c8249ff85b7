package download

import "strings"

// Category is a user-facing failure bucket for a raw download error.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryRestrictedContent
	CategoryCopyrightOrBlocked
	CategoryConverterMissing
	CategoryUpstreamTimeout
	CategorySizeExceeded
)

func (c Category) String() string {
	switch c {
	case CategoryRestrictedContent:
		return "restricted_content"
	case CategoryCopyrightOrBlocked:
		return "copyright_or_blocked"
	case CategoryConverterMissing:
		return "converter_missing"
	case CategoryUpstreamTimeout:
		return "upstream_timeout"
	case CategorySizeExceeded:
		return "size_exceeded"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying one raw error message.
// Detail is only set for CategoryUnknown and carries the raw message
// truncated for diagnostics.
type Classification struct {
	Category Category
	Detail   string
}

const maxDetailLen = 120

// classifyRules is evaluated in order; the first keyword hit wins.
var classifyRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"private", "sign in", "age", "confirm your age"}, CategoryRestrictedContent},
	{[]string{"copyright", "blocked", "unavailable"}, CategoryCopyrightOrBlocked},
	{[]string{"ffmpeg", "ffprobe"}, CategoryConverterMissing},
	{[]string{"timed out", "timeout", "socket"}, CategoryUpstreamTimeout},
	{[]string{"file too large", "49mb", "50mb"}, CategorySizeExceeded},
}

// Classify maps a raw error message onto a Category. It is total: every
// input lands in exactly one bucket.
func Classify(raw string) Classification {
	lower := strings.ToLower(raw)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return Classification{Category: rule.category}
			}
		}
	}
	detail := raw
	if runes := []rune(detail); len(runes) > maxDetailLen {
		detail = string(runes[:maxDetailLen])
	}
	return Classification{Category: CategoryUnknown, Detail: detail}
}
