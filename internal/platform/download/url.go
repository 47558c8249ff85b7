package download

import "strings"

// hostFragments are the recognized video-host markers. The check is
// deliberately permissive: any text containing one of these is treated as a
// link so that share URLs with extra parameters still pass.
var hostFragments = []string{
	"youtube.com",
	"youtu.be",
	"youtube-nocookie.com",
}

// IsSupported reports whether text looks like a link to a supported host.
// It does not validate URL syntax, scheme, or path shape.
func IsSupported(text string) bool {
	for _, f := range hostFragments {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}
