package response

import "fmt"

// FormatDuration renders a duration in seconds as "4m 20s" or "1h 1m 1s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	mins, secs := seconds/60, seconds%60
	hours, mins := mins/60, mins%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, mins, secs)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}

// FormatViews renders a view count with thousands separators; zero means the
// extractor had no number for us.
func FormatViews(n int64) string {
	if n <= 0 {
		return "N/A"
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// FormatSize renders a byte count with one decimal and the largest unit that
// keeps the value under 1024, e.g. "1023.0 B", "1.0 KB", "40.0 MB".
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
