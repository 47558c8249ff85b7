package download

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/Data-Corruption/stdx/xlog"
)

// Metadata is a read-only snapshot of a video's details, fetched fresh per
// request and never cached.
type Metadata struct {
	Title     string
	Duration  int // seconds
	Uploader  string
	ViewCount int64
	Thumbnail string
}

// rawInfo is the slice of yt-dlp's JSON output we care about.
type rawInfo struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Uploader  string  `json:"uploader"`
	ViewCount int64   `json:"view_count"`
	Thumbnail string  `json:"thumbnail"`
}

// FetchMetadata asks yt-dlp for metadata only, without downloading anything.
// It is best-effort: every failure is logged and reported as nil so the
// caller can fall back to a degraded "proceed without details" flow.
func (s *Service) FetchMetadata(ctx context.Context, rawURL string) *Metadata {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.YtDlpPath,
		"--dump-json",
		"--no-playlist",
		"--no-warnings",
		"--socket-timeout", metadataSocketTimeout,
		rawURL,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		xlog.Errorf(ctx, "metadata probe failed for %s: %v (%s)",
			rawURL, err, strings.TrimSpace(stderr.String()))
		return nil
	}

	md := parseInfo(stdout.Bytes())
	return &md
}

// parseInfo extracts the metadata snapshot from yt-dlp JSON output, applying
// sentinel fallbacks when fields are missing or the output is unusable.
func parseInfo(out []byte) Metadata {
	md := Metadata{Title: FallbackName, Uploader: "unknown"}
	for _, line := range bytes.Split(out, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var ri rawInfo
		if err := json.Unmarshal(line, &ri); err != nil {
			continue
		}
		if ri.Title != "" {
			md.Title = ri.Title
		}
		if ri.Uploader != "" {
			md.Uploader = ri.Uploader
		}
		md.Duration = int(ri.Duration)
		md.ViewCount = ri.ViewCount
		md.Thumbnail = ri.Thumbnail
		return md
	}
	return md
}
