// Package download wraps the external yt-dlp/ffmpeg toolchain behind a small
// contract: validate an incoming link, probe its metadata, retrieve the media
// into an isolated job dir, re-home the artifact under a sanitized name, and
// classify failures into user-facing buckets. No decoding, muxing, or
// protocol logic lives here; the external tool owns all of that.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Data-Corruption/stdx/xlog"
	"github.com/google/uuid"
)

// Format selects the output path: muxed video or audio-only.
type Format string

const (
	FormatVideo Format = "video"
	FormatAudio Format = "audio"
)

// ParseFormat maps a callback action token onto a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatVideo, FormatAudio:
		return Format(s), true
	}
	return "", false
}

// Ext returns the container extension the format normalizes to.
func (f Format) Ext() string {
	if f == FormatAudio {
		return "mp3"
	}
	return "mp4"
}

// MaxFileSize is the delivery cap: a safety margin below the 50 MB the
// transport accepts for bot uploads.
const MaxFileSize = 49 * 1024 * 1024

// Stream selectors, matching the original toolchain invocations: video tops
// out at 720p and is merged into a single mp4; audio is the best audio-only
// stream transcoded to 192 kbps mp3.
const (
	videoSelector = "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best"
	audioSelector = "bestaudio[ext=m4a]/bestaudio/best"
	audioBitrate  = "192K"
)

const (
	metadataTimeout       = 30 * time.Second
	metadataSocketTimeout = "10"
	downloadSocketTimeout = "15"
)

// Config holds toolchain paths and limits for a Service.
type Config struct {
	YtDlpPath  string // defaults to "yt-dlp" on PATH
	FFmpegPath string // optional explicit ffmpeg location
	MaxBytes   int64  // defaults to MaxFileSize
}

// Service runs the external extractor/converter.
type Service struct {
	cfg Config
}

func New(cfg Config) *Service {
	if cfg.YtDlpPath == "" {
		cfg.YtDlpPath = "yt-dlp"
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = MaxFileSize
	}
	return &Service{cfg: cfg}
}

// Result describes one successfully produced artifact.
type Result struct {
	Path     string
	Title    string // sanitized
	Duration int    // seconds
	Size     int64  // bytes
}

// Download fetches rawURL in the requested format and leaves the artifact in
// outDir under a sanitized name. The caller owns the returned file and must
// Remove it once delivered. On failure no file is left behind.
func (s *Service) Download(ctx context.Context, rawURL string, format Format, outDir string) (Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	// isolated per-job dir so the artifact scan below is unambiguous
	jobDir := filepath.Join(outDir, "job-"+uuid.NewString())
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create job dir: %w", err)
	}
	defer os.RemoveAll(jobDir)

	args := s.buildArgs(rawURL, format, jobDir)
	xlog.Debugf(ctx, "running %s %s", s.cfg.YtDlpPath, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.YtDlpPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Result{}, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return Result{}, fmt.Errorf("yt-dlp failed: %s", msg)
	}

	info := parseInfo(stdout.Bytes())
	title := SanitizeFilename(info.Title)

	src, err := findArtifact(jobDir, format.Ext())
	if err != nil {
		return Result{}, err
	}

	path, err := rehome(ctx, src, outDir, title+"."+format.Ext())
	if err != nil {
		return Result{}, err
	}

	size, err := enforceSizeLimit(path, s.cfg.MaxBytes)
	if err != nil {
		Remove(ctx, path)
		return Result{}, err
	}

	return Result{Path: path, Title: title, Duration: info.Duration, Size: size}, nil
}

func (s *Service) buildArgs(rawURL string, format Format, jobDir string) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"--restrict-filenames",
		"--print-json",
		"--socket-timeout", downloadSocketTimeout,
		"-o", filepath.Join(jobDir, "%(title)s.%(ext)s"),
	}
	if s.cfg.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", s.cfg.FFmpegPath)
	}
	switch format {
	case FormatAudio:
		args = append(args,
			"-f", audioSelector,
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", audioBitrate,
		)
	default:
		args = append(args,
			"-f", videoSelector,
			"--merge-output-format", "mp4",
		)
	}
	return append(args, rawURL)
}

// findArtifact locates the produced file in the job dir, preferring the
// expected extension when post-processing left more than one file behind.
func findArtifact(jobDir, wantExt string) (string, error) {
	entries, err := os.ReadDir(jobDir)
	if err != nil {
		return "", fmt.Errorf("read job dir: %w", err)
	}
	var fallback string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(jobDir, e.Name())
		if strings.EqualFold(strings.TrimPrefix(filepath.Ext(e.Name()), "."), wantExt) {
			return p, nil
		}
		fallback = p
	}
	if fallback == "" {
		return "", errors.New("yt-dlp ran but produced no file")
	}
	return fallback, nil
}

// rehome moves the artifact out of its job dir into outDir under name,
// removing any previous artifact with the same name first. A rename to the
// sanitized name is non-fatal: on failure the file keeps its native name,
// still inside outDir.
func rehome(ctx context.Context, src, outDir, name string) (string, error) {
	target := filepath.Join(outDir, name)
	if _, err := os.Stat(target); err == nil {
		if err := os.Remove(target); err != nil {
			xlog.Warnf(ctx, "failed to clear previous artifact %s: %v", target, err)
		}
	}
	err := os.Rename(src, target)
	if err == nil {
		return target, nil
	}
	xlog.Warnf(ctx, "rename to %s failed: %v, keeping native name", target, err)
	native := filepath.Join(outDir, filepath.Base(src))
	if src == native {
		return native, nil
	}
	if err := os.Rename(src, native); err != nil {
		return "", fmt.Errorf("move artifact out of job dir: %w", err)
	}
	return native, nil
}

// enforceSizeLimit stats the artifact and rejects anything over max. The
// check runs only after the full download completes; there is no pre-flight
// estimate.
// TODO: probe filesize_approx via --dump-json before downloading so oversized
// videos can be refused without fetching them.
func enforceSizeLimit(path string, max int64) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	if fi.Size() > max {
		return 0, fmt.Errorf("file too large: %.1fMB exceeds the %dMB limit",
			float64(fi.Size())/1024/1024, max/1024/1024)
	}
	return fi.Size(), nil
}
