// Package response holds the canned message templates and inline keyboards
// the bot renders, plus the formatting helpers they share. Handlers stay free
// of presentation text.
package response

import (
	"fmt"
	"html"

	"clipfetch/internal/platform/download"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const ParseMode = tgbotapi.ModeHTML

// maxCaptionTitle bounds the title inside a media caption so long titles do
// not crowd out the rest of the caption.
const maxCaptionTitle = 45

// --- Message texts ---

func Welcome() string {
	return "🎬 <b>Video Downloader Bot</b>\n\n" +
		"Hi! 👋 I fetch videos and audio from YouTube links, fast and simple.\n\n" +
		"✅ <b>What I can do:</b>\n" +
		"   • Download videos as MP4 (up to 720p)\n" +
		"   • Extract audio as high quality MP3\n" +
		"   • Handle regular links, Shorts and short links\n\n" +
		"📌 <b>How to use me:</b>\n" +
		"   1️⃣ Send any YouTube link\n" +
		"   2️⃣ Pick a format (MP4 or MP3)\n" +
		"   3️⃣ Get your file in seconds\n\n" +
		"⚠️ <b>Limits:</b>\n" +
		"   • 10 downloads per hour\n" +
		"   • Max file size: 49MB (~8-10 min at 720p)\n" +
		"   • Personal, legal use only\n\n" +
		"✨ <i>Ready? Send your first link!</i>"
}

func About() string {
	return "ℹ️ <b>About Video Downloader Bot</b>\n\n" +
		"⚡ <b>Features:</b>\n" +
		"   • Fast video and audio downloads\n" +
		"   • Smart size limit (49MB)\n" +
		"   • Built-in rate limiting\n" +
		"   • Automatic temp file cleanup\n\n" +
		"🔒 <b>Privacy:</b>\n" +
		"   • Files are deleted right after sending\n" +
		"   • No content is stored permanently\n\n" +
		"🔧 <b>Powered by:</b> yt-dlp + FFmpeg\n\n" +
		"💡 <i>For personal and educational use.</i>"
}

func Terms() string {
	return "⚖️ <b>Terms of Use</b>\n\n" +
		"By using this bot you agree to the following:\n\n" +
		"✅ <b>Allowed:</b>\n" +
		"   • Downloading your own videos\n" +
		"   • Creative Commons licensed content\n" +
		"   • Public domain material\n" +
		"   • Content with the creator's permission\n\n" +
		"❌ <b>Not allowed:</b>\n" +
		"   • Downloading copyrighted content without permission\n" +
		"   • Redistributing protected material\n" +
		"   • Bypassing content protection systems\n\n" +
		"⚠️ You are legally responsible for what you download.\n" +
		"This bot is not affiliated with Google/YouTube/Telegram.\n\n" +
		"💡 <i>Continued use means you accept these terms.</i>"
}

func QuickStart() string {
	return "🚀 <b>Quick Start Guide</b>\n\n" +
		"Three simple steps:\n\n" +
		"❶ <b>Send a YouTube link</b>\n" +
		"   Valid examples:\n" +
		"   • <code>https://youtu.be/dQw4w9WgXcQ</code>\n" +
		"   • <code>https://www.youtube.com/watch?v=VIDEO_ID</code>\n" +
		"   • <code>https://youtube.com/shorts/VIDEO_ID</code>\n\n" +
		"❷ <b>Pick a format</b>\n" +
		"   • 🎥 <b>MP4</b> - video with audio (up to 720p)\n" +
		"   • 🎵 <b>MP3</b> - audio only (192kbps)\n\n" +
		"❸ <b>Get your file</b>\n" +
		"   • Sent within seconds\n" +
		"   • Removed from the server automatically\n\n" +
		"⚠️ <b>Limits:</b> 10 downloads/hour | max 49MB\n\n" +
		"💡 <i>Send your first link to get going.</i>"
}

// Guidance is the reply to text that does not contain a supported link.
func Guidance() string {
	return "❌ <b>Link not recognized</b>\n\n" +
		"Please send a valid YouTube link:\n\n" +
		"✅ <b>Valid examples:</b>\n" +
		"   • <code>https://youtu.be/VIDEO_ID</code>\n" +
		"   • <code>https://www.youtube.com/watch?v=VIDEO_ID</code>\n" +
		"   • <code>https://youtube.com/shorts/VIDEO_ID</code>\n"
}

func RateLimited(waitSeconds int) string {
	hours := waitSeconds / 3600
	minutes := (waitSeconds % 3600) / 60
	return fmt.Sprintf("⏳ <b>Download limit reached</b>\n\n"+
		"You have hit the maximum of 10 downloads per hour.\n\n"+
		"⏱ <b>Wait time:</b> %dh %dm", hours, minutes)
}

func Analyzing() string {
	return "🔍 <b>Analyzing link...</b>\n\nFetching video details..."
}

func VideoFound(title, uploader, duration, views string) string {
	return fmt.Sprintf("✅ <b>Video found</b>\n\n"+
		"📹 <b>Title:</b> %s\n"+
		"👤 <b>Channel:</b> %s\n"+
		"⏱ <b>Duration:</b> %s\n"+
		"👁 <b>Views:</b> %s\n\n"+
		"👇 <b>Pick a download format:</b>", title, uploader, duration, views)
}

// DegradedDetails covers the metadata-fetch-failed path; the download can
// still be attempted.
func DegradedDetails() string {
	return "⚠️ <b>Video detected</b>\n\n" +
		"Could not fetch the details, but the download may still work.\n\n" +
		"👇 <b>Pick a format:</b>"
}

func Downloading(format download.Format) string {
	if format == download.FormatAudio {
		return "⏬ <b>Extracting audio...</b>\n\n🎵 Format: MP3 (192kbps)\n⏱ Please wait..."
	}
	return "⏬ <b>Downloading video...</b>\n\n🎥 Format: MP4 (720p)\n⏱ Please wait..."
}

// Caption builds the media caption: truncated title, duration, size, format.
func Caption(title string, durationSeconds int, size int64, format download.Format) string {
	runes := []rune(title)
	if len(runes) > maxCaptionTitle {
		title = string(runes[:maxCaptionTitle])
	}
	formatLine := "🎬 Format: MP4 (720p)"
	if format == download.FormatAudio {
		formatLine = "🎵 Format: MP3 (192kbps)"
	}
	return fmt.Sprintf("✅ <b>%s</b>\n\n"+
		"⏱ Duration: %s\n"+
		"📦 Size: %s\n"+
		"%s\n\n"+
		"⚠️ <i>Personal and legal use only</i>",
		title, FormatDuration(durationSeconds), FormatSize(size), formatLine)
}

func Delivered() string {
	return "🎉 <b>Download complete!</b>\n\n" +
		"✅ Your file has been sent.\n" +
		"🧹 It was removed from the server automatically.\n\n" +
		"Want to download another one?"
}

func Cancelled() string {
	return "❌ <b>Operation cancelled</b>\n\nSend another link whenever you like."
}

// DataError is rendered when a button payload cannot be parsed.
func DataError() string {
	return "❌ <b>Request error</b>\n\nInvalid data. Please send the link again."
}

func Busy() string {
	return "⏳ I'm too busy right now! Please try again in a moment."
}

func InProgress() string {
	return "⏳ <b>Already working on it</b>\n\nThat download is still in progress."
}

// ErrorView maps a classified download failure to its user-facing message.
func ErrorView(c download.Classification) string {
	switch c.Category {
	case download.CategoryRestrictedContent:
		return "🔒 <b>Private or restricted video</b>\n\n" +
			"YouTube does not allow downloading this content (private/age/login).\n" +
			"💡 <i>Try a public video without restrictions.</i>"
	case download.CategoryCopyrightOrBlocked:
		return "©️ <b>Copyright restrictions</b>\n\n" +
			"The video is protected or blocked.\n" +
			"💡 <i>Try a different video.</i>"
	case download.CategoryConverterMissing:
		return "🔧 <b>Conversion error</b>\n\n" +
			"FFmpeg is not installed or configured correctly.\n" +
			"💡 <i>Install FFmpeg on the server.</i>"
	case download.CategoryUpstreamTimeout:
		return "⏱ <b>Request timed out</b>\n\n" +
			"YouTube did not respond in time.\n" +
			"💡 <i>Try again in a few minutes.</i>"
	case download.CategorySizeExceeded:
		return fmt.Sprintf("📦 <b>File too large</b>\n\n"+
			"The file exceeds the %s limit.\n"+
			"💡 <i>Use a shorter video or download MP3.</i>",
			FormatSize(download.MaxFileSize))
	default:
		return fmt.Sprintf("❌ <b>Download failed</b>\n\n"+
			"Something unexpected went wrong.\n\n"+
			"<code>Error: %s</code>", html.EscapeString(c.Detail))
	}
}

// StatsView renders a user's lifetime totals for the /stats command, plus the
// bot-wide download count.
func StatsView(downloads int, bytes int64, lastFormat string, totalDownloads int) string {
	if downloads == 0 {
		return fmt.Sprintf("📊 <b>Your stats</b>\n\n"+
			"No downloads yet. Send a link to get started!\n\n"+
			"🌍 Served so far: %d downloads", totalDownloads)
	}
	last := "—"
	if lastFormat != "" {
		last = lastFormat
	}
	return fmt.Sprintf("📊 <b>Your stats</b>\n\n"+
		"⬇️ Downloads: %d\n"+
		"📦 Total size: %s\n"+
		"🎞 Last format: %s\n\n"+
		"🌍 Served so far: %d downloads", downloads, FormatSize(bytes), last, totalDownloads)
}

// --- Keyboards ---

// FormatChoices offers the two download formats plus cancel; the payload
// carries the full URL so no server-side session is needed.
func FormatChoices(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Download MP4 (720p)", "video|"+url),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 Extract MP3 (192kbps)", "audio|"+url),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Cancel", "cancel"),
		),
	)
}

// RetryMarkup re-offers the same request after a failure.
func RetryMarkup(action, url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", action+"|"+url),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to start", "start"),
		),
	)
}

// AnotherMarkup follows a successful delivery.
func AnotherMarkup() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Download another", "start"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", "help_start"),
		),
	)
}

// WelcomeMarkup is attached to the /start view.
func WelcomeMarkup() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ About", "about"),
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Terms", "terms"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Get started", "help_start"),
		),
	)
}

// BackToStartMarkup is shared by the static info views.
func BackToStartMarkup() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to start", "start"),
		),
	)
}
