package formatting

import (
	"fmt"
	"strings"

	"github.com/ole/transcribe/internal/transcript"
)

// Format is an output format.
type Format string

const (
	Markdown Format = "markdown"
	WebVTT   Format = "webvtt"
	Text     Format = "text"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = Markdown

// Formats lists the supported formats.
var Formats = []Format{Markdown, WebVTT, Text}

// ParseFormat resolves a format name. An empty name selects DefaultFormat.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// Extension returns the file extension used for sibling output files.
func (f Format) Extension() string {
	switch f {
	case WebVTT:
		return ".vtt"
	case Text:
		return ".txt"
	default:
		return ".md"
	}
}

// ContentType returns the media type used when uploading rendered output.
func (f Format) ContentType() string {
	switch f {
	case WebVTT:
		return "text/vtt; charset=utf-8"
	case Text:
		return "text/plain; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Options controls rendering.
type Options struct {
	Format  Format
	CueMode CueMode
}

// Render renders tr in the requested format.
func Render(tr *transcript.Transcript, opts Options) (string, error) {
	switch opts.Format {
	case Markdown, "":
		return FormatMarkdown(tr), nil
	case WebVTT:
		return FormatWebVTT(tr, opts.CueMode)
	case Text:
		return FormatTranscriptWithSpeakers(tr), nil
	}
	return "", fmt.Errorf("unknown output format %q", opts.Format)
}

// FormatTranscriptWithSpeakers formats the transcript as plain paragraphs. Consecutive
// segments by the same speaker are merged into one paragraph.
func FormatTranscriptWithSpeakers(tr *transcript.Transcript) string {
	var formatted strings.Builder
	currentSpeaker := ""
	started := false

	for _, seg := range tr.Segments {
		text := seg.Text()
		if text == "" {
			continue
		}
		if started && seg.SpeakerLabel == currentSpeaker {
			formatted.WriteString(" ")
			formatted.WriteString(text)
			continue
		}

		// Add a new paragraph for a new speaker (except for the first speaker)
		if started {
			formatted.WriteString("\n\n")
		}
		started = true
		currentSpeaker = seg.SpeakerLabel
		formatted.WriteString(tr.SpeakerName(seg.SpeakerLabel))
		formatted.WriteString(": ")
		formatted.WriteString(text)
	}

	return formatted.String()
}
