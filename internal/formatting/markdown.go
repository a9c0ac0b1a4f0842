package formatting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ole/transcribe/internal/transcript"
)

// FormatMarkdown renders one paragraph per segment:
//
//	{start}–{end}<br>
//	**{speaker}** {text}
//
// Times are raw seconds. Paragraphs are separated by a blank line.
func FormatMarkdown(tr *transcript.Transcript) string {
	paragraphs := make([]string, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		paragraphs = append(paragraphs, fmt.Sprintf("%s–%s<br>\n**%s** %s",
			formatSeconds(seg.Time.Start),
			formatSeconds(seg.Time.End),
			tr.SpeakerName(seg.SpeakerLabel),
			seg.Text(),
		))
	}
	return strings.Join(paragraphs, "\n\n")
}

// formatSeconds prints the shortest decimal form of t, always with a fractional part.
func formatSeconds(t transcript.Timecode) string {
	s := strconv.FormatFloat(t.Seconds(), 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}
