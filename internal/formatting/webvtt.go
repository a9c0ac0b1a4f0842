package formatting

import (
	"fmt"
	"math"
	"strings"

	"github.com/ole/transcribe/internal/transcript"
)

// CueMode selects how WebVTT cues are cut.
type CueMode string

const (
	// SegmentCues emits one cue per diarization segment.
	SegmentCues CueMode = "segment"
	// SentenceCues splits each segment at sentence-final punctuation.
	SentenceCues CueMode = "sentence"
)

// ParseCueMode resolves a cue mode name. An empty name selects SegmentCues.
func ParseCueMode(name string) (CueMode, error) {
	switch CueMode(strings.ToLower(name)) {
	case "", SegmentCues:
		return SegmentCues, nil
	case SentenceCues:
		return SentenceCues, nil
	}
	return "", fmt.Errorf("unknown cue mode %q", name)
}

// cue is a single WebVTT cue.
type cue struct {
	time    transcript.TimeRange
	speaker string
	text    string
}

// FormatWebVTT renders tr as a WebVTT document. Cues are separated by a blank line and the
// document has no trailing newline.
func FormatWebVTT(tr *transcript.Transcript, mode CueMode) (string, error) {
	var cues []cue
	switch mode {
	case SegmentCues, "":
		cues = segmentCues(tr)
	case SentenceCues:
		cues = sentenceCues(tr)
	default:
		return "", fmt.Errorf("unknown cue mode %q", mode)
	}

	blocks := make([]string, 0, len(cues))
	for _, c := range cues {
		blocks = append(blocks, fmt.Sprintf("%s --> %s\n<v %s>%s",
			formatVTTTime(c.time.Start),
			formatVTTTime(c.time.End),
			escapeVTT(c.speaker),
			escapeVTT(c.text),
		))
	}
	return "WEBVTT\n\n" + strings.Join(blocks, "\n\n"), nil
}

func segmentCues(tr *transcript.Transcript) []cue {
	cues := make([]cue, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		cues = append(cues, cue{
			time:    seg.Time,
			speaker: tr.SpeakerName(seg.SpeakerLabel),
			text:    seg.Text(),
		})
	}
	return cues
}

// sentenceCues cuts every segment after sentence-final punctuation. A cue spans its first
// to its last pronunciation. Fragments that carry no time (a leading punctuation mark) are
// appended to the previous cue of the segment, or dropped if there is none.
func sentenceCues(tr *transcript.Transcript) []cue {
	var cues []cue
	for _, seg := range tr.Segments {
		speaker := tr.SpeakerName(seg.SpeakerLabel)
		segStart := len(cues)
		var pending []transcript.Fragment
		timed := false

		flush := func() {
			defer func() { pending, timed = nil, false }()
			if len(pending) == 0 {
				return
			}
			if !timed {
				if len(cues) > segStart {
					cues[len(cues)-1].text += transcript.Text(pending)
				}
				return
			}
			var span transcript.TimeRange
			first := true
			for _, f := range pending {
				if f.Kind != transcript.Pronunciation {
					continue
				}
				if first {
					span.Start = f.Time.Start
					first = false
				}
				span.End = f.Time.End
			}
			cues = append(cues, cue{time: span, speaker: speaker, text: transcript.Text(pending)})
		}

		for _, f := range seg.Fragments {
			pending = append(pending, f)
			if f.Kind == transcript.Pronunciation {
				timed = true
				continue
			}
			if endsSentence(f.Content) {
				flush()
			}
		}
		flush()
	}
	return cues
}

func endsSentence(punctuation string) bool {
	return strings.ContainsAny(punctuation, ".?!…")
}

// formatVTTTime formats seconds as a WebVTT timestamp (HH:MM:SS.mmm), rounded to the
// nearest millisecond. Hours are not wrapped.
func formatVTTTime(t transcript.Timecode) string {
	secs := t.Seconds()
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		secs = 0
	}
	ms := int64(math.Round(secs * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

var vttEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeVTT(s string) string { return vttEscaper.Replace(s) }
