// Package transcript rebuilds speaker-attributed segments from a Transcribe result.
package transcript

import (
	"sort"

	"github.com/ole/transcribe/internal/types"
)

// Kind is the kind of a Fragment.
type Kind int

const (
	Pronunciation Kind = iota
	Punctuation
)

func (k Kind) String() string {
	if k == Punctuation {
		return "punctuation"
	}
	return "pronunciation"
}

// Fragment is a word or a punctuation mark. Time is only meaningful for pronunciations.
type Fragment struct {
	Kind         Kind
	Time         TimeRange
	Content      string
	SpeakerLabel string
}

// NewPronunciation returns a spoken-word fragment.
func NewPronunciation(time TimeRange, content, speakerLabel string) Fragment {
	return Fragment{Kind: Pronunciation, Time: time, Content: content, SpeakerLabel: speakerLabel}
}

// NewPunctuation returns a punctuation fragment.
func NewPunctuation(content, speakerLabel string) Fragment {
	return Fragment{Kind: Punctuation, Content: content, SpeakerLabel: speakerLabel}
}

// Segment is a run of fragments spoken by one speaker. Time is the diarization interval,
// not the span of the fragments.
type Segment struct {
	Time         TimeRange
	SpeakerLabel string
	Fragments    []Fragment
}

// Text joins the segment's fragments. It is recomputed on every call.
func (s Segment) Text() string { return Text(s.Fragments) }

// Speaker maps a diarization label to a display name.
type Speaker struct {
	SpeakerLabel string
	Name         string
}

// Transcript is the rebuilt transcript. Speakers is sorted by label.
type Transcript struct {
	Segments []Segment
	Speakers []*Speaker

	byLabel map[string]*Speaker
}

// New returns a Transcript over segments, registering every distinct speaker label with
// its label as the initial name.
func New(segments []Segment) *Transcript {
	t := &Transcript{
		Segments: segments,
		byLabel:  make(map[string]*Speaker),
	}
	for _, seg := range segments {
		if _, ok := t.byLabel[seg.SpeakerLabel]; ok {
			continue
		}
		sp := &Speaker{SpeakerLabel: seg.SpeakerLabel, Name: seg.SpeakerLabel}
		t.byLabel[seg.SpeakerLabel] = sp
		t.Speakers = append(t.Speakers, sp)
	}
	sort.Slice(t.Speakers, func(i, j int) bool {
		return t.Speakers[i].SpeakerLabel < t.Speakers[j].SpeakerLabel
	})
	return t
}

// Build parses a Transcribe result into a Transcript.
//
// Items and speaker segments are both ordered by time, so a single cursor walks the items
// once across all segments. For a segment [s0, s1) the cursor first skips untimed items and
// items starting before s0, then collects items until one ends after s1. Untimed items
// (punctuation) are always collected once collection has started. An item ending exactly at
// s1 belongs to the segment. Items outside every segment are dropped.
func Build(result *types.TranscriptionResult) (*Transcript, error) {
	items, err := parseItems(result.Results.Items)
	if err != nil {
		return nil, err
	}

	rawSegments := result.Results.SpeakerLabels.Segments
	segments := make([]Segment, 0, len(rawSegments))
	cursor := 0
	for _, raw := range rawSegments {
		segTime, err := ParseTimeRange(raw.StartTime, raw.EndTime, "results.speaker_labels.segments")
		if err != nil {
			return nil, err
		}
		for _, sub := range raw.Items {
			if _, err := ParseTimeRange(sub.StartTime, sub.EndTime, "results.speaker_labels.segments.items"); err != nil {
				return nil, err
			}
		}

		for cursor < len(items) && (!items[cursor].timed || items[cursor].time.Start < segTime.Start) {
			cursor++
		}
		first := cursor
		for cursor < len(items) && (!items[cursor].timed || items[cursor].time.End <= segTime.End) {
			cursor++
		}

		fragments := make([]Fragment, 0, cursor-first)
		for _, it := range items[first:cursor] {
			fragments = append(fragments, it.fragment(raw.SpeakerLabel))
		}
		segments = append(segments, Segment{
			Time:         segTime,
			SpeakerLabel: raw.SpeakerLabel,
			Fragments:    fragments,
		})
	}
	return New(segments), nil
}

type timedItem struct {
	kind    types.ItemType
	content string
	time    TimeRange
	timed   bool
}

func (it timedItem) fragment(speakerLabel string) Fragment {
	if it.kind == types.ItemTypePunctuation {
		return NewPunctuation(it.content, speakerLabel)
	}
	return NewPronunciation(it.time, it.content, speakerLabel)
}

// parseItems resolves the time range of every item. An item needs both start_time and
// end_time to count as timed; a pronunciation that is not timed is an error.
func parseItems(raw []types.Item) ([]timedItem, error) {
	items := make([]timedItem, len(raw))
	for i, item := range raw {
		items[i] = timedItem{kind: item.Type, content: item.Content()}
		if item.StartTime == nil || item.EndTime == nil {
			if item.Type == types.ItemTypePronunciation {
				return nil, &InternalConsistencyError{Index: i, Content: item.Content()}
			}
			continue
		}
		r, err := ParseTimeRange(*item.StartTime, *item.EndTime, "results.items")
		if err != nil {
			return nil, err
		}
		items[i].time = r
		items[i].timed = true
	}
	return items, nil
}
