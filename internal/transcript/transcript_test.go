package transcript

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/ole/transcribe/internal/types"
)

func word(start, end, content string) types.Item {
	return types.Item{
		StartTime:    &start,
		EndTime:      &end,
		Type:         types.ItemTypePronunciation,
		Alternatives: []types.Alternative{{Content: content}},
	}
}

func punct(content string) types.Item {
	return types.Item{
		Type:         types.ItemTypePunctuation,
		Alternatives: []types.Alternative{{Content: content}},
	}
}

func segment(label, start, end string) types.SpeakerSegment {
	return types.SpeakerSegment{SpeakerLabel: label, StartTime: start, EndTime: end}
}

func result(segments []types.SpeakerSegment, items ...types.Item) *types.TranscriptionResult {
	r := &types.TranscriptionResult{JobName: "test"}
	r.Results.SpeakerLabels.Segments = segments
	r.Results.SpeakerLabels.Speakers = len(segments)
	r.Results.Items = items
	return r
}

func contents(fragments []Fragment) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = f.Content
	}
	return out
}

func TestBuildFromFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/two-speakers.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	raw, err := types.ParseTranscriptionResult(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr, err := Build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(tr.Segments))
	}
	if got, want := tr.Segments[0].Text(), "Welcome to the show. Thanks, Ole"; got != want {
		t.Fatalf("segment 0 text = %q, want %q", got, want)
	}
	if got, want := tr.Segments[1].Text(), "Hi there!"; got != want {
		t.Fatalf("segment 1 text = %q, want %q", got, want)
	}
	if got, want := tr.Segments[0].Time, (TimeRange{Start: 0.04, End: 2.5}); got != want {
		t.Fatalf("segment 0 time = %+v, want %+v", got, want)
	}

	total := 0
	for _, seg := range tr.Segments {
		total += len(seg.Fragments)
		for _, f := range seg.Fragments {
			if f.SpeakerLabel != seg.SpeakerLabel {
				t.Fatalf("fragment %q has label %q in segment %q", f.Content, f.SpeakerLabel, seg.SpeakerLabel)
			}
		}
	}
	// "Bye" lies outside every segment.
	if total != len(raw.Results.Items)-1 {
		t.Fatalf("fragments = %d, want %d", total, len(raw.Results.Items)-1)
	}

	if got, want := tr.SpeakerLabels(), []string{"spk_0", "spk_1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("speakers = %v, want %v", got, want)
	}
	for _, sp := range tr.Speakers {
		if sp.Name != sp.SpeakerLabel {
			t.Fatalf("speaker %q has initial name %q", sp.SpeakerLabel, sp.Name)
		}
	}
}

func TestBuildSegmentBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		segments []types.SpeakerSegment
		items    []types.Item
		want     [][]string
	}{
		{
			name:     "item ending on segment end belongs to the earlier segment",
			segments: []types.SpeakerSegment{segment("spk_0", "0", "2"), segment("spk_1", "2", "4")},
			items:    []types.Item{word("0", "1", "one"), word("1", "2", "two"), word("2", "3", "three")},
			want:     [][]string{{"one", "two"}, {"three"}},
		},
		{
			name:     "item starting before segment start is skipped",
			segments: []types.SpeakerSegment{segment("spk_0", "1", "3")},
			items:    []types.Item{word("0.5", "1.5", "early"), word("1.5", "2", "inside")},
			want:     [][]string{{"inside"}},
		},
		{
			name:     "item overlapping segment end stops collection",
			segments: []types.SpeakerSegment{segment("spk_0", "0", "2"), segment("spk_1", "3", "5")},
			items:    []types.Item{word("0", "1", "a"), word("1.5", "2.5", "straddle"), word("3", "4", "b")},
			want:     [][]string{{"a"}, {"b"}},
		},
		{
			name:     "leading punctuation is skipped, trailing punctuation collected",
			segments: []types.SpeakerSegment{segment("spk_0", "0", "2")},
			items:    []types.Item{punct("-"), word("0", "1", "Hi"), punct("!")},
			want:     [][]string{{"Hi", "!"}},
		},
		{
			name:     "exhausted items leave empty segments",
			segments: []types.SpeakerSegment{segment("spk_0", "0", "1"), segment("spk_1", "1", "2"), segment("spk_0", "2", "3")},
			items:    []types.Item{word("0", "0.5", "only")},
			want:     [][]string{{"only"}, {}, {}},
		},
		{
			name:     "no segments",
			segments: nil,
			items:    []types.Item{word("0", "1", "lost")},
			want:     [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Build(result(tt.segments, tt.items...))
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			got := make([][]string, len(tr.Segments))
			for i, seg := range tr.Segments {
				got[i] = contents(seg.Fragments)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("fragments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFragmentKinds(t *testing.T) {
	tr, err := Build(result(
		[]types.SpeakerSegment{segment("spk_0", "0", "2")},
		word("0", "1", "Hi"), punct("!"),
	))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []Fragment{
		NewPronunciation(TimeRange{Start: 0, End: 1}, "Hi", "spk_0"),
		NewPunctuation("!", "spk_0"),
	}
	if got := tr.Segments[0].Fragments; !reflect.DeepEqual(got, want) {
		t.Fatalf("fragments = %+v, want %+v", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name        string
		in          *types.TranscriptionResult
		target      error
		wantContext string
	}{
		{
			name:        "empty segment range",
			in:          result([]types.SpeakerSegment{segment("spk_0", "5", "5")}),
			target:      ErrEmptyRange,
			wantContext: "results.speaker_labels.segments",
		},
		{
			name:        "inverted segment range",
			in:          result([]types.SpeakerSegment{segment("spk_0", "6", "5")}),
			target:      ErrEmptyRange,
			wantContext: "results.speaker_labels.segments",
		},
		{
			name:        "segment start is not a number",
			in:          result([]types.SpeakerSegment{segment("spk_0", "abc", "5")}),
			target:      ErrNotANumber,
			wantContext: "results.speaker_labels.segments.start_time",
		},
		{
			name:        "item end is not a number",
			in:          result(nil, word("0", "x", "oops")),
			target:      ErrNotANumber,
			wantContext: "results.items.end_time",
		},
		{
			name:        "item range inverted",
			in:          result([]types.SpeakerSegment{segment("spk_0", "0", "5")}, word("2", "1", "oops")),
			target:      ErrEmptyRange,
			wantContext: "results.items",
		},
		{
			name: "diarization sub-item range",
			in: func() *types.TranscriptionResult {
				seg := segment("spk_0", "0", "5")
				seg.Items = []types.SegmentItem{{SpeakerLabel: "spk_0", StartTime: "1", EndTime: "1"}}
				return result([]types.SpeakerSegment{seg})
			}(),
			target:      ErrEmptyRange,
			wantContext: "results.speaker_labels.segments.items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.in)
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if parseErr.Context != tt.wantContext {
				t.Fatalf("context = %q, want %q", parseErr.Context, tt.wantContext)
			}
		})
	}
}

func TestBuildParseErrorDetails(t *testing.T) {
	_, err := Build(result([]types.SpeakerSegment{segment("spk_0", "abc", "5")}))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Kind != CouldNotConvertStringToDouble || parseErr.Text != "abc" {
		t.Fatalf("unexpected error %+v", parseErr)
	}

	_, err = Build(result([]types.SpeakerSegment{segment("spk_0", "5", "5")}))
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Kind != StartTimeMustBeSmallerThanEndTime || parseErr.Start != 5 || parseErr.End != 5 {
		t.Fatalf("unexpected error %+v", parseErr)
	}
}

func TestBuildPronunciationWithoutTime(t *testing.T) {
	item := punct("hello")
	item.Type = types.ItemTypePronunciation
	_, err := Build(result([]types.SpeakerSegment{segment("spk_0", "0", "5")}, word("0", "1", "ok"), item))

	var consistencyErr *InternalConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("expected *InternalConsistencyError, got %v", err)
	}
	if consistencyErr.Index != 1 || consistencyErr.Content != "hello" {
		t.Fatalf("unexpected error %+v", consistencyErr)
	}
}

func TestBuildSpeakersSortedUnique(t *testing.T) {
	tr, err := Build(result([]types.SpeakerSegment{
		segment("spk_2", "0", "1"),
		segment("spk_0", "1", "2"),
		segment("spk_2", "2", "3"),
		segment("spk_1", "3", "4"),
	}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got, want := tr.SpeakerLabels(), []string{"spk_0", "spk_1", "spk_2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("speakers = %v, want %v", got, want)
	}
}

func TestParseTimeRange(t *testing.T) {
	r, err := ParseTimeRange(" 1.25", "3", "ctx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Start != 1.25 || r.End != 3 {
		t.Fatalf("range = %+v", r)
	}
	if _, err := ParseTimeRange("1", "", "ctx"); !errors.Is(err, ErrNotANumber) {
		t.Fatalf("empty end: error = %v", err)
	}
	if _, err := ParseTimeRange("NaN", "1", "ctx"); !errors.Is(err, ErrEmptyRange) {
		t.Fatalf("NaN start: error = %v", err)
	}
}
