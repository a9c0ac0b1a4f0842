package types

import (
	"errors"
	"fmt"
)

// TranscriptionResult represents the JSON structure returned by Transcribe.
// Field names and types follow the file as-is; no timecode is interpreted here.
type TranscriptionResult struct {
	JobName   string  `json:"jobName"`
	AccountID string  `json:"accountId"`
	Results   Results `json:"results"`
	Status    string  `json:"status,omitempty"`
}

// Results holds the transcript text, the diarization and the word items.
type Results struct {
	Transcripts   []Transcript  `json:"transcripts"`
	SpeakerLabels SpeakerLabels `json:"speaker_labels"`
	Items         []Item        `json:"items"`
}

// Transcript is the full plain transcript text.
type Transcript struct {
	Transcript string `json:"transcript"`
}

// SpeakerLabels contains speaker diarization information
type SpeakerLabels struct {
	Speakers int              `json:"speakers"`
	Segments []SpeakerSegment `json:"segments"`
}

// SpeakerSegment is one diarization interval.
type SpeakerSegment struct {
	SpeakerLabel string        `json:"speaker_label"`
	StartTime    string        `json:"start_time"`
	EndTime      string        `json:"end_time"`
	Items        []SegmentItem `json:"items"`
}

// SegmentItem is a word reference inside a diarization interval.
type SegmentItem struct {
	SpeakerLabel string `json:"speaker_label"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// Item represents individual words/items in the transcription.
// StartTime and EndTime are nil for punctuation.
type Item struct {
	StartTime    *string       `json:"start_time,omitempty"`
	EndTime      *string       `json:"end_time,omitempty"`
	Type         ItemType      `json:"type"`
	Alternatives []Alternative `json:"alternatives"`
}

// Content returns the best alternative.
func (i Item) Content() string {
	if len(i.Alternatives) == 0 {
		return ""
	}
	return i.Alternatives[0].Content
}

// Alternative represents word alternatives
type Alternative struct {
	Content    string  `json:"content"`
	Confidence *string `json:"confidence,omitempty"`
}

// ItemType is the kind of an item.
type ItemType string

const (
	ItemTypePronunciation ItemType = "pronunciation"
	ItemTypePunctuation   ItemType = "punctuation"
)

// ErrMissingField is wrapped by a SchemaError for an absent or null required field.
var ErrMissingField = errors.New("missing required field")

// SchemaError reports malformed transcription JSON. Path is the dotted JSON path of the
// offending field and is empty when the document itself is not valid JSON.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid transcription JSON: %v", e.Err)
	}
	return fmt.Sprintf("invalid transcription JSON at %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// AppConfig holds the command-line parameters.
type AppConfig struct {
	InputFilePath  string
	JobName        string
	OutputFilePath string
	Siblings       bool
	Format         string
	CueMode        string
	SpeakerNames   []string
	Region         string
	Force          bool
	ShowVersion    bool
}
