package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseTranscriptionResult decodes a Transcribe result document. Missing required fields,
// wrong JSON types and unknown item types are reported as *SchemaError.
func ParseTranscriptionResult(data []byte) (*TranscriptionResult, error) {
	var result TranscriptionResult
	if err := decode(data, &result, ""); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *TranscriptionResult) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "", "jobName", "accountId", "results"); err != nil {
		return err
	}
	type plain TranscriptionResult
	return decode(data, (*plain)(r), "")
}

func (r *Results) UnmarshalJSON(data []byte) error {
	const path = "results"
	if err := requireFields(data, path, "transcripts", "speaker_labels", "items"); err != nil {
		return err
	}
	type plain Results
	return decode(data, (*plain)(r), path)
}

func (t *Transcript) UnmarshalJSON(data []byte) error {
	const path = "results.transcripts"
	if err := requireFields(data, path, "transcript"); err != nil {
		return err
	}
	type plain Transcript
	return decode(data, (*plain)(t), path)
}

func (s *SpeakerLabels) UnmarshalJSON(data []byte) error {
	const path = "results.speaker_labels"
	if err := requireFields(data, path, "speakers", "segments"); err != nil {
		return err
	}
	type plain SpeakerLabels
	return decode(data, (*plain)(s), path)
}

func (s *SpeakerSegment) UnmarshalJSON(data []byte) error {
	const path = "results.speaker_labels.segments"
	if err := requireFields(data, path, "speaker_label", "start_time", "end_time", "items"); err != nil {
		return err
	}
	type plain SpeakerSegment
	return decode(data, (*plain)(s), path)
}

func (s *SegmentItem) UnmarshalJSON(data []byte) error {
	const path = "results.speaker_labels.segments.items"
	if err := requireFields(data, path, "speaker_label", "start_time", "end_time"); err != nil {
		return err
	}
	type plain SegmentItem
	return decode(data, (*plain)(s), path)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	const path = "results.items"
	if err := requireFields(data, path, "alternatives", "type"); err != nil {
		return err
	}
	type plain Item
	if err := decode(data, (*plain)(i), path); err != nil {
		return err
	}
	if len(i.Alternatives) == 0 {
		return &SchemaError{Path: path + ".alternatives", Err: errors.New("no alternatives")}
	}
	return nil
}

func (a *Alternative) UnmarshalJSON(data []byte) error {
	const path = "results.items.alternatives"
	if err := requireFields(data, path, "content"); err != nil {
		return err
	}
	type plain Alternative
	return decode(data, (*plain)(a), path)
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	const path = "results.items.type"
	var s string
	if err := decode(data, &s, path); err != nil {
		return err
	}
	switch ItemType(s) {
	case ItemTypePronunciation, ItemTypePunctuation:
		*t = ItemType(s)
		return nil
	}
	return &SchemaError{Path: path, Err: fmt.Errorf("unknown item type %q", s)}
}

// decode unmarshals data into v, turning decoder errors into a *SchemaError rooted at path.
// A *SchemaError raised by a nested field is returned unchanged.
func decode(data []byte, v any, path string) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaError{Path: joinPath(path, typeErr.Field), Err: err}
	}
	return &SchemaError{Path: path, Err: err}
}

// requireFields checks that data is an object carrying every key with a non-null value.
func requireFields(data []byte, path string, keys ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &SchemaError{Path: path, Err: err}
	}
	if fields == nil {
		return &SchemaError{Path: path, Err: ErrMissingField}
	}
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return &SchemaError{Path: joinPath(path, key), Err: ErrMissingField}
		}
	}
	return nil
}

func joinPath(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	}
	return path + "." + field
}
