package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrNotANumber matches a ParseError of kind CouldNotConvertStringToDouble.
	ErrNotANumber = errors.New("could not convert string to double")
	// ErrEmptyRange matches a ParseError of kind StartTimeMustBeSmallerThanEndTime.
	ErrEmptyRange = errors.New("start time must be smaller than end time")
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

const (
	CouldNotConvertStringToDouble ParseErrorKind = iota
	StartTimeMustBeSmallerThanEndTime
)

// ParseError reports a timestamp that is not numeric or a time range that is empty or inverted.
type ParseError struct {
	Kind ParseErrorKind
	// Text is the offending input for CouldNotConvertStringToDouble.
	Text string
	// Start and End are the parsed bounds for StartTimeMustBeSmallerThanEndTime.
	Start, End Timecode
	// Context is the JSON path of the value, e.g. "results.items.start_time".
	Context string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case CouldNotConvertStringToDouble:
		return fmt.Sprintf("%s: %s: %q", e.Context, ErrNotANumber, e.Text)
	default:
		return fmt.Sprintf("%s: %s (start %v, end %v)", e.Context, ErrEmptyRange, float64(e.Start), float64(e.End))
	}
}

func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrNotANumber:
		return e.Kind == CouldNotConvertStringToDouble
	case ErrEmptyRange:
		return e.Kind == StartTimeMustBeSmallerThanEndTime
	}
	return false
}

// InternalConsistencyError is returned when a pronunciation item carries no timecodes. The
// provider guarantees them, so this means the input violates its own schema.
type InternalConsistencyError struct {
	// Index is the position of the item in results.items.
	Index   int
	Content string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("results.items[%d]: pronunciation %q has no timecode", e.Index, e.Content)
}
