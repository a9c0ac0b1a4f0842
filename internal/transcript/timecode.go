package transcript

import (
	"strconv"
	"strings"
)

// Timecode is a point in time, in seconds since the start of the recording.
type Timecode float64

// ParseTimecode parses a decimal number of seconds.
func ParseTimecode(text string) (Timecode, bool) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return Timecode(secs), true
}

// Seconds returns the timecode as a plain number of seconds.
func (t Timecode) Seconds() float64 { return float64(t) }

// TimeRange is a half-open interval [Start, End). Start is always strictly smaller than End.
type TimeRange struct {
	Start Timecode
	End   Timecode
}

// ParseTimeRange parses and validates a start/end pair. context names the JSON path the
// values were read from and is carried in any returned *ParseError.
func ParseTimeRange(startText, endText, context string) (TimeRange, error) {
	start, ok := ParseTimecode(startText)
	if !ok {
		return TimeRange{}, &ParseError{Kind: CouldNotConvertStringToDouble, Text: startText, Context: context + ".start_time"}
	}
	end, ok := ParseTimecode(endText)
	if !ok {
		return TimeRange{}, &ParseError{Kind: CouldNotConvertStringToDouble, Text: endText, Context: context + ".end_time"}
	}
	if !(start < end) {
		return TimeRange{}, &ParseError{Kind: StartTimeMustBeSmallerThanEndTime, Start: start, End: end, Context: context}
	}
	return TimeRange{Start: start, End: end}, nil
}
