package transcript

import "strings"

// Text joins fragments into display text. Pronunciations are separated by a single space;
// punctuation attaches to whatever precedes it. The first fragment never gets a leading space.
func Text(fragments []Fragment) string {
	var b strings.Builder
	for i, f := range fragments {
		if i > 0 && f.Kind == Pronunciation {
			b.WriteByte(' ')
		}
		b.WriteString(f.Content)
	}
	return b.String()
}
