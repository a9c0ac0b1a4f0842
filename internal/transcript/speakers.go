package transcript

// UnknownSpeaker is shown for a speaker whose resolved name is empty.
const UnknownSpeaker = "(Unknown)"

// Speaker returns the registered speaker for label.
func (t *Transcript) Speaker(label string) (*Speaker, bool) {
	sp, ok := t.byLabel[label]
	return sp, ok
}

// Rename sets the display name of the speaker with the given label. It reports whether the
// label is registered.
func (t *Transcript) Rename(label, name string) bool {
	sp, ok := t.byLabel[label]
	if !ok {
		return false
	}
	sp.Name = name
	return true
}

// ApplyNames assigns names to the speakers in label order. Extra names or extra speakers
// are left alone; the return value reports whether the counts matched.
func (t *Transcript) ApplyNames(names []string) bool {
	for i, sp := range t.Speakers {
		if i >= len(names) {
			break
		}
		sp.Name = names[i]
	}
	return len(names) == len(t.Speakers)
}

// SpeakerLabels returns the registered labels in order.
func (t *Transcript) SpeakerLabels() []string {
	labels := make([]string, len(t.Speakers))
	for i, sp := range t.Speakers {
		labels[i] = sp.SpeakerLabel
	}
	return labels
}

// SpeakerName resolves the display name for label: the registered name, else the label
// itself, and UnknownSpeaker when that is empty.
func (t *Transcript) SpeakerName(label string) string {
	name := label
	if sp, ok := t.byLabel[label]; ok {
		name = sp.Name
	}
	if name == "" {
		return UnknownSpeaker
	}
	return name
}
