// meter_transient.go - Note indicators that follow the current frame exactly

package main

// TransientNotes shows exactly the notes detected in the latest frame.
type TransientNotes struct {
	surface MeterSurface
	style   NoteStyle
	shown   [NumChannels]DetectedNote
	count   int
}

func NewTransientNotes(surface MeterSurface, style NoteStyle) *TransientNotes {
	return &TransientNotes{surface: surface, style: style}
}

// Update erases notes that stopped sounding and redraws every current note
// at its merged volume. Only the first NumChannels notes are shown.
func (t *TransientNotes) Update(notes []DetectedNote) {
	notes = notes[:min(len(notes), NumChannels)]
	for _, prev := range t.shown[:t.count] {
		if !containsNote(notes, prev.Note) {
			t.surface.EraseNoteGlyph(prev.Note, t.style)
		}
	}
	for i, n := range notes {
		t.surface.DrawNoteGlyph(n.Note, int(n.Volume), t.style)
		t.shown[i] = n
	}
	t.count = len(notes)
}

// Shown returns the notes currently on screen.
func (t *TransientNotes) Shown() []DetectedNote {
	return append([]DetectedNote(nil), t.shown[:t.count]...)
}

// Reset empties the display state without erasing.
func (t *TransientNotes) Reset() {
	t.count = 0
}
