// meter_falling.go - Sustained notes that fade out over following frames

package main

// QueueDepth is the capacity of the falling note ring.
const QueueDepth = 32

type noteSlot struct {
	note   NoteIndex
	volume uint8
}

// noteRing is a fixed ring written backwards: the cursor is the next slot to
// write and logical index 0 is the newest entry. The logical length can be
// shorter than the number of slots ever written.
type noteRing struct {
	slots  [QueueDepth]noteSlot
	length int
	cursor int
}

func (r *noteRing) Len() int { return r.length }

func (r *noteRing) physical(i int) int {
	return (r.cursor + i + 1) % QueueDepth
}

// At returns the slot at logical index i (0 = newest).
func (r *noteRing) At(i int) *noteSlot {
	return &r.slots[r.physical(i)]
}

// Find returns the logical index of the newest slot holding note.
func (r *noteRing) Find(note NoteIndex) (int, bool) {
	for i := range r.length {
		if r.At(i).note == note {
			return i, true
		}
	}
	return 0, false
}

// Insert writes s at the cursor and moves the cursor back. When the ring is
// full the overwritten slot is returned if it still held a live volume.
func (r *noteRing) Insert(s noteSlot) (evicted noteSlot, live bool) {
	old := r.slots[r.cursor]
	if r.length == QueueDepth && old.volume > 0 {
		evicted, live = old, true
	}
	r.slots[r.cursor] = s
	if r.cursor > 0 {
		r.cursor--
	} else {
		r.cursor = QueueDepth - 1
	}
	if r.length < QueueDepth {
		r.length++
	}
	return evicted, live
}

// Trim shortens the logical length to end at the oldest slot with a nonzero volume.
func (r *noteRing) Trim() {
	last := -1
	for i := range r.length {
		if r.At(i).volume > 0 {
			last = i
		}
	}
	r.length = last + 1
}

func (r *noteRing) Reset() {
	r.slots = [QueueDepth]noteSlot{}
	r.length = 0
	r.cursor = 0
}

// FallingNotes keeps recently played notes on screen and lets their level
// drop by the decay policy each frame they are not replayed.
type FallingNotes struct {
	surface MeterSurface
	style   NoteStyle
	decay   DecayPolicy
	ring    noteRing
}

func NewFallingNotes(surface MeterSurface, style NoteStyle, decay DecayPolicy) *FallingNotes {
	return &FallingNotes{surface: surface, style: style, decay: decay}
}

// Update processes one frame of detected notes.
func (f *FallingNotes) Update(notes []DetectedNote) {
	for _, n := range notes {
		if i, ok := f.ring.Find(n.Note); ok {
			// Equal or quieter retriggers leave the slot as it is.
			if s := f.ring.At(i); n.Volume > s.volume {
				s.volume = n.Volume
				f.surface.DrawNoteGlyph(n.Note, int(n.Volume), f.style)
			}
			continue
		}
		if old, live := f.ring.Insert(noteSlot{note: n.Note, volume: n.Volume}); live {
			f.surface.EraseNoteGlyph(old.note, f.style)
		}
		f.surface.DrawNoteGlyph(n.Note, int(n.Volume), f.style)
	}

	if f.ring.Len() == 0 {
		return
	}
	for i := range f.ring.Len() {
		s := f.ring.At(i)
		if containsNote(notes, s.note) {
			continue
		}
		switch {
		case s.volume > 1:
			s.volume = f.decay.apply(s.volume)
			f.surface.DrawNoteGlyph(s.note, int(s.volume), f.style)
		case s.volume == 1:
			s.volume = 0
			f.surface.EraseNoteGlyph(s.note, f.style)
		}
	}
	f.ring.Trim()
}

// Len is the logical queue length.
func (f *FallingNotes) Len() int {
	return f.ring.Len()
}

// Volume reports the stored volume of the newest queued slot for note.
func (f *FallingNotes) Volume(note NoteIndex) (uint8, bool) {
	i, ok := f.ring.Find(note)
	if !ok {
		return 0, false
	}
	return f.ring.At(i).volume, true
}

// Reset empties the queue and zeroes every slot without erasing.
func (f *FallingNotes) Reset() {
	f.ring.Reset()
}
