// meter_test_helpers_test.go - Recording surface for meter tests.

package main

import "fmt"

// recordingSurface logs every drawing call in order.
type recordingSurface struct {
	ops []string
}

func (r *recordingSurface) DrawSegment(channel, segment int) {
	r.ops = append(r.ops, fmt.Sprintf("draw ch%d seg%d", channel, segment))
}

func (r *recordingSurface) EraseSegment(channel, segment int) {
	r.ops = append(r.ops, fmt.Sprintf("erase ch%d seg%d", channel, segment))
}

func (r *recordingSurface) DrawNoteGlyph(note NoteIndex, level int, style NoteStyle) {
	r.ops = append(r.ops, fmt.Sprintf("note %d lvl%d", note, level))
}

func (r *recordingSurface) EraseNoteGlyph(note NoteIndex, style NoteStyle) {
	r.ops = append(r.ops, fmt.Sprintf("clear %d", note))
}

func (r *recordingSurface) ClearRegion(reg Region) {
	r.ops = append(r.ops, fmt.Sprintf("region %d-%d/%d-%d", reg.Col0, reg.Col1, reg.Page0, reg.Page1))
}

// take returns the recorded operations and resets the log.
func (r *recordingSurface) take() []string {
	ops := r.ops
	r.ops = nil
	return ops
}

// sampleFor builds a channel sample sounding note k at volume v.
func sampleFor(k NoteIndex, v uint8) ChannelSample {
	return ChannelSample{Volume: v, Period: NoteDivider(k)}
}
