// meter_surface.go - Rendering capability consumed by the note meter

package main

import "fmt"

// NoteStyle selects how a note indicator is laid out on the display.
type NoteStyle int

const (
	StyleOneRow   NoteStyle = iota // one 8-pixel strip, level halved
	StyleTwoRows                   // two stacked strips, 16 pixel levels
	StyleFullGrid                  // 24x4 grid of 5-column glyphs over the whole screen
)

func (s NoteStyle) String() string {
	switch s {
	case StyleOneRow:
		return "one-row"
	case StyleTwoRows:
		return "two-rows"
	case StyleFullGrid:
		return "grid"
	}
	return fmt.Sprintf("NoteStyle(%d)", int(s))
}

// DecayPolicy is the per-frame volume reduction applied to falling notes.
type DecayPolicy int

const (
	DecayLinear  DecayPolicy = iota // volume -= 1
	DecayHalving                    // volume >>= 1
)

func (d DecayPolicy) String() string {
	switch d {
	case DecayLinear:
		return "linear"
	case DecayHalving:
		return "halving"
	}
	return fmt.Sprintf("DecayPolicy(%d)", int(d))
}

func (d DecayPolicy) apply(v uint8) uint8 {
	if d == DecayHalving {
		return v >> 1
	}
	return v - 1
}

// Region is an inclusive column span over a range of 8-pixel pages.
type Region struct {
	Col0, Col1   int
	Page0, Page1 int
}

// MeterSurface is what the meter draws on. Positions are logical: bar
// segments are addressed by channel slot and segment index, notes by
// NoteIndex. Mapping to pixels, and the intensity ramp of bar segments,
// belong to the implementation.
type MeterSurface interface {
	DrawSegment(channel, segment int)
	EraseSegment(channel, segment int)
	DrawNoteGlyph(note NoteIndex, level int, style NoteStyle)
	EraseNoteGlyph(note NoteIndex, style NoteStyle)
	ClearRegion(r Region)
}

// MeterError provides context for failures in the display and file adapters.
type MeterError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *MeterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meter %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("meter %s failed: %s", e.Operation, e.Details)
}

func (e *MeterError) Unwrap() error {
	return e.Err
}
