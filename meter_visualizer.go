// meter_visualizer.go - Per-frame note meter combining bars, note strip and falling notes

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "fmt"

// Mode is the active meter view. Views share screen columns, so exactly one
// is drawn at a time.
type Mode int

const (
	ModeBars    Mode = iota // per-channel volume bars
	ModeNotes               // notes shown while they sound
	ModeFalling             // notes sustained and fading
)

func (m Mode) String() string {
	switch m {
	case ModeBars:
		return "bars"
	case ModeNotes:
		return "notes"
	case ModeFalling:
		return "falling"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MeterConfig is fixed for the life of a Meter.
type MeterConfig struct {
	Style NoteStyle
	Decay DecayPolicy
	Mode  Mode // initial view
	Row   int  // page holding the bar/strip band; two-row strips also use Row-1
}

// DefaultMeterConfig matches the 128x64 layout with the band on page 3.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		Style: StyleTwoRows,
		Decay: DecayLinear,
		Mode:  ModeBars,
		Row:   3,
	}
}

func (c MeterConfig) validate() error {
	if c.Style < StyleOneRow || c.Style > StyleFullGrid {
		return &MeterError{Operation: "config", Details: fmt.Sprintf("unknown note style %d", int(c.Style))}
	}
	if c.Decay != DecayLinear && c.Decay != DecayHalving {
		return &MeterError{Operation: "config", Details: fmt.Sprintf("unknown decay policy %d", int(c.Decay))}
	}
	if c.Mode < ModeBars || c.Mode > ModeFalling {
		return &MeterError{Operation: "config", Details: fmt.Sprintf("unknown mode %d", int(c.Mode))}
	}
	if c.Row < 1 || c.Row >= oledPages {
		return &MeterError{Operation: "config", Details: fmt.Sprintf("meter row %d out of range 1..%d", c.Row, oledPages-1)}
	}
	return nil
}

// Meter owns the three trackers and routes each frame to the active view.
// All methods must be called from the frame loop goroutine.
type Meter struct {
	cfg       MeterConfig
	surface   MeterSurface
	mode      Mode
	bars      *BarMeter
	transient *TransientNotes
	falling   *FallingNotes
	notes     []DetectedNote
	frames    uint64
}

func NewMeter(surface MeterSurface, cfg MeterConfig) (*Meter, error) {
	if surface == nil {
		return nil, &MeterError{Operation: "create", Details: "nil surface"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Meter{
		cfg:       cfg,
		surface:   surface,
		mode:      cfg.Mode,
		bars:      NewBarMeter(surface),
		transient: NewTransientNotes(surface, cfg.Style),
		falling:   NewFallingNotes(surface, cfg.Style, cfg.Decay),
		notes:     make([]DetectedNote, 0, NumChannels),
	}, nil
}

// Frame consumes one sample of the three channels.
func (m *Meter) Frame(samples [NumChannels]ChannelSample) {
	m.frames++
	if m.mode == ModeBars {
		m.bars.Update(samples)
		return
	}
	m.notes = AppendMergedNotes(m.notes[:0], samples)
	if m.mode == ModeNotes {
		m.transient.Update(m.notes)
	} else {
		m.falling.Update(m.notes)
	}
}

// Notes returns the notes merged in the last note-mode frame.
func (m *Meter) Notes() []DetectedNote {
	return m.notes
}

// SetMode clears the meter area and switches view. The next frame draws
// the new view from empty state.
func (m *Meter) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.surface.ClearRegion(m.clearRegion(m.mode))
	if r := m.clearRegion(mode); r != m.clearRegion(m.mode) {
		m.surface.ClearRegion(r)
	}
	m.mode = mode
	m.Reset()
}

func (m *Meter) Mode() Mode { return m.mode }

// FrameCount is the number of frames processed since construction.
func (m *Meter) FrameCount() uint64 { return m.frames }

// Reset returns every tracker to its initial state. It draws nothing.
func (m *Meter) Reset() {
	m.bars.Reset()
	m.transient.Reset()
	m.falling.Reset()
	m.notes = m.notes[:0]
}

// clearRegion is the screen area a view draws into.
func (m *Meter) clearRegion(mode Mode) Region {
	if mode != ModeBars && m.cfg.Style == StyleFullGrid {
		return Region{Col0: 0, Col1: oledWidth - 1, Page0: 0, Page1: oledPages - 1}
	}
	top := m.cfg.Row
	if mode != ModeBars && m.cfg.Style == StyleTwoRows {
		top--
	}
	return Region{Col0: meterLeft, Col1: oledWidth - 1, Page0: top, Page1: m.cfg.Row}
}
