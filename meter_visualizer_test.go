package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMeterConfigValidation(t *testing.T) {
	bad := []MeterConfig{
		{Style: StyleTwoRows, Decay: DecayLinear, Mode: ModeBars, Row: 0},
		{Style: StyleTwoRows, Decay: DecayLinear, Mode: ModeBars, Row: oledPages},
		{Style: NoteStyle(9), Decay: DecayLinear, Mode: ModeBars, Row: 3},
		{Style: StyleOneRow, Decay: DecayPolicy(9), Mode: ModeBars, Row: 3},
		{Style: StyleOneRow, Decay: DecayLinear, Mode: Mode(9), Row: 3},
	}
	for i, cfg := range bad {
		_, err := NewMeter(&recordingSurface{}, cfg)
		var me *MeterError
		if !errors.As(err, &me) {
			t.Fatalf("config %d: err = %v, want *MeterError", i, err)
		}
	}
	if _, err := NewMeter(nil, DefaultMeterConfig()); err == nil {
		t.Fatalf("nil surface accepted")
	}
}

func TestMeterBarsMode(t *testing.T) {
	rs := &recordingSurface{}
	m, err := NewMeter(rs, DefaultMeterConfig())
	if err != nil {
		t.Fatalf("NewMeter: %v", err)
	}
	m.Frame([NumChannels]ChannelSample{sampleFor(10, 1), {}, {}})
	want := []string{"draw ch0 seg0", "draw ch0 seg1", "draw ch1 seg0", "draw ch2 seg0"}
	if diff := cmp.Diff(want, rs.take()); diff != "" {
		t.Fatalf("bars frame (-want +got):\n%s", diff)
	}
	if m.FrameCount() != 1 {
		t.Fatalf("FrameCount = %d", m.FrameCount())
	}
}

func TestMeterNotesMode(t *testing.T) {
	rs := &recordingSurface{}
	cfg := DefaultMeterConfig()
	cfg.Mode = ModeNotes
	m, err := NewMeter(rs, cfg)
	if err != nil {
		t.Fatalf("NewMeter: %v", err)
	}
	m.Frame([NumChannels]ChannelSample{sampleFor(30, 4), sampleFor(30, 11), {}})
	if diff := cmp.Diff([]string{"note 30 lvl11"}, rs.take()); diff != "" {
		t.Fatalf("notes frame (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]DetectedNote{{Note: 30, Volume: 11}}, m.Notes()); diff != "" {
		t.Fatalf("Notes (-want +got):\n%s", diff)
	}
}

func TestMeterSetModeClearsAndResets(t *testing.T) {
	rs := &recordingSurface{}
	m, err := NewMeter(rs, DefaultMeterConfig())
	if err != nil {
		t.Fatalf("NewMeter: %v", err)
	}
	m.Frame([NumChannels]ChannelSample{{Volume: 3}, {}, {}})
	rs.take()

	m.SetMode(ModeFalling)
	want := []string{"region 32-127/3-3", "region 32-127/2-3"}
	if diff := cmp.Diff(want, rs.take()); diff != "" {
		t.Fatalf("SetMode (-want +got):\n%s", diff)
	}
	if m.Mode() != ModeFalling {
		t.Fatalf("Mode = %s", m.Mode())
	}

	m.SetMode(ModeFalling)
	if ops := rs.take(); len(ops) != 0 {
		t.Fatalf("same mode redrew: %v", ops)
	}

	// Bars restart from the unset state after switching back.
	m.SetMode(ModeBars)
	rs.take()
	m.Frame([NumChannels]ChannelSample{{Volume: 0}, {Volume: 0}, {Volume: 0}})
	if got := len(rs.take()); got != NumChannels {
		t.Fatalf("first bars frame after switch drew %d segments, want %d", got, NumChannels)
	}
}

func TestMeterGridClearsWholeScreen(t *testing.T) {
	rs := &recordingSurface{}
	cfg := DefaultMeterConfig()
	cfg.Style = StyleFullGrid
	m, err := NewMeter(rs, cfg)
	if err != nil {
		t.Fatalf("NewMeter: %v", err)
	}
	m.SetMode(ModeNotes)
	want := []string{"region 32-127/3-3", "region 0-127/0-7"}
	if diff := cmp.Diff(want, rs.take()); diff != "" {
		t.Fatalf("SetMode (-want +got):\n%s", diff)
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{ModeBars: "bars", ModeNotes: "notes", ModeFalling: "falling", Mode(7): "Mode(7)"} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(mode), got, want)
		}
	}
}
