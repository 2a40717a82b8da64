package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := parseArgs([]string{"song.ym"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if diff := cmp.Diff(DefaultMeterConfig(), opts.meter); diff != "" {
		t.Fatalf("meter config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{OUTPUT_TERMINAL}, opts.outputs); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	if opts.filename != "song.ym" || opts.loop || opts.baud != defaultBaudRate || opts.scale != defaultWindowScale {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseArgs_Selections(t *testing.T) {
	opts, err := parseArgs([]string{
		"-mode", "falling", "-style", "grid", "-decay", "halving", "-row", "5",
		"-out", "png, none ,serial", "-serial", "/dev/ttyUSB0", "-loop", "tune.vgz",
	})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	want := MeterConfig{Style: StyleFullGrid, Decay: DecayHalving, Mode: ModeFalling, Row: 5}
	if diff := cmp.Diff(want, opts.meter); diff != "" {
		t.Fatalf("meter config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{OUTPUT_PNG, OUTPUT_SERIAL}, opts.outputs); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	if !opts.loop || opts.serialPort != "/dev/ttyUSB0" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := map[string][]string{
		"missing file":   {},
		"bad style":      {"-style", "wide", "a.ym"},
		"bad decay":      {"-decay", "cubic", "a.ym"},
		"bad mode":       {"-mode", "scope", "a.ym"},
		"row zero":       {"-row", "0", "a.ym"},
		"row too large":  {"-row", "8", "a.ym"},
		"bad output":     {"-out", "hdmi", "a.ym"},
		"serial no port": {"-out", "serial", "a.ym"},
		"unknown flag":   {"-volume", "a.ym"},
	}
	for name, args := range tests {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseArgs_MeterErrorType(t *testing.T) {
	_, err := parseArgs([]string{"-style", "wide", "a.ym"})
	var me *MeterError
	if !errors.As(err, &me) || me.Operation != "style selection" {
		t.Fatalf("error = %v, want style selection MeterError", err)
	}
}

func TestParseArgs_FeaturesNeedsNoFile(t *testing.T) {
	opts, err := parseArgs([]string{"-features"})
	if err != nil || !opts.features {
		t.Fatalf("opts=%+v err=%v", opts, err)
	}
}

func TestParseHelpers_Aliases(t *testing.T) {
	if s, _ := parseNoteStyle("ONE"); s != StyleOneRow {
		t.Errorf("ONE -> %v", s)
	}
	if d, _ := parseDecayPolicy("half"); d != DecayHalving {
		t.Errorf("half -> %v", d)
	}
	if m, _ := parseMode("vol"); m != ModeBars {
		t.Errorf("vol -> %v", m)
	}
	if m, _ := parseMode("Notes"); m != ModeNotes {
		t.Errorf("Notes -> %v", m)
	}
}

func TestSongCaption(t *testing.T) {
	tests := []struct {
		meta MusicMetadata
		want string
	}{
		{MusicMetadata{Title: "Wings of Death", Author: "Jochen Hippel"}, "Wings of Death - Jochen Hippel"},
		{MusicMetadata{Title: "Wings of Death"}, "Wings of Death"},
		{MusicMetadata{Author: "Jochen Hippel"}, "wod.ym"},
	}
	for _, tt := range tests {
		if got := songCaption(tt.meta, "wod.ym"); got != tt.want {
			t.Errorf("songCaption(%+v) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}

func TestRuntimeStatusLine(t *testing.T) {
	var store runtimeStatusStore
	store.setTitle("Lotus", 300)
	store.setFrame(12, ModeNotes, []DetectedNote{{Note: 0, Volume: 15}})
	store.setLoops(2)

	line := store.snapshot().statusLine()
	for _, part := range []string{"Lotus", "[notes]", "12/300", "loop 2", NoteName(0)} {
		if !strings.Contains(line, part) {
			t.Errorf("status line %q missing %q", line, part)
		}
	}
	if strings.Contains(line, "end") {
		t.Errorf("status line %q reports end early", line)
	}
	store.setFinished()
	if !strings.Contains(store.snapshot().statusLine(), " end") {
		t.Errorf("finished status line %q", store.snapshot().statusLine())
	}
}

func TestRuntimeStatusSnapshotCopiesNotes(t *testing.T) {
	var store runtimeStatusStore
	notes := []DetectedNote{{Note: 5, Volume: 3}}
	store.setFrame(1, ModeBars, notes)
	snap := store.snapshot()
	snap.notes[0].Note = 9
	if store.snapshot().notes[0].Note != 5 {
		t.Fatalf("snapshot shares note storage with the store")
	}
}

func TestPrintFeatures(t *testing.T) {
	var buf bytes.Buffer
	printFeatures(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "psgmeter "+Version) {
		t.Fatalf("features output %q", out)
	}
	if !strings.Contains(out, "Compiled features:") {
		t.Fatalf("features output missing list header: %q", out)
	}
}
