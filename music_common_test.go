// music_common_test.go - Tests for shared music utilities

package main

import (
	"testing"
)

func TestParseNullTerminatedString(t *testing.T) {
	tests := []struct {
		name           string
		data           []byte
		offset         int
		expectedString string
		expectedOffset int
	}{
		{
			"simple string",
			[]byte("Hello\x00World"),
			0,
			"Hello",
			6,
		},
		{
			"string with offset",
			[]byte("Hello\x00World\x00"),
			6,
			"World",
			12,
		},
		{
			"empty string",
			[]byte("\x00"),
			0,
			"",
			1,
		},
		{
			"no null terminator",
			[]byte("Test"),
			0,
			"Test",
			4,
		},
		{
			"offset at end",
			[]byte("Test\x00"),
			5,
			"",
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, offset := parseNullTerminatedString(tt.data, tt.offset)
			if result != tt.expectedString {
				t.Errorf("parseNullTerminatedString() string = %q, want %q", result, tt.expectedString)
			}
			if offset != tt.expectedOffset {
				t.Errorf("parseNullTerminatedString() offset = %d, want %d", offset, tt.expectedOffset)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs     float64
		expected string
	}{
		{0, ""},
		{-1, ""},
		{0.4, "0:00"},
		{3, "0:03"},
		{59.6, "1:00"},
		{185, "3:05"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.secs, got, tt.expected)
		}
	}
}

func TestNewFramesAreIndependent(t *testing.T) {
	frames := newFrames(3)
	if len(frames) != 3 {
		t.Fatalf("len = %d", len(frames))
	}
	frames[0] = append(frames[0], 0xAA)
	if frames[1][0] != 0 {
		t.Fatalf("append to frame 0 overwrote frame 1")
	}
	for i, f := range frames[1:] {
		if len(f) != PSG_REG_COUNT || cap(f) != PSG_REG_COUNT {
			t.Fatalf("frame %d len=%d cap=%d", i+1, len(f), cap(f))
		}
	}
}

func TestFrameDumpSetLoop(t *testing.T) {
	d := frameDump{frames: newFrames(4)}
	tests := []struct {
		frame int
		want  int
		ok    bool
	}{
		{2, 2, true},
		{0, 0, true},
		{-1, 0, false},
		{4, 0, false},
	}
	for _, tt := range tests {
		d.loopFrame = 0
		d.setLoop(tt.frame)
		got, ok := d.LoopFrame()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("setLoop(%d): LoopFrame() = %d,%v want %d,%v", tt.frame, got, ok, tt.want, tt.ok)
		}
	}
}
