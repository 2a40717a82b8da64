// music_common.go - Shared utilities for register dump parsers

package main

import (
	"errors"
	"fmt"
	"math"
)

var (
	errMusicTooShort   = errors.New("data too short")
	errMusicCompressed = errors.New("file is LHA compressed; decompress it first")
	errMusicFormat     = errors.New("unrecognised music format")
)

// MusicMetadata contains common metadata fields across all music formats
type MusicMetadata struct {
	Title  string
	Author string
	System string // "Atari ST", "ZX Spectrum", "VGM", ...
	Format string
}

// frameDump is the decoded form every parser produces.
type frameDump struct {
	frames    [][]uint8
	frameRate int
	clockHz   uint32
	loopFrame int
	loops     bool
	meta      MusicMetadata
}

func (d *frameDump) GetMetadata() MusicMetadata { return d.meta }
func (d *frameDump) GetFrames() [][]uint8 { return d.frames }
func (d *frameDump) FrameRate() int { return d.frameRate }
func (d *frameDump) ClockHz() uint32 { return d.clockHz }
func (d *frameDump) LoopFrame() (int, bool) { return d.loopFrame, d.loops }

// setLoop marks frame as the restart point when it lies inside the song.
func (d *frameDump) setLoop(frame int) {
	d.loops = frame >= 0 && frame < len(d.frames)
	if d.loops {
		d.loopFrame = frame
	}
}

// newFrames allocates count register dumps backed by one buffer.
func newFrames(count int) [][]uint8 {
	buffer := make([]uint8, count*PSG_REG_COUNT)
	frames := make([][]uint8, count)
	for i := range count {
		start := i * PSG_REG_COUNT
		frames[i] = buffer[start : start+PSG_REG_COUNT : start+PSG_REG_COUNT]
	}
	return frames
}

// parseNullTerminatedString extracts a string up to the first null byte
// Returns the string and the new offset (after the null terminator)
func parseNullTerminatedString(data []byte, offset int) (string, int) {
	start := offset
	for offset < len(data) && data[offset] != 0 {
		offset++
	}
	end := offset
	if offset < len(data) {
		offset++ // Skip null terminator
	}
	if end <= start {
		return "", offset
	}
	return string(data[start:end]), offset
}

// formatDuration renders seconds as m:ss.
func formatDuration(secs float64) string {
	if secs <= 0 {
		return ""
	}
	total := int(math.Round(secs))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
