// ay_parser.go - AY raw frame parser (limited scope).

package main

import (
	"bytes"
	"fmt"
	"os"
)

type AYFile struct {
	frameDump
}

func ParseAYFile(path string) (*AYFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAYData(data)
}

// ParseAYData reads headerless 14-register frames at 50Hz.
func ParseAYData(data []byte) (*AYFile, error) {
	if bytes.HasPrefix(data, []byte("ZXAYEMUL")) {
		return nil, fmt.Errorf("ay file uses Z80 player code; raw frames required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ay: %w", errMusicTooShort)
	}
	if len(data)%PSG_REG_COUNT != 0 {
		return nil, fmt.Errorf("ay raw frame data must be multiple of %d bytes", PSG_REG_COUNT)
	}

	frames := newFrames(len(data) / PSG_REG_COUNT)
	for i, frame := range frames {
		copy(frame, data[i*PSG_REG_COUNT:])
	}

	ay := &AYFile{}
	ay.frames = frames
	ay.frameRate = PSG_FRAME_RATE_PAL
	ay.clockHz = PSG_CLOCK_ZX_SPECTRUM
	ay.meta = MusicMetadata{System: "ZX Spectrum", Format: "AY"}
	ay.setLoop(-1)
	return ay, nil
}
