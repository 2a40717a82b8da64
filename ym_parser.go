// ym_parser.go - YM file parser for AY/YM register frames.

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type YMFile struct {
	frameDump
	Version     string
	Comments    string
	Interleaved bool
}

const ymFrameRegisters = 16
const ymLegacyRegisters = 14

func ParseYMFile(path string) (*YMFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isLHA(data) {
		if data, err = DecompressLHAFile(path); err != nil {
			return nil, fmt.Errorf("ym: %w", err)
		}
	}
	return ParseYMData(data)
}

// isLHA reports whether data is an LHA archive header (-lh?-), the usual
// wrapping of distributed YM files.
func isLHA(data []byte) bool {
	return len(data) >= 7 && data[2] == '-' && data[3] == 'l' && data[4] == 'h' && data[6] == '-'
}

func ParseYMData(data []byte) (*YMFile, error) {
	if isLHA(data) {
		unpacked, err := DecompressLHAData(data)
		if err != nil {
			return nil, fmt.Errorf("ym: %w", err)
		}
		if isLHA(unpacked) {
			return nil, fmt.Errorf("ym: nested lha archive")
		}
		data = unpacked
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("ym: %w", errMusicTooShort)
	}
	switch id := string(data[:4]); id {
	case "YM2!", "YM3!", "YM3b":
		return parseYM3(data, id)
	case "YM4!", "YM5!", "YM6!":
		return parseYMLeonard(data, id)
	default:
		return nil, fmt.Errorf("ym version %q: %w", id, errMusicFormat)
	}
}

// parseYM3 reads the headerless early formats: 14 interleaved registers per
// frame at 50Hz, with YM3b appending a big-endian loop frame.
func parseYM3(data []byte, id string) (*YMFile, error) {
	body := data[4:]
	loop := -1
	if id == "YM3b" {
		if len(body) < 4 {
			return nil, fmt.Errorf("ym: %w", errMusicTooShort)
		}
		loop = int(binary.BigEndian.Uint32(body[len(body)-4:]))
		body = body[:len(body)-4]
	}
	if len(body)%ymLegacyRegisters != 0 {
		return nil, fmt.Errorf("ym3 frame data must be a multiple of %d bytes", ymLegacyRegisters)
	}
	frameCount := len(body) / ymLegacyRegisters
	frames := newFrames(frameCount)
	deinterleave(frames, body, ymLegacyRegisters)

	ym := &YMFile{Version: id, Interleaved: true}
	ym.frames = frames
	ym.frameRate = PSG_FRAME_RATE_PAL
	ym.clockHz = PSG_CLOCK_ATARI_ST
	ym.meta = MusicMetadata{System: "Atari ST", Format: id}
	ym.setLoop(loop)
	return ym, nil
}

// ymHeader is the part of the YM4/5/6 header the parser needs.
type ymHeader struct {
	Frames    uint32
	Attrs     uint32
	Drums     uint32
	Clock     uint32
	FrameRate int
	LoopFrame uint32
}

// readYMHeader decodes the header following the "LeOnArD!" check string and
// returns the offset of the first digidrum block. YM4 stores frames,
// attributes, a 32-bit drum count and the loop frame; YM5 and YM6 add the
// chip clock, player rate and an extra data block.
func readYMHeader(data []byte, id string) (ymHeader, int, error) {
	r := bytes.NewReader(data[12:])
	if id == "YM4!" {
		var raw struct {
			Frames    uint32
			Attrs     uint32
			Drums     uint32
			LoopFrame uint32
		}
		if err := binary.Read(r, binary.BigEndian, &raw); err != nil {
			return ymHeader{}, 0, fmt.Errorf("ym header: %w", err)
		}
		return ymHeader{
			Frames:    raw.Frames,
			Attrs:     raw.Attrs,
			Drums:     raw.Drums,
			Clock:     PSG_CLOCK_ATARI_ST,
			FrameRate: PSG_FRAME_RATE_PAL,
			LoopFrame: raw.LoopFrame,
		}, len(data) - r.Len(), nil
	}

	var raw struct {
		Frames    uint32
		Attrs     uint32
		Drums     uint16
		Clock     uint32
		FrameRate uint16
		LoopFrame uint32
		AddData   uint16
	}
	if err := binary.Read(r, binary.BigEndian, &raw); err != nil {
		return ymHeader{}, 0, fmt.Errorf("ym header: %w", err)
	}
	off := len(data) - r.Len()
	if off+int(raw.AddData) > len(data) {
		return ymHeader{}, 0, io.ErrUnexpectedEOF
	}
	return ymHeader{
		Frames:    raw.Frames,
		Attrs:     raw.Attrs,
		Drums:     uint32(raw.Drums),
		Clock:     raw.Clock,
		FrameRate: int(raw.FrameRate),
		LoopFrame: raw.LoopFrame,
	}, off + int(raw.AddData), nil
}

// parseYMLeonard reads the YM4!, YM5! and YM6! formats.
func parseYMLeonard(data []byte, id string) (*YMFile, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("ym: %w", errMusicTooShort)
	}
	if string(data[4:12]) != "LeOnArD!" {
		return nil, fmt.Errorf("invalid ym signature")
	}
	hdr, off, err := readYMHeader(data, id)
	if err != nil {
		return nil, err
	}

	for range hdr.Drums {
		if off+4 > len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		size := int(binary.BigEndian.Uint32(data[off:]))
		off += 4
		if off+size > len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		off += size
	}

	var title, author, comments string
	title, off = parseNullTerminatedString(data, off)
	author, off = parseNullTerminatedString(data, off)
	comments, off = parseNullTerminatedString(data, off)

	frameCount := int(hdr.Frames)
	remaining := data[off:]
	regCount := ymFrameRegisters
	if len(remaining) < frameCount*ymFrameRegisters {
		if len(remaining) < frameCount*ymLegacyRegisters {
			return nil, fmt.Errorf("ym frame data too short")
		}
		regCount = ymLegacyRegisters
	}

	logger.Debug("ym: header",
		"version", id, "frames", hdr.Frames, "attrs", hdr.Attrs, "drums", hdr.Drums,
		"clock", hdr.Clock, "rate", hdr.FrameRate, "loop", hdr.LoopFrame)

	interleaved := hdr.Attrs&0x01 != 0
	frames := newFrames(frameCount)
	if interleaved {
		deinterleave(frames, remaining, regCount)
	} else {
		for i, frame := range frames {
			copy(frame, remaining[i*regCount:])
		}
	}

	ym := &YMFile{Version: id, Comments: comments, Interleaved: interleaved}
	ym.frames = frames
	ym.frameRate = hdr.FrameRate
	if ym.frameRate == 0 {
		ym.frameRate = PSG_FRAME_RATE_PAL
	}
	ym.clockHz = hdr.Clock
	if ym.clockHz == 0 {
		ym.clockHz = PSG_CLOCK_ATARI_ST
	}
	ym.meta = MusicMetadata{Title: title, Author: author, System: "Atari ST", Format: id}
	ym.setLoop(int(hdr.LoopFrame))
	return ym, nil
}

// deinterleave copies register-major data (all R0, then all R1, ...) into frames.
func deinterleave(frames [][]uint8, data []byte, regCount int) {
	n := len(frames)
	for reg := 0; reg < regCount && reg < PSG_REG_COUNT; reg++ {
		base := reg * n
		for i, frame := range frames {
			frame[reg] = data[base+i]
		}
	}
}
