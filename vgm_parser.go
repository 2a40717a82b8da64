// vgm_parser.go - VGM/VGZ parser folding AY-3-8910 writes into frames.
//
// Only AY writes (cmd 0xA0, first chip) and SN76489 writes (cmd 0x50,
// converted to AY registers) change state. Every other command is skipped
// by its operand length.

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"
)

const vgmSampleRate = 44100

type VGMFile struct {
	frameDump
	Version      uint32
	TotalSamples uint64
	LoopSample   uint64
	Writes       int
}

// vgmWriter accumulates register writes and snapshots them per frame.
type vgmWriter struct {
	regs       [PSG_REG_COUNT]uint8
	envWritten bool
	frames     [][]uint8
}

func (w *vgmWriter) write(reg, value uint8) {
	if reg >= PSG_REG_COUNT {
		return
	}
	w.regs[reg] = value
	if reg == PSG_REG_ENV_SHP {
		w.envWritten = true
	}
}

func (w *vgmWriter) flush() {
	frame := make([]uint8, PSG_REG_COUNT)
	copy(frame, w.regs[:])
	if !w.envWritten {
		frame[PSG_REG_ENV_SHP] = PSG_ENV_NO_WRITE
	}
	w.envWritten = false
	w.frames = append(w.frames, frame)
}

// sn76489State tracks the latch register of an SN76489 and maps its
// writes onto equivalent AY registers.
type sn76489State struct {
	latchedCh  uint8
	latchedAtt bool
	toneRegs   [3]uint16
	attenRegs  [4]uint8
	snClockHz  uint32
	ayClockHz  uint32
}

func (s *sn76489State) decode(val byte, w *vgmWriter) {
	if val&0x80 != 0 {
		s.latchedCh = (val >> 5) & 0x03
		s.latchedAtt = val&0x10 != 0
		if s.latchedAtt {
			s.attenRegs[s.latchedCh] = val & 0x0F
			s.emitVolume(w)
			return
		}
		if s.latchedCh < 3 {
			s.toneRegs[s.latchedCh] = s.toneRegs[s.latchedCh]&0x3F0 | uint16(val&0x0F)
			s.emitTone(s.latchedCh, w)
		}
		return
	}
	if s.latchedAtt {
		s.attenRegs[s.latchedCh] = val & 0x0F
		s.emitVolume(w)
		return
	}
	if s.latchedCh < 3 {
		s.toneRegs[s.latchedCh] = s.toneRegs[s.latchedCh]&0x0F | uint16(val&0x3F)<<4
		s.emitTone(s.latchedCh, w)
	}
}

// emitTone converts an SN76489 divider (clock/32N) to an AY divider (clock/16N).
func (s *sn76489State) emitTone(ch uint8, w *vgmWriter) {
	div := uint32(max(s.toneRegs[ch], 1))
	ayDiv := div / 2
	if s.snClockHz > 0 {
		ayDiv = div * s.ayClockHz / (s.snClockHz * 2)
	}
	ayDiv = min(max(ayDiv, 1), 0xFFF)
	w.write(ch*2, uint8(ayDiv))
	w.write(ch*2+1, uint8(ayDiv>>8))
}

// emitVolume maps attenuation (0 loud, 15 off) to AY volume and keeps the
// mixer tone bits in step.
func (s *sn76489State) emitVolume(w *vgmWriter) {
	ch := s.latchedCh
	if ch < 3 {
		w.write(PSG_REG_VOL_A+ch, 15-s.attenRegs[ch])
	}
	mixer := uint8(0x38)
	for c := range 3 {
		if s.attenRegs[c] >= 15 {
			mixer |= 1 << c
		}
	}
	if s.attenRegs[3] < 15 {
		mixer &^= 0x20
	}
	w.write(PSG_REG_MIXER, mixer)
}

func ParseVGMFile(path string) (*VGMFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVGMData(data, PSG_FRAME_RATE_PAL)
}

// vgmOperandLength returns the total length of commands carrying no PSG state.
func vgmOperandLength(cmd byte) int {
	switch {
	case cmd >= 0x30 && cmd <= 0x3F, cmd == 0x4F, cmd == 0x94:
		return 2
	case cmd >= 0x41 && cmd <= 0x4E, cmd >= 0x51 && cmd <= 0x5F, cmd >= 0xA1 && cmd <= 0xBF:
		return 3
	case cmd >= 0xC0 && cmd <= 0xDF:
		return 4
	case cmd == 0x90 || cmd == 0x91 || cmd == 0x95, cmd >= 0xE0:
		return 5
	case cmd == 0x92:
		return 6
	case cmd == 0x93:
		return 11
	case cmd == 0x68:
		return 12
	default:
		return 1
	}
}

// ParseVGMData decodes VGM (or gzip-compressed VGZ) data and quantises its
// register writes onto frameRate snapshots.
func ParseVGMData(data []byte, frameRate int) (*VGMFile, error) {
	if frameRate <= 0 {
		frameRate = PSG_FRAME_RATE_PAL
	}
	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("vgz: %w", err)
		}
		defer gz.Close()
		if data, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("vgz: %w", err)
		}
	}
	if len(data) < 0x40 {
		return nil, fmt.Errorf("vgm: %w", errMusicTooShort)
	}
	if !bytes.Equal(data[0:4], []byte("Vgm ")) {
		return nil, fmt.Errorf("invalid vgm header")
	}

	le := binary.LittleEndian
	version := le.Uint32(data[0x08:])
	snClockHz := le.Uint32(data[0x0C:]) & 0x3FFFFFFF
	totalSamples := uint64(le.Uint32(data[0x18:]))
	loopOffset := le.Uint32(data[0x1C:])
	gd3Offset := le.Uint32(data[0x14:])

	dataStart := uint32(0x40)
	if version >= 0x150 {
		if off := le.Uint32(data[0x34:]); off != 0 {
			dataStart = 0x34 + off
		}
	}
	if int(dataStart) >= len(data) {
		return nil, fmt.Errorf("vgm data offset out of range")
	}

	clockHz := uint32(0)
	if len(data) >= 0x78 && dataStart >= 0x78 {
		clockHz = le.Uint32(data[0x74:]) & 0x3FFFFFFF
	}
	if clockHz == 0 && snClockHz == 0 {
		return nil, fmt.Errorf("vgm has no AY-3-8910 or SN76489 stream")
	}
	system := "VGM AY-3-8910"
	if clockHz == 0 {
		clockHz = PSG_CLOCK_MSX
		system = "VGM SN76489"
	}

	w := &vgmWriter{}
	w.regs[PSG_REG_MIXER] = 0x3F
	sn := sn76489State{snClockHz: snClockHz, ayClockHz: clockHz, attenRegs: [4]uint8{15, 15, 15, 15}}

	samplesPerFrame := uint64(vgmSampleRate / frameRate)
	samplePos := uint64(0)
	nextFrame := samplesPerFrame
	wait := func(n uint64) {
		samplePos += n
		for samplePos >= nextFrame {
			w.flush()
			nextFrame += samplesPerFrame
		}
	}

	loopStart := 0
	if loopOffset != 0 {
		loopStart = int(0x1C + loopOffset)
	}
	loopSample := uint64(0)
	loopFound := false
	writes := 0

	for i := int(dataStart); i < len(data); {
		if loopStart != 0 && !loopFound && i == loopStart {
			loopSample = samplePos
			loopFound = true
		}
		cmd := data[i]
		switch {
		case cmd == 0x66:
			i = len(data)
		case cmd == 0xA0:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated AY write")
			}
			// Bit 7 of the register byte selects the second chip.
			if reg := data[i+1]; reg&0x80 == 0 {
				w.write(reg, data[i+2])
				writes++
			}
			i += 3
		case cmd == 0x50:
			if i+1 >= len(data) {
				return nil, fmt.Errorf("vgm truncated psg write")
			}
			sn.decode(data[i+1], w)
			writes++
			i += 2
		case cmd == 0x61:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated wait")
			}
			wait(uint64(le.Uint16(data[i+1:])))
			i += 3
		case cmd == 0x62:
			wait(735)
			i++
		case cmd == 0x63:
			wait(882)
			i++
		case cmd >= 0x70 && cmd <= 0x7F:
			wait(uint64(cmd&0x0F) + 1)
			i++
		case cmd >= 0x80 && cmd <= 0x8F:
			wait(uint64(cmd & 0x0F))
			i++
		case cmd == 0x67:
			if i+6 >= len(data) {
				return nil, fmt.Errorf("vgm truncated data block")
			}
			i += 7 + int(le.Uint32(data[i+3:]))
		default:
			n := vgmOperandLength(cmd)
			if i+n > len(data) {
				return nil, fmt.Errorf("vgm truncated command 0x%02X at offset %d", cmd, i)
			}
			i += n
		}
	}
	if samplePos%samplesPerFrame != 0 || len(w.frames) == 0 {
		w.flush()
	}
	totalSamples = max(totalSamples, samplePos)

	vgm := &VGMFile{Version: version, TotalSamples: totalSamples, LoopSample: loopSample, Writes: writes}
	vgm.frames = w.frames
	vgm.frameRate = frameRate
	vgm.clockHz = clockHz
	vgm.meta = MusicMetadata{System: system, Format: "VGM"}
	if gd3Offset != 0 {
		vgm.meta.Title, vgm.meta.Author = parseGD3(data, int(0x14+gd3Offset))
	}
	if loopFound {
		vgm.setLoop(int(loopSample / samplesPerFrame))
	} else {
		vgm.setLoop(-1)
	}
	return vgm, nil
}

// parseGD3 returns the English track title and author from a GD3 tag.
func parseGD3(data []byte, off int) (title, author string) {
	if off+12 > len(data) || string(data[off:off+4]) != "Gd3 " {
		return "", ""
	}
	size := int(binary.LittleEndian.Uint32(data[off+8:]))
	body := data[off+12:]
	if size < len(body) {
		body = body[:size]
	}

	var fields []string
	var cur []uint16
	for i := 0; i+1 < len(body) && len(fields) < 7; i += 2 {
		c := binary.LittleEndian.Uint16(body[i:])
		if c == 0 {
			fields = append(fields, string(utf16.Decode(cur)))
			cur = cur[:0]
			continue
		}
		cur = append(cur, c)
	}
	// Order: track (en), track (jp), game (en), game (jp), system (en), system (jp), author (en).
	if len(fields) > 0 {
		title = strings.TrimSpace(fields[0])
	}
	if len(fields) > 6 {
		author = strings.TrimSpace(fields[6])
	}
	return title, author
}
