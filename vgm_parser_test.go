package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"
	"unicode/utf16"
)

// buildVGMHeader creates a minimal VGM header with data starting at offset 0x80.
func buildVGMHeader(totalSamples uint32, ayClock uint32) []byte {
	header := make([]byte, 0x80)
	copy(header[0:4], []byte("Vgm "))
	binary.LittleEndian.PutUint32(header[0x08:0x0C], 0x00000172) // version 1.72
	binary.LittleEndian.PutUint32(header[0x18:0x1C], totalSamples)
	binary.LittleEndian.PutUint32(header[0x34:0x38], 0x4C) // data offset: 0x34+0x4C=0x80
	binary.LittleEndian.PutUint32(header[0x74:0x78], ayClock)
	return header
}

// buildVGMHeaderSN creates a VGM header with SN76489 clock set at offset 0x0C.
func buildVGMHeaderSN(totalSamples, snClock, ayClock uint32) []byte {
	header := buildVGMHeader(totalSamples, ayClock)
	binary.LittleEndian.PutUint32(header[0x0C:0x10], snClock)
	return header
}

func TestVGMParse_AYOnly(t *testing.T) {
	header := buildVGMHeader(735, 1773400)
	cmds := []byte{
		0xA0, 0x00, 0xFF, // AY reg 0 = 0xFF
		0xA0, 0x07, 0x3E, // AY reg 7 = 0x3E (enable tone A)
		0x62, // wait 735 samples
		0x66, // end
	}
	vgm, err := ParseVGMData(append(header, cmds...), PSG_FRAME_RATE_PAL)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if vgm.Writes != 2 {
		t.Fatalf("expected 2 writes, got %d", vgm.Writes)
	}
	frames := vgm.GetFrames()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0][0] != 0xFF || frames[0][7] != 0x3E {
		t.Errorf("frame 0: R0=%02X R7=%02X", frames[0][0], frames[0][7])
	}
	if frames[0][PSG_REG_ENV_SHP] != PSG_ENV_NO_WRITE {
		t.Errorf("untouched R13 = %02X, want FF", frames[0][PSG_REG_ENV_SHP])
	}
	if vgm.ClockHz() != 1773400 {
		t.Errorf("expected clock 1773400, got %d", vgm.ClockHz())
	}
}

func TestVGMParse_GracefulSkipUnknownCommands(t *testing.T) {
	header := buildVGMHeader(1470, 1773400)
	cmds := []byte{
		0xA0, 0x00, 0xFF, // AY write (kept)
		0x51, 0x10, 0x20, // YM2413 write (skip 2 operands)
		0xA0, 0x01, 0xAA, // AY write (kept)
		0x52, 0x30, 0x40, // YM2612 port 0 (skip 2 operands)
		0x55, 0x00, 0x01, // YM2203 (skip 2 operands)
		0x62,       // wait 735 samples
		0x30, 0x00, // reserved 1-operand (skip 1)
		0x3F, 0x00, // reserved 1-operand (skip 1)
		0xC0, 0x01, 0x02, 0x03, // Sega PCM (skip 3 operands)
		0xE0, 0x01, 0x02, 0x03, 0x04, // seek PCM (skip 4 operands)
		0xA0, 0x07, 0x3E, // AY write (kept)
		0x62, // wait 735 samples
		0x66, // end
	}
	vgm, err := ParseVGMData(append(header, cmds...), PSG_FRAME_RATE_PAL)
	if err != nil {
		t.Fatalf("ParseVGMData should skip unknown commands, got error: %v", err)
	}
	if vgm.Writes != 3 {
		t.Fatalf("expected 3 AY writes (unknown commands skipped), got %d", vgm.Writes)
	}
	frames := vgm.GetFrames()
	last := frames[len(frames)-1]
	if last[0] != 0xFF || last[1] != 0xAA || last[7] != 0x3E {
		t.Errorf("last frame R0=%02X R1=%02X R7=%02X", last[0], last[1], last[7])
	}
}

func TestVGMParse_SkipChipAndStreamCommands(t *testing.T) {
	cases := map[string][]byte{
		"ym2612 wait": {0x80, 0x81, 0x8F},
		"dac stream": {
			0x90, 0x00, 0x00, 0x00, 0x00,
			0x91, 0x00, 0x00, 0x00, 0x00,
			0x92, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x94, 0x00,
			0x95, 0x00, 0x00, 0x00, 0x00,
		},
		"pcm ram": {0x68, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	}
	for name, skipped := range cases {
		cmds := []byte{0xA0, 0x00, 0x10}
		cmds = append(cmds, skipped...)
		cmds = append(cmds, 0xA0, 0x01, 0x02, 0x62, 0x66)
		vgm, err := ParseVGMData(append(buildVGMHeader(735, 1773400), cmds...), PSG_FRAME_RATE_PAL)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if vgm.Writes != 2 {
			t.Fatalf("%s: expected 2 AY writes, got %d", name, vgm.Writes)
		}
	}
}

func TestVGMParse_FrameQuantisation(t *testing.T) {
	cmds := []byte{
		0xA0, 0x08, 0x05,
		0x63, // wait 882
		0xA0, 0x08, 0x09,
		0x63,
		0x66,
	}
	data := append(buildVGMHeader(1764, 1773400), cmds...)

	pal, err := ParseVGMData(data, 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	if got := len(pal.GetFrames()); got != 2 {
		t.Fatalf("50Hz: got %d frames, want 2", got)
	}
	if pal.GetFrames()[0][8] != 5 || pal.GetFrames()[1][8] != 9 {
		t.Fatalf("50Hz volumes %d,%d", pal.GetFrames()[0][8], pal.GetFrames()[1][8])
	}

	ntsc, err := ParseVGMData(data, 60)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	if got := len(ntsc.GetFrames()); got != 3 {
		t.Fatalf("60Hz: got %d frames, want 3", got)
	}
	if ntsc.FrameRate() != 60 {
		t.Fatalf("frame rate %d", ntsc.FrameRate())
	}
}

func TestVGMParse_EnvelopeRetriggerMarker(t *testing.T) {
	cmds := []byte{
		0xA0, 0x0D, 0x0E,
		0x63,
		0xA0, 0x08, 0x10,
		0x63,
		0x66,
	}
	vgm, err := ParseVGMData(append(buildVGMHeader(0, 2000000), cmds...), 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	frames := vgm.GetFrames()
	if frames[0][13] != 0x0E {
		t.Fatalf("frame 0 R13 = %02X, want 0E", frames[0][13])
	}
	if frames[1][13] != PSG_ENV_NO_WRITE {
		t.Fatalf("frame 1 R13 = %02X, want FF", frames[1][13])
	}
}

func TestVGMParse_SecondChipIgnored(t *testing.T) {
	cmds := []byte{0xA0, 0x88, 0x0F, 0x62, 0x66}
	vgm, err := ParseVGMData(append(buildVGMHeader(735, 1773400), cmds...), 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	if vgm.Writes != 0 || vgm.GetFrames()[0][8] != 0 {
		t.Fatalf("second chip write applied: writes=%d R8=%d", vgm.Writes, vgm.GetFrames()[0][8])
	}
}

func TestVGMParse_SN76489(t *testing.T) {
	header := buildVGMHeaderSN(735, 3579545, 0)
	cmds := []byte{
		0x50, 0x8F, // ch0 tone latch, low nibble F
		0x50, 0x3F, // data byte: high 6 bits 0x3F -> divider 0x3FF
		0x50, 0x90, // ch0 attenuation 0
		0x62,
		0x66,
	}
	vgm, err := ParseVGMData(append(header, cmds...), 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	if vgm.ClockHz() != PSG_CLOCK_MSX {
		t.Fatalf("clock = %d, want MSX fallback", vgm.ClockHz())
	}
	f := vgm.GetFrames()[0]
	// 1023 * 1789773 / (3579545 * 2) = 255
	if f[0] != 0xFF || f[1] != 0x00 {
		t.Fatalf("tone A = %02X%02X, want 00FF", f[1], f[0])
	}
	if f[8] != 15 {
		t.Fatalf("volume A = %d, want 15", f[8])
	}
	if f[7] != 0x3E {
		t.Fatalf("mixer = %02X, want 3E", f[7])
	}
	if meta := vgm.GetMetadata(); meta.System != "VGM SN76489" {
		t.Fatalf("system = %q", meta.System)
	}
}

func TestVGMParse_Gzip(t *testing.T) {
	raw := append(buildVGMHeader(735, 1773400), 0xA0, 0x08, 0x0C, 0x62, 0x66)
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(raw)
	zw.Close()

	vgm, err := ParseVGMData(buf.Bytes(), 50)
	if err != nil {
		t.Fatalf("ParseVGMData(vgz): %v", err)
	}
	if vgm.GetFrames()[0][8] != 0x0C {
		t.Fatalf("R8 = %02X", vgm.GetFrames()[0][8])
	}
}

func TestVGMParse_LoopOffset(t *testing.T) {
	header := buildVGMHeader(1764, 1773400)
	// Loop points at the second write, 0x84 in the file.
	binary.LittleEndian.PutUint32(header[0x1C:0x20], 0x84-0x1C)
	cmds := []byte{0xA0, 0x08, 0x05, 0x63, 0xA0, 0x08, 0x09, 0x63, 0x66}
	vgm, err := ParseVGMData(append(header, cmds...), 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	if loop, ok := vgm.LoopFrame(); !ok || loop != 1 {
		t.Fatalf("LoopFrame = %d,%v, want 1", loop, ok)
	}
	if vgm.LoopSample != 882 {
		t.Fatalf("LoopSample = %d", vgm.LoopSample)
	}
}

func gd3String(s string) []byte {
	var out []byte
	for _, c := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, c)
	}
	return append(out, 0, 0)
}

func TestVGMParse_GD3Tag(t *testing.T) {
	data := append(buildVGMHeader(735, 1773400), 0xA0, 0x08, 0x01, 0x62, 0x66)
	tagPos := len(data)
	binary.LittleEndian.PutUint32(data[0x14:0x18], uint32(tagPos-0x14))

	var body []byte
	for _, s := range []string{"Lotus Theme", "", "Game", "", "Atari ST", "", "Composer"} {
		body = append(body, gd3String(s)...)
	}
	tag := []byte("Gd3 \x00\x01\x00\x00")
	tag = binary.LittleEndian.AppendUint32(tag, uint32(len(body)))
	data = append(data, append(tag, body...)...)

	vgm, err := ParseVGMData(data, 50)
	if err != nil {
		t.Fatalf("ParseVGMData: %v", err)
	}
	meta := vgm.GetMetadata()
	if meta.Title != "Lotus Theme" || meta.Author != "Composer" {
		t.Fatalf("metadata = %+v", meta)
	}
}

func TestParseVGMData_Errors(t *testing.T) {
	cases := map[string][]byte{
		"too short":       []byte("Vgm "),
		"bad magic":       make([]byte, 0x80),
		"no chips":        append(buildVGMHeader(0, 0), 0x66),
		"truncated write": append(buildVGMHeader(0, 1773400), 0xA0, 0x00),
		"truncated wait":  append(buildVGMHeader(0, 1773400), 0x61, 0x00),
		"truncated skip":  append(buildVGMHeader(0, 1773400), 0xE0, 0x00),
	}
	for name, data := range cases {
		if _, err := ParseVGMData(data, 50); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
