// meter_glyphs.go - Column bitmaps for bar segments, note strips and grid glyphs

package main

// Display geometry shared by the meter and the OLED framebuffer.
const (
	meterLeft      = 32 // first column of the bar/strip band
	barSlotWidth   = 32 // columns per channel bar
	barSegmentStep = 2  // columns per bar segment (1 lit, 1 gap)
	gridLeft       = 4  // first column of the full-screen note grid
	gridColumns    = 24 // notes per grid row
	glyphWidth     = 5
	maxGlyphLevel  = 16
)

// volumeGlyphs are 5x8 cells, one per level 0..16; LSB is the top pixel.
var volumeGlyphs = [maxGlyphLevel + 1][glyphWidth]byte{
	{0x00, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x08, 0x00, 0x00},
	{0x00, 0x08, 0x00, 0x08, 0x00},
	{0x00, 0x08, 0x08, 0x08, 0x00},
	{0x00, 0x08, 0x14, 0x08, 0x00},
	{0x00, 0x08, 0x1C, 0x08, 0x00},
	{0x00, 0x1C, 0x14, 0x1C, 0x00},
	{0x00, 0x1C, 0x1C, 0x1C, 0x00},
	{0x00, 0x1C, 0x36, 0x1C, 0x00},
	{0x00, 0x1C, 0x3E, 0x1C, 0x00},
	{0x08, 0x1C, 0x3E, 0x1C, 0x08},
	{0x08, 0x3E, 0x3E, 0x3E, 0x08},
	{0x1C, 0x3E, 0x3E, 0x3E, 0x1C},
	{0x1C, 0x3E, 0x7F, 0x3E, 0x1C},
	{0x3E, 0x3E, 0x7F, 0x3E, 0x3E},
	{0x3E, 0x7F, 0x7F, 0x7F, 0x3E},
	{0x55, 0xAA, 0x55, 0xAA, 0x55},
}

// segmentColumn is the bitmap of bar segment seg. The lit height steps down
// every four segments, so the bar reads as a ramp.
func segmentColumn(seg int) byte {
	return 0xFF ^ (0x1F >> ((seg + 1) / 4))
}

// barColumn is the screen column of a bar segment.
func barColumn(channel, seg int) int {
	return meterLeft + channel*barSlotWidth + seg*barSegmentStep
}

// fillFromBottom lights the bottom n pixels of a page column (n <= 8).
func fillFromBottom(n int) byte {
	return 0xFF ^ (0xFF >> n)
}

func clampGlyphLevel(level int) int {
	return max(0, min(level, maxGlyphLevel))
}

// stripColumns returns the upper and lower page bytes of a compact note strip.
func stripColumns(level int, style NoteStyle) (upper, lower byte) {
	level = clampGlyphLevel(level)
	if style == StyleOneRow {
		if level > 1 {
			level >>= 1
		}
		return 0, fillFromBottom(min(level, 8))
	}
	if level > 8 {
		return fillFromBottom(level - 8), 0xFF
	}
	return 0, fillFromBottom(level)
}

// gridCell returns the column and page of a note in the full-screen grid.
func gridCell(note NoteIndex) (col, page int) {
	return gridLeft + int(note)%gridColumns*glyphWidth, int(note) / gridColumns
}
