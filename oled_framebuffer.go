// oled_framebuffer.go - 128x64 page-addressed monochrome display RAM

package main

import (
	"image"
	"image/color"
	"sync"
)

const (
	oledWidth    = 128
	oledHeight   = 64
	oledPageRows = 8
	oledPages    = oledHeight / oledPageRows
)

// OLEDFramebuffer mirrors the RAM of an SSD1306-class controller in page
// mode: each byte is one column of eight pixels, LSB on top. It implements
// MeterSurface and is safe to read from a render goroutine while the frame
// loop writes.
type OLEDFramebuffer struct {
	mu    sync.RWMutex
	ram   [oledPages][oledWidth]byte
	dirty uint8 // one bit per page
	row   int
}

// NewOLEDFramebuffer creates a blank display whose meter band sits on page row.
func NewOLEDFramebuffer(row int) *OLEDFramebuffer {
	return &OLEDFramebuffer{row: row}
}

func (fb *OLEDFramebuffer) writeColumn(page, col int, b byte) {
	if page < 0 || page >= oledPages || col < 0 || col >= oledWidth {
		return
	}
	if fb.ram[page][col] == b {
		return
	}
	fb.ram[page][col] = b
	fb.dirty |= 1 << page
}

func (fb *OLEDFramebuffer) DrawSegment(channel, segment int) {
	fb.mu.Lock()
	fb.writeColumn(fb.row, barColumn(channel, segment), segmentColumn(segment))
	fb.mu.Unlock()
}

func (fb *OLEDFramebuffer) EraseSegment(channel, segment int) {
	fb.mu.Lock()
	fb.writeColumn(fb.row, barColumn(channel, segment), 0)
	fb.mu.Unlock()
}

func (fb *OLEDFramebuffer) DrawNoteGlyph(note NoteIndex, level int, style NoteStyle) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if style == StyleFullGrid {
		col, page := gridCell(note)
		for i, b := range volumeGlyphs[clampGlyphLevel(level)] {
			fb.writeColumn(page, col+i, b)
		}
		return
	}
	col := meterLeft + int(note)
	upper, lower := stripColumns(level, style)
	if style == StyleTwoRows {
		fb.writeColumn(fb.row-1, col, upper)
	}
	fb.writeColumn(fb.row, col, lower)
}

func (fb *OLEDFramebuffer) EraseNoteGlyph(note NoteIndex, style NoteStyle) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if style == StyleFullGrid {
		col, page := gridCell(note)
		for i := range glyphWidth {
			fb.writeColumn(page, col+i, 0)
		}
		return
	}
	col := meterLeft + int(note)
	if style == StyleTwoRows {
		fb.writeColumn(fb.row-1, col, 0)
	}
	fb.writeColumn(fb.row, col, 0)
}

func (fb *OLEDFramebuffer) ClearRegion(r Region) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for page := r.Page0; page <= r.Page1; page++ {
		for col := r.Col0; col <= r.Col1; col++ {
			fb.writeColumn(page, col, 0)
		}
	}
}

// Clear blanks the whole display.
func (fb *OLEDFramebuffer) Clear() {
	fb.ClearRegion(Region{Col0: 0, Col1: oledWidth - 1, Page0: 0, Page1: oledPages - 1})
}

// Column returns the raw byte at page, col.
func (fb *OLEDFramebuffer) Column(page, col int) byte {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.ram[page][col]
}

// Pixel reports whether the pixel at x, y is lit.
func (fb *OLEDFramebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= oledWidth || y < 0 || y >= oledHeight {
		return false
	}
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.ram[y/oledPageRows][x]>>(y%oledPageRows)&1 != 0
}

// Snapshot copies the display RAM.
func (fb *OLEDFramebuffer) Snapshot() [oledPages][oledWidth]byte {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.ram
}

// TakeDirty returns the pages written since the last call and clears the mask.
func (fb *OLEDFramebuffer) TakeDirty() uint8 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	d := fb.dirty
	fb.dirty = 0
	return d
}

// Image renders the display as an RGBA image using on/off colours.
func (fb *OLEDFramebuffer) Image(on, off color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, oledWidth, oledHeight))
	fb.WriteRGBA(img.Pix, on, off)
	return img
}

// WriteRGBA fills dst (oledWidth*oledHeight*4 bytes) with the display pixels.
func (fb *OLEDFramebuffer) WriteRGBA(dst []byte, on, off color.RGBA) {
	ram := fb.Snapshot()
	for y := range oledHeight {
		for x := range oledWidth {
			c := off
			if ram[y/oledPageRows][x]>>(y%oledPageRows)&1 != 0 {
				c = on
			}
			i := (y*oledWidth + x) * 4
			if i+3 >= len(dst) {
				return
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R, c.G, c.B, c.A
		}
	}
}
