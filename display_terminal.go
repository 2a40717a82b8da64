// display_terminal.go - Braille rendering of the display for text terminals

package main

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	brailleCols = oledWidth / 2
	brailleRows = oledHeight / 4
)

// Braille dot positions (col, row) -> bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// BrailleText renders the framebuffer as brailleRows lines of brailleCols
// Unicode braille cells, each cell covering 2x4 pixels.
func BrailleText(fb *OLEDFramebuffer) string {
	return brailleFromRAM(fb.Snapshot())
}

func brailleFromRAM(ram [oledPages][oledWidth]byte) string {
	lit := func(x, y int) bool {
		return ram[y/oledPageRows][x]>>(y%oledPageRows)&1 != 0
	}

	rows := make([]string, brailleRows)
	for row := range brailleRows {
		var line strings.Builder
		for col := range brailleCols {
			var pattern uint
			for dx := range 2 {
				for dy := range 4 {
					if lit(col*2+dx, row*4+dy) {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			line.WriteRune(rune(0x2800 + pattern))
		}
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}

// TerminalDisplay redraws the panel in place on a terminal, or appends
// frames separated by form feeds when the writer is not a terminal.
type TerminalDisplay struct {
	w      io.Writer
	fd     int
	tty    bool
	header string
}

// NewTerminalDisplay writes to f, detecting whether it is a terminal.
func NewTerminalDisplay(f *os.File, header string) *TerminalDisplay {
	fd := int(f.Fd())
	td := &TerminalDisplay{w: f, fd: fd, tty: term.IsTerminal(fd), header: header}
	if td.tty {
		io.WriteString(td.w, "\x1b[2J\x1b[?25l")
	}
	return td
}

// NewTextDisplay writes plain frames to w.
func NewTextDisplay(w io.Writer, header string) *TerminalDisplay {
	return &TerminalDisplay{w: w, fd: -1, header: header}
}

func (t *TerminalDisplay) Present(fb *OLEDFramebuffer) error {
	text := BrailleText(fb)
	if t.tty {
		if width, _, err := term.GetSize(t.fd); err == nil && width > 0 && width < brailleCols {
			text = cropLines(text, width)
		}
	}

	var sb strings.Builder
	if t.tty {
		sb.WriteString("\x1b[H")
	}
	if t.header != "" {
		sb.WriteString(t.header)
		sb.WriteByte('\n')
	}
	sb.WriteString(text)
	if t.tty {
		sb.WriteByte('\n')
	} else {
		sb.WriteString("\n\f\n")
	}
	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return &MeterError{Operation: "terminal write", Details: "frame", Err: err}
	}
	return nil
}

func (t *TerminalDisplay) Close() error {
	if t.tty {
		io.WriteString(t.w, "\x1b[?25h")
	}
	return nil
}

// cropLines truncates every line to width runes.
func cropLines(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		r := []rune(l)
		if len(r) > width {
			lines[i] = string(r[:width])
		}
	}
	return strings.Join(lines, "\n")
}
