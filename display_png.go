// display_png.go - Writes scaled PNG snapshots of the display

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pngScale         = 4
	pngCaptionHeight = 16
)

// PNGRecorder saves every Nth frame as frames/frNNNNN.png under dir.
type PNGRecorder struct {
	dir     string
	every   int
	caption string
	frame   int
	saved   int
	dc      *gg.Context
	face    font.Face
}

func NewPNGRecorder(dir string, every int, caption string) (*PNGRecorder, error) {
	if every < 1 {
		every = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &MeterError{Operation: "png recorder", Details: dir, Err: err}
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, &MeterError{Operation: "png recorder", Details: "font", Err: err}
	}
	return &PNGRecorder{
		dir:     dir,
		every:   every,
		caption: caption,
		dc:      gg.NewContext(oledWidth*pngScale, oledHeight*pngScale+pngCaptionHeight),
		face:    truetype.NewFace(f, &truetype.Options{Size: 10}),
	}, nil
}

func setRGBColor(dc *gg.Context, r, g, b uint8) {
	dc.SetRGB(float64(r)/255, float64(g)/255, float64(b)/255)
}

func (p *PNGRecorder) Present(fb *OLEDFramebuffer) error {
	p.frame++
	if (p.frame-1)%p.every != 0 {
		return nil
	}
	dc := p.dc
	setRGBColor(dc, pixelOff.R, pixelOff.G, pixelOff.B)
	dc.Clear()

	ram := fb.Snapshot()
	setRGBColor(dc, pixelOn.R, pixelOn.G, pixelOn.B)
	for y := range oledHeight {
		for x := range oledWidth {
			if ram[y/oledPageRows][x]>>(y%oledPageRows)&1 != 0 {
				dc.DrawRectangle(float64(x*pngScale), float64(y*pngScale), pngScale-1, pngScale-1)
			}
		}
	}
	dc.Fill()

	if p.caption != "" {
		dc.SetFontFace(p.face)
		dc.SetRGB(0.8, 0.8, 0.8)
		dc.DrawString(fmt.Sprintf("%s  #%05d", p.caption, p.frame), 4, float64(oledHeight*pngScale+pngCaptionHeight-4))
	}

	path := filepath.Join(p.dir, fmt.Sprintf("fr%05d.png", p.frame))
	if err := dc.SavePNG(path); err != nil {
		return &MeterError{Operation: "png save", Details: path, Err: err}
	}
	p.saved++
	return nil
}

// Saved is the number of PNG files written.
func (p *PNGRecorder) Saved() int { return p.saved }

func (p *PNGRecorder) Close() error {
	logger.Info("png: frames written", "dir", p.dir, "count", p.saved)
	return nil
}
