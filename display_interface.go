// display_interface.go - Output adapters fed from the OLED framebuffer

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"strings"
)

// FrameSink receives the framebuffer after every meter frame.
type FrameSink interface {
	Present(fb *OLEDFramebuffer) error
	Close() error
}

// Output kinds selectable on the command line.
const (
	OUTPUT_NONE = iota
	OUTPUT_WINDOW
	OUTPUT_TERMINAL
	OUTPUT_PNG
	OUTPUT_SERIAL
)

// Window geometry; the status line sits under the scaled panel.
const (
	defaultWindowScale = 6
	windowStatusHeight = 18
)

var outputNames = map[string]int{
	"none":     OUTPUT_NONE,
	"window":   OUTPUT_WINDOW,
	"terminal": OUTPUT_TERMINAL,
	"png":      OUTPUT_PNG,
	"serial":   OUTPUT_SERIAL,
}

func parseOutput(name string) (int, error) {
	kind, ok := outputNames[strings.ToLower(name)]
	if !ok {
		return 0, &MeterError{Operation: "output selection", Details: fmt.Sprintf("unknown output %q", name)}
	}
	return kind, nil
}

// Panel colours: OLED cyan on black.
var (
	pixelOn  = color.RGBA{R: 0x40, G: 0xD8, B: 0xFF, A: 0xFF}
	pixelOff = color.RGBA{R: 0x05, G: 0x08, B: 0x0A, A: 0xFF}
)

// multiSink fans a frame out to several sinks, stopping at the first error.
type multiSink []FrameSink

func (m multiSink) Present(fb *OLEDFramebuffer) error {
	for _, s := range m {
		if err := s.Present(fb); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
