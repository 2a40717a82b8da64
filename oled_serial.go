// oled_serial.go - Streams display pages to a microcontroller OLED bridge

package main

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

const (
	oledSOF0        = 0xAA
	oledSOF1        = 0x55
	oledCmdPage     = 0x20 // payload: page, start column, column bytes
	oledCmdClear    = 0x21 // no payload
	defaultBaudRate = 500000
)

// OLEDPacket is one command for the display bridge.
type OLEDPacket struct {
	Cmd     byte
	Page    byte
	Col     byte
	Columns []byte
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][page][col][data...][CKS]
//
// LEN counts CMD plus payload; CKS is the XOR of LEN, CMD and payload.
func (p OLEDPacket) Encode() ([]byte, error) {
	payload := make([]byte, 0, 2+len(p.Columns))
	if p.Cmd == oledCmdPage {
		payload = append(payload, p.Page, p.Col)
		payload = append(payload, p.Columns...)
	}
	if len(payload)+1 > 0xFF {
		return nil, &MeterError{Operation: "encode", Details: fmt.Sprintf("payload of %d bytes too long", len(payload))}
	}

	length := byte(len(payload) + 1)
	cks := length ^ p.Cmd
	for _, b := range payload {
		cks ^= b
	}

	out := make([]byte, 0, len(payload)+5)
	out = append(out, oledSOF0, oledSOF1, length, p.Cmd)
	out = append(out, payload...)
	out = append(out, cks)
	return out, nil
}

// SerialDisplay pushes changed framebuffer pages to a port.
type SerialDisplay struct {
	port io.WriteCloser
	sent uint64
}

// OpenSerialDisplay opens the named serial device at baud.
func OpenSerialDisplay(name string, baud int) (*SerialDisplay, error) {
	if baud <= 0 {
		baud = defaultBaudRate
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, &MeterError{Operation: "serial open", Details: name, Err: err}
	}
	logger.Info("serial: port opened", "device", name, "baud", baud)
	return NewSerialDisplay(p), nil
}

// NewSerialDisplay wraps an already open port.
func NewSerialDisplay(port io.WriteCloser) *SerialDisplay {
	return &SerialDisplay{port: port}
}

// Reset tells the bridge to blank the panel.
func (s *SerialDisplay) Reset() error {
	return s.send(OLEDPacket{Cmd: oledCmdClear})
}

// Present sends every page written since the previous call.
func (s *SerialDisplay) Present(fb *OLEDFramebuffer) error {
	dirty := fb.TakeDirty()
	if dirty == 0 {
		return nil
	}
	ram := fb.Snapshot()
	for page := range oledPages {
		if dirty&(1<<page) == 0 {
			continue
		}
		pkt := OLEDPacket{Cmd: oledCmdPage, Page: byte(page), Columns: ram[page][:]}
		if err := s.send(pkt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SerialDisplay) send(p OLEDPacket) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if _, err := s.port.Write(data); err != nil {
		return &MeterError{Operation: "serial write", Details: fmt.Sprintf("cmd 0x%02X", p.Cmd), Err: err}
	}
	s.sent++
	logger.Debug("serial: packet sent", "cmd", p.Cmd, "page", p.Page, "bytes", len(data))
	return nil
}

// PacketsSent counts packets written to the port.
func (s *SerialDisplay) PacketsSent() uint64 {
	return s.sent
}

func (s *SerialDisplay) Close() error {
	logger.Info("serial: closing port")
	return s.port.Close()
}
