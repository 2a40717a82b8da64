// psg_engine.go - AY/YM register file sampled once per player frame.

package main

import (
	"fmt"
	"sync"
)

// PSGEngine holds the register state of an AY-3-8910/YM2149 and steps its
// envelope generator at frame granularity. Sample reads the per-channel
// volume and tone period the meter consumes.
type PSGEngine struct {
	mutex     sync.Mutex
	clockHz   uint32
	frameRate int

	regs [PSG_REG_COUNT]uint8

	envStepsPerFrame float64
	envAccum         float64
	envLevel         int
	envDirection     int
	envHold          bool
}

func NewPSGEngine(clockHz uint32, frameRate int) *PSGEngine {
	if clockHz == 0 {
		clockHz = PSG_CLOCK_ATARI_ST
	}
	if frameRate <= 0 {
		frameRate = PSG_FRAME_RATE_PAL
	}
	e := &PSGEngine{clockHz: clockHz, frameRate: frameRate}
	e.Reset()
	return e
}

// SetTiming changes the chip clock and the rate at which Tick is called.
func (e *PSGEngine) SetTiming(clockHz uint32, frameRate int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if clockHz != 0 {
		e.clockHz = clockHz
	}
	if frameRate > 0 {
		e.frameRate = frameRate
	}
	e.updateEnvRate()
}

func (e *PSGEngine) ClockHz() uint32 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.clockHz
}

func (e *PSGEngine) Reset() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.regs = [PSG_REG_COUNT]uint8{}
	e.regs[PSG_REG_MIXER] = 0x3F
	e.envAccum = 0
	e.updateEnvRate()
	e.resetEnvelope()
}

func (e *PSGEngine) Register(reg uint8) uint8 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if reg >= PSG_REG_COUNT {
		return 0
	}
	return e.regs[reg]
}

func (e *PSGEngine) WriteRegister(reg uint8, value uint8) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.writeLocked(reg, value)
}

func (e *PSGEngine) writeLocked(reg uint8, value uint8) {
	if reg >= PSG_REG_COUNT {
		return
	}
	e.regs[reg] = value
	switch reg {
	case PSG_REG_ENV_FINE, PSG_REG_ENV_CRSE:
		e.updateEnvRate()
	case PSG_REG_ENV_SHP:
		e.resetEnvelope()
	}
}

// ApplyFrame loads a full register dump. An R13 of 0xFF leaves the
// envelope running.
func (e *PSGEngine) ApplyFrame(frame []uint8) error {
	if len(frame) < PSG_REG_COUNT {
		return fmt.Errorf("psg frame too short: %d", len(frame))
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for reg := uint8(0); reg < PSG_REG_ENV_SHP; reg++ {
		e.writeLocked(reg, frame[reg])
	}
	if frame[PSG_REG_ENV_SHP] != PSG_ENV_NO_WRITE {
		e.writeLocked(PSG_REG_ENV_SHP, frame[PSG_REG_ENV_SHP])
	}
	return nil
}

// Tick advances the envelope generator by one frame.
func (e *PSGEngine) Tick() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.envAccum += e.envStepsPerFrame
	steps := int(e.envAccum)
	e.envAccum -= float64(steps)
	for range steps {
		if !e.stepEnvelope() {
			e.envAccum = 0
			return
		}
	}
}

// EnvelopeLevel is the current 4-bit envelope output.
func (e *PSGEngine) EnvelopeLevel() uint8 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return uint8(e.envLevel)
}

// Sample reads volume and tone period for channels A, B and C. Periods are
// rescaled from the chip clock onto the meter's note table clock.
func (e *PSGEngine) Sample() [NumChannels]ChannelSample {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	var out [NumChannels]ChannelSample
	for ch := range NumChannels {
		period := uint16(e.regs[ch*2]) | uint16(e.regs[ch*2+1]&0x0F)<<8
		vol := e.regs[PSG_REG_VOL_A+ch]
		level := vol & 0x0F
		if vol&0x10 != 0 {
			level = uint8(e.envLevel)
		}
		out[ch] = ChannelSample{Volume: level, Period: scalePeriod(period, e.clockHz)}
	}
	return out
}

func scalePeriod(period uint16, clockHz uint32) uint16 {
	if clockHz == 0 || clockHz == noteTableClockHz {
		return period
	}
	scaled := (uint64(period)*noteTableClockHz + uint64(clockHz)/2) / uint64(clockHz)
	if scaled > 0xFFFF {
		return 0xFFFF
	}
	return uint16(scaled)
}

func (e *PSGEngine) updateEnvRate() {
	period := uint32(e.regs[PSG_REG_ENV_FINE]) | uint32(e.regs[PSG_REG_ENV_CRSE])<<8
	if period == 0 {
		period = 1
	}
	// One envelope step every 256*period clocks.
	e.envStepsPerFrame = float64(e.clockHz) / (256.0 * float64(period) * float64(e.frameRate))
}

func (e *PSGEngine) resetEnvelope() {
	if e.regs[PSG_REG_ENV_SHP]&0x04 != 0 {
		e.envLevel = 0
		e.envDirection = 1
	} else {
		e.envLevel = 15
		e.envDirection = -1
	}
	e.envHold = false
	e.envAccum = 0
}

// stepEnvelope moves one step and reports whether the envelope is still running.
func (e *PSGEngine) stepEnvelope() bool {
	if e.envHold {
		return false
	}
	next := e.envLevel + e.envDirection
	if next >= 0 && next <= 15 {
		e.envLevel = next
		return true
	}

	shape := e.regs[PSG_REG_ENV_SHP] & 0x0F
	cont := shape&0x08 != 0
	attack := shape&0x04 != 0
	hold := shape&0x01 != 0
	alt := shape&0x02 != 0

	switch {
	case !cont:
		e.envLevel = 0
		e.envHold = true
	case hold:
		// Hold at the end of the first cycle, inverted when alternating.
		if alt == attack {
			e.envLevel = 0
		} else {
			e.envLevel = 15
		}
		e.envHold = true
	case alt:
		e.envDirection = -e.envDirection
		e.envLevel += e.envDirection
	default:
		if e.envDirection > 0 {
			e.envLevel = 0
		} else {
			e.envLevel = 15
		}
	}
	return !e.envHold
}
