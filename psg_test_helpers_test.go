// psg_test_helpers_test.go - Test helpers for PSG behavior.

package main

// psgFrame builds one register dump; R13 defaults to "no write".
func psgFrame(regs map[int]uint8) []uint8 {
	frame := make([]uint8, PSG_REG_COUNT)
	frame[PSG_REG_MIXER] = 0x3F
	frame[PSG_REG_ENV_SHP] = PSG_ENV_NO_WRITE
	for reg, v := range regs {
		frame[reg] = v
	}
	return frame
}

// rawAYData concatenates frames into a headerless AY dump.
func rawAYData(frames ...[]uint8) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// volumeFrames returns count frames with channel A at the given volume.
func volumeFrames(count int, vol uint8) [][]uint8 {
	frames := make([][]uint8, count)
	for i := range frames {
		frames[i] = psgFrame(map[int]uint8{0: 0x1C, 1: 0x01, PSG_REG_VOL_A: vol})
	}
	return frames
}

// newTestPSGEngine returns an engine whose envelope advances exactly one
// step per Tick once R11/R12 hold envOneStepPeriod.
func newTestPSGEngine() *PSGEngine {
	return NewPSGEngine(envTestClock, PSG_FRAME_RATE_PAL)
}

const (
	envTestClock     = 1280000
	envOneStepPeriod = 100 // 1280000 / (256 * 100 * 50) = 1 step per frame
)
