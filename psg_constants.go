package main

const (
	PSG_REG_COUNT = 14

	PSG_REG_MIXER    = 7
	PSG_REG_VOL_A    = 8
	PSG_REG_ENV_FINE = 11
	PSG_REG_ENV_CRSE = 12
	PSG_REG_ENV_SHP  = 13

	// YM dumps store 0xFF in R13 for frames that do not retrigger the envelope.
	PSG_ENV_NO_WRITE = 0xFF

	PSG_CLOCK_ATARI_ST    = 2000000
	PSG_CLOCK_ZX_SPECTRUM = 1773400
	PSG_CLOCK_CPC         = 1000000
	PSG_CLOCK_MSX         = 1789773

	PSG_FRAME_RATE_PAL  = 50
	PSG_FRAME_RATE_NTSC = 60
)
