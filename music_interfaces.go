// music_interfaces.go - Common interface for parsed PSG register dumps

package main

// MusicFile is implemented by all parsed register dump formats.
type MusicFile interface {
	// GetMetadata returns common metadata fields
	GetMetadata() MusicMetadata
	// GetFrames returns one PSG_REG_COUNT register dump per player frame
	GetFrames() [][]uint8
	// FrameRate is the number of frames per second
	FrameRate() int
	// ClockHz is the chip clock the periods were written for
	ClockHz() uint32
	// LoopFrame is the restart frame; ok is false when the song ends
	LoopFrame() (frame int, ok bool)
}
