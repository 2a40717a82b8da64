// psg_player.go - Frame-paced PSG playback feeding the meter.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var errNoSong = errors.New("no song loaded")

// FrameFunc receives the zero-based frame index and the sampled channels.
type FrameFunc func(frame int, samples [NumChannels]ChannelSample)

type PSGPlayer struct {
	mu     sync.Mutex
	engine *PSGEngine
	file   MusicFile
	frames [][]uint8
	loop   bool
	pos    int
	loops  int
}

func NewPSGPlayer(engine *PSGEngine) *PSGPlayer {
	return &PSGPlayer{engine: engine}
}

// SetLoop makes playback restart at the song's loop frame (or the start)
// instead of ending.
func (p *PSGPlayer) SetLoop(loop bool) {
	p.mu.Lock()
	p.loop = loop
	p.mu.Unlock()
}

func isPSGExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ym", ".ay", ".vgm", ".vgz":
		return true
	default:
		return false
	}
}

func (p *PSGPlayer) Load(path string) error {
	var (
		file MusicFile
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ym":
		file, err = ParseYMFile(path)
	case ".ay":
		file, err = ParseAYFile(path)
	case ".vgm", ".vgz":
		file, err = ParseVGMFile(path)
	default:
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return p.LoadData(data)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return p.loadFile(file)
}

// LoadData detects the format from its magic bytes.
func (p *PSGPlayer) LoadData(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("psg data empty")
	}
	var (
		file MusicFile
		err  error
	)
	switch {
	case len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B,
		len(data) >= 4 && string(data[:4]) == "Vgm ":
		file, err = ParseVGMData(data, PSG_FRAME_RATE_PAL)
	case isLHA(data), len(data) >= 4 && strings.HasPrefix(string(data[:4]), "YM"):
		file, err = ParseYMData(data)
	default:
		file, err = ParseAYData(data)
	}
	if err != nil {
		return err
	}
	return p.loadFile(file)
}

func (p *PSGPlayer) loadFile(file MusicFile) error {
	if file.FrameRate() <= 0 {
		return fmt.Errorf("invalid frame rate")
	}
	frames := file.GetFrames()
	if len(frames) == 0 {
		return fmt.Errorf("psg song has no frames")
	}
	if p.engine == nil {
		return fmt.Errorf("psg engine not configured")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = file
	p.frames = frames
	p.pos = 0
	p.loops = 0
	p.engine.SetTiming(file.ClockHz(), file.FrameRate())
	p.engine.Reset()

	meta := file.GetMetadata()
	logger.Info("psg: song loaded",
		"format", meta.Format, "title", meta.Title, "author", meta.Author,
		"frames", len(frames), "rate", file.FrameRate(), "clock", file.ClockHz())
	return nil
}

func (p *PSGPlayer) Metadata() MusicMetadata {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return MusicMetadata{}
	}
	return p.file.GetMetadata()
}

func (p *PSGPlayer) FrameRate() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return 0
	}
	return p.file.FrameRate()
}

func (p *PSGPlayer) TotalFrames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// Position is the index of the next frame Step will play.
func (p *PSGPlayer) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *PSGPlayer) Loops() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops
}

func (p *PSGPlayer) DurationSeconds() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return 0
	}
	return float64(len(p.frames)) / float64(p.file.FrameRate())
}

func (p *PSGPlayer) DurationText() string {
	return formatDuration(p.DurationSeconds())
}

// Step plays one frame and samples the chip. ok is false once a
// non-looping song has ended.
func (p *PSGPlayer) Step() (frame int, samples [NumChannels]ChannelSample, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return 0, samples, false
	}
	if p.pos >= len(p.frames) {
		if !p.loop {
			return p.pos, samples, false
		}
		restart, _ := p.file.LoopFrame()
		p.pos = restart
		p.loops++
		logger.Debug("psg: loop", "frame", restart, "count", p.loops)
	}
	frame = p.pos
	if err := p.engine.ApplyFrame(p.frames[frame]); err != nil {
		logger.Warn("psg: bad frame", "frame", frame, "err", err)
	}
	samples = p.engine.Sample()
	p.engine.Tick()
	p.pos++
	return frame, samples, true
}

// Run plays frames at the song's frame rate until it ends or ctx is done.
func (p *PSGPlayer) Run(ctx context.Context, onFrame FrameFunc) error {
	rate := p.FrameRate()
	if rate <= 0 {
		return errNoSong
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		frame, samples, ok := p.Step()
		if !ok {
			return nil
		}
		if onFrame != nil {
			onFrame(frame, samples)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
