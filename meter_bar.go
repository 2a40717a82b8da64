// meter_bar.go - Per-channel segmented volume bars with delta redraw

package main

const (
	// BarSegments is the number of segments in one channel bar (levels 0..15).
	BarSegments = 16
	maxBarLevel = BarSegments - 1
)

// barLevel is the last drawn level of one bar; set is false until the first update.
type barLevel struct {
	level int
	set   bool
}

// BarMeter remembers the last drawn level of each channel so a frame only
// touches the segments that changed.
type BarMeter struct {
	surface MeterSurface
	prev    [NumChannels]barLevel
}

func NewBarMeter(surface MeterSurface) *BarMeter {
	return &BarMeter{surface: surface}
}

// Update draws all three channel bars for one frame.
func (b *BarMeter) Update(samples [NumChannels]ChannelSample) {
	for ch, s := range samples {
		b.UpdateChannel(s.Volume, ch)
	}
}

// UpdateChannel moves one bar to volume, drawing newly lit segments or
// erasing released ones. Volumes above 15 clamp to 15.
func (b *BarMeter) UpdateChannel(volume uint8, channel int) {
	v := min(int(volume), maxBarLevel)
	prev := &b.prev[channel]

	switch {
	case !prev.set:
		for seg := 0; seg <= v; seg++ {
			b.surface.DrawSegment(channel, seg)
		}
	case v == prev.level:
		return
	case v > prev.level:
		for seg := prev.level + 1; seg <= v; seg++ {
			b.surface.DrawSegment(channel, seg)
		}
	default:
		for seg := v + 1; seg <= prev.level; seg++ {
			b.surface.EraseSegment(channel, seg)
		}
	}
	prev.level = v
	prev.set = true
}

// Level reports the stored level of a channel; ok is false before its first update.
func (b *BarMeter) Level(channel int) (level int, ok bool) {
	p := b.prev[channel]
	return p.level, p.set
}

// Reset forgets all stored levels. Nothing is erased.
func (b *BarMeter) Reset() {
	b.prev = [NumChannels]barLevel{}
}
