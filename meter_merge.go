// meter_merge.go - Folds the three PSG channels into a list of distinct notes

package main

// NumChannels is the number of tone channels on the PSG (A, B, C).
const NumChannels = 3

// ChannelSample is one channel's sampled register state for a frame.
type ChannelSample struct {
	Volume uint8
	Period uint16
}

// DetectedNote is a note sounding this frame, with the loudest volume of
// every channel playing it.
type DetectedNote struct {
	Note   NoteIndex
	Volume uint8
}

// MergeChannels classifies each audible channel and folds channels that land
// on the same note. Output order follows channel priority A, B, C.
func MergeChannels(samples [NumChannels]ChannelSample) []DetectedNote {
	return AppendMergedNotes(make([]DetectedNote, 0, NumChannels), samples)
}

// AppendMergedNotes is MergeChannels appending to dst.
func AppendMergedNotes(dst []DetectedNote, samples [NumChannels]ChannelSample) []DetectedNote {
	var notes [NumChannels]NoteIndex
	var audible [NumChannels]bool
	for ch, s := range samples {
		if s.Volume > 0 {
			notes[ch], audible[ch] = NearestNote(s.Period)
		}
	}

	// Each channel becomes the base for the later ones it has not yet
	// been folded into. A folded channel is not compared again.
	for base := range NumChannels {
		if !audible[base] {
			continue
		}
		entry := DetectedNote{Note: notes[base], Volume: samples[base].Volume}
		for other := base + 1; other < NumChannels; other++ {
			if audible[other] && notes[other] == entry.Note {
				entry.Volume = max(entry.Volume, samples[other].Volume)
				audible[other] = false
			}
		}
		dst = append(dst, entry)
	}
	return dst
}

func containsNote(notes []DetectedNote, note NoteIndex) bool {
	for _, n := range notes {
		if n.Note == note {
			return true
		}
	}
	return false
}
