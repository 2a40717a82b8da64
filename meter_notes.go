// meter_notes.go - Divider-to-note lookup for the PSG note meter

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

import "fmt"

const (
	// NoteCount is the number of semitones covered by the divider table (A-1 .. G#7).
	NoteCount = 96

	// noteTableClockHz is the PSG clock the divider table was computed for.
	noteTableClockHz = 1750000
)

// NoteIndex is a zero-based semitone rank; higher index means higher pitch.
type NoteIndex uint8

// noteDividers holds one tone period per semitone, sorted descending.
var noteDividers = [NoteCount]uint16{
	4095, 3862, 3645, 3441, 3247, 3065, 2893, 2731, 2577, 2433, 2296, 2167, // A-1 .. G#0
	2046, 1931, 1822, 1720, 1623, 1532, 1446, 1365, 1288, 1216, 1148, 1083, // A0 .. G#1
	1023, 965, 911, 860, 811, 766, 723, 682, 644, 608, 574, 541, // A1 .. G#2
	511, 482, 455, 430, 405, 383, 361, 341, 322, 304, 287, 270, // A2 .. G#3
	255, 241, 227, 215, 202, 191, 180, 170, 161, 152, 143, 135, // A3 .. G#4
	127, 120, 113, 107, 101, 95, 90, 85, 80, 76, 71, 67, // A4 .. G#5
	63, 60, 56, 53, 50, 47, 45, 42, 40, 38, 35, 33, // A5 .. G#6
	31, 30, 28, 26, 25, 23, 22, 21, 20, 19, 17, 16, // A6 .. G#7
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteDivider returns the tabulated tone period for note k.
func NoteDivider(k NoteIndex) uint16 {
	return noteDividers[k]
}

// NearestNote maps a tone period to the closest tabulated note.
// Periods outside the table clamp to the lowest or highest note; a zero
// period is silence and reports ok=false.
func NearestNote(period uint16) (note NoteIndex, ok bool) {
	if period < 1 {
		return 0, false
	}
	if period >= noteDividers[0] {
		return 0, true
	}
	if period <= noteDividers[NoteCount-1] {
		return NoteCount - 1, true
	}

	lo, hi, mid := 0, NoteCount, 0
	for lo < hi {
		mid = (lo + hi) / 2
		v := noteDividers[mid]
		if v == period {
			return NoteIndex(mid), true
		}
		if period > v {
			// Lower pitch: lies toward index 0.
			if mid > 0 && period < noteDividers[mid-1] {
				return closerNote(mid-1, period), true
			}
			hi = mid
		} else {
			if mid < NoteCount-1 && period > noteDividers[mid+1] {
				return closerNote(mid, period), true
			}
			lo = mid + 1
		}
	}
	return NoteIndex(mid), true
}

// closerNote picks k or k+1 for a period strictly between their dividers.
// An exact tie goes to the higher note.
func closerNote(k int, period uint16) NoteIndex {
	hi, lo := noteDividers[k], noteDividers[k+1]
	if period-lo > hi-period {
		return NoteIndex(k)
	}
	return NoteIndex(k + 1)
}

// NoteName formats a note as name+octave, e.g. "A-1", "C4", "G#7".
func NoteName(k NoteIndex) string {
	semis := int(k) + 9 // index 0 is A, nine semitones above C
	return fmt.Sprintf("%s%d", noteNames[semis%12], semis/12-1)
}

// NoteFrequency returns the pitch in Hz that note k produces on a PSG clocked at clockHz.
func NoteFrequency(k NoteIndex, clockHz uint32) float64 {
	if clockHz == 0 {
		clockHz = noteTableClockHz
	}
	return float64(clockHz) / (16.0 * float64(noteDividers[k]))
}
