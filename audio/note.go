package audio

import "math"

// Notes used by the default cues
const (
	NoteA3 = 57
	NoteE4 = 64
	NoteA4 = 69
	NoteC5 = 72
	NoteE5 = 76
	NoteF3 = 53
)

// NoteFreq returns the equal-tempered frequency in Hz for a MIDI note, A4 = 440Hz
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return 440.0 * math.Pow(2, float64(midi-69)/12.0)
}
