// Package pitch maps measured frequencies onto a fixed equal-temperament
// note table (A4 = 440 Hz), estimates fundamental frequencies of audio
// frames and tracks the notes detected during a capture session.
package pitch

import (
	"math"
	"strconv"
)

type Note struct {
	Name      string  `json:"name"`
	Octave    int     `json:"octave"`
	Frequency float64 `json:"frequency"`
}

func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

// noteTable spans C2..C5, ascending.
var noteTable = []Note{
	{"C", 2, 65.41}, {"C#", 2, 69.30}, {"D", 2, 73.42}, {"D#", 2, 77.78},
	{"E", 2, 82.41}, {"F", 2, 87.31}, {"F#", 2, 92.50}, {"G", 2, 98.00},
	{"G#", 2, 103.83}, {"A", 2, 110.00}, {"A#", 2, 116.54}, {"B", 2, 123.47},
	{"C", 3, 130.81}, {"C#", 3, 138.59}, {"D", 3, 146.83}, {"D#", 3, 155.56},
	{"E", 3, 164.81}, {"F", 3, 174.61}, {"F#", 3, 185.00}, {"G", 3, 196.00},
	{"G#", 3, 207.65}, {"A", 3, 220.00}, {"A#", 3, 233.08}, {"B", 3, 246.94},
	{"C", 4, 261.63}, {"C#", 4, 277.18}, {"D", 4, 293.66}, {"D#", 4, 311.13},
	{"E", 4, 329.63}, {"F", 4, 349.23}, {"F#", 4, 369.99}, {"G", 4, 392.00},
	{"G#", 4, 415.30}, {"A", 4, 440.00}, {"A#", 4, 466.16}, {"B", 4, 493.88},
	{"C", 5, 523.25},
}

// Notes returns a copy of the note table.
func Notes() []Note {
	out := make([]Note, len(noteTable))
	copy(out, noteTable)
	return out
}

const InTuneTolerance = 10 // cents

type Direction string

const (
	DirectionPerfect Direction = "perfect"
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
)

// NoteMatch is the nearest table note for a measured frequency.
type NoteMatch struct {
	Note
	Measured  float64   `json:"measured"`
	Cents     int       `json:"cents"`
	InTune    bool      `json:"in_tune"`
	Direction Direction `json:"direction"`
}

// FrequencyToNote returns the table entry with the smallest absolute
// difference in Hz and the deviation from it in cents.
func FrequencyToNote(freq float64) NoteMatch {
	best := noteTable[0]
	minDiff := math.Inf(1)
	for _, n := range noteTable {
		if d := math.Abs(freq - n.Frequency); d < minDiff {
			minDiff = d
			best = n
		}
	}
	c := Cents(freq, best.Frequency)
	return NoteMatch{
		Note:      best,
		Measured:  freq,
		Cents:     c,
		InTune:    InTune(c),
		Direction: DirectionFor(c),
	}
}

// Cents is round(1200*log2(freq/target)).
func Cents(freq, target float64) int {
	return int(math.Round(1200 * math.Log2(freq/target)))
}

func InTune(cents int) bool {
	return cents > -InTuneTolerance && cents < InTuneTolerance
}

// DirectionFor tells the singer which way to move: flat readings need to
// go up, sharp readings down.
func DirectionFor(cents int) Direction {
	if InTune(cents) {
		return DirectionPerfect
	}
	if cents < 0 {
		return DirectionUp
	}
	return DirectionDown
}

// NoteFrequency looks up a note by its full name, e.g. "A#4".
func NoteFrequency(name string) (float64, bool) {
	for _, n := range noteTable {
		if n.String() == name {
			return n.Frequency, true
		}
	}
	return 0, false
}

// NoteRange returns the table notes within [minHz, maxHz].
func NoteRange(minHz, maxHz float64) []Note {
	var out []Note
	for _, n := range noteTable {
		if n.Frequency >= minHz && n.Frequency <= maxHz {
			out = append(out, n)
		}
	}
	return out
}
