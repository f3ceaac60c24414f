package service

import (
	"fmt"
	"strconv"

	"github.com/yourname/renescens/internal/pitch"
)

type ExerciseRange struct {
	Key   string       `json:"key"`
	Name  string       `json:"name"`
	MinHz float64      `json:"min_hz"`
	MaxHz float64      `json:"max_hz"`
	Notes []pitch.Note `json:"notes"`
}

var exerciseRanges = []struct {
	key, name  string
	minHz, max float64
}{
	{"low", "Graves", 75, 150},
	{"mid_low", "Médium-graves", 150, 300},
	{"mid", "Médium", 300, 600},
}

// ExerciseRanges lists the practice ranges with the table notes in each.
// Ranges are half-open on their lower bound after the first one, so a
// note never appears twice.
func ExerciseRanges() []ExerciseRange {
	out := make([]ExerciseRange, 0, len(exerciseRanges))
	for i, r := range exerciseRanges {
		notes := []pitch.Note{}
		for _, n := range pitch.NoteRange(r.minHz, r.max) {
			if i > 0 && n.Frequency == r.minHz {
				continue
			}
			notes = append(notes, n)
		}
		out = append(out, ExerciseRange{Key: r.key, Name: r.name, MinHz: r.minHz, MaxHz: r.max, Notes: notes})
	}
	return out
}

const (
	DefaultToneMillis = 1500
	MaxToneMillis     = 10000
)

// ReferenceTone renders a note ("A4") or a frequency ("440") as WAV.
func ReferenceTone(note string, durationMillis int) ([]byte, float64, error) {
	if durationMillis == 0 {
		durationMillis = DefaultToneMillis
	}
	if durationMillis < 200 || durationMillis > MaxToneMillis {
		return nil, 0, fmt.Errorf("%w: duration_ms must be between 200 and %d", ErrInvalidInput, MaxToneMillis)
	}
	freq, ok := pitch.NoteFrequency(note)
	if !ok {
		f, err := strconv.ParseFloat(note, 64)
		if err != nil || f < 20 || f > 2000 {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownNote, note)
		}
		freq = f
	}
	samples := pitch.Tone(freq, float64(durationMillis)/1000, pitch.ToneSampleRate)
	wav, err := pitch.EncodeWAV(samples, pitch.ToneSampleRate)
	if err != nil {
		return nil, 0, err
	}
	return wav, freq, nil
}

type PitchFeedback struct {
	pitch.NoteMatch
	Band *pitch.Band `json:"band,omitempty"`
}

func LookupPitch(freq float64) (PitchFeedback, error) {
	if freq <= 0 {
		return PitchFeedback{}, fmt.Errorf("%w: frequency must be positive", ErrInvalidInput)
	}
	fb := PitchFeedback{NoteMatch: pitch.FrequencyToNote(freq)}
	if b, ok := pitch.BandFor(freq); ok {
		fb.Band = &b
	}
	return fb, nil
}
