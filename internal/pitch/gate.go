package pitch

import "math"

// MinClarity is the confidence a reading must exceed to be accepted.
const MinClarity = 0.8

// Gate filters detector output by clarity and frequency range.
type Gate struct {
	MinHz float64
	MaxHz float64
}

var (
	VoiceBand = Gate{MinHz: 75, MaxHz: 600}
	TunerBand = Gate{MinHz: 75, MaxHz: math.Inf(1)}
)

func (g Gate) Accept(freq, clarity float64) bool {
	return clarity > MinClarity && freq >= g.MinHz && freq <= g.MaxHz
}

// Reading is one analysed frame. Note fields are only set when Accepted.
type Reading struct {
	Frequency float64   `json:"frequency"`
	Clarity   float64   `json:"clarity"`
	Accepted  bool      `json:"accepted"`
	Note      string    `json:"note,omitempty"`
	Octave    int       `json:"octave,omitempty"`
	Cents     int       `json:"cents"`
	InTune    bool      `json:"in_tune"`
	Direction Direction `json:"direction,omitempty"`
}

func NewReading(freq, clarity float64, g Gate) Reading {
	r := Reading{Frequency: freq, Clarity: clarity}
	if !g.Accept(freq, clarity) {
		return r
	}
	m := FrequencyToNote(freq)
	r.Accepted = true
	r.Note = m.Name
	r.Octave = m.Octave
	r.Cents = m.Cents
	r.InTune = m.InTune
	r.Direction = m.Direction
	return r
}
