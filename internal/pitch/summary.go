package pitch

import "sort"

type NoteCount struct {
	Note  string `json:"note"`
	Count int    `json:"count"`
}

// Summary aggregates the accepted readings of one capture.
type Summary struct {
	Frames        int            `json:"frames"`
	Accepted      int            `json:"accepted"`
	NoteCounts    map[string]int `json:"note_counts"`
	DominantNote  string         `json:"dominant_note,omitempty"`
	TopNotes      []NoteCount    `json:"top_notes"`
	HighestNotes  []string       `json:"highest_notes"`
	LowestNotes   []string       `json:"lowest_notes"`
	MeanFrequency float64        `json:"mean_frequency,omitempty"`
}

// Tally accumulates readings. The zero value is not usable, see NewTally.
type Tally struct {
	frames   int
	accepted int
	freqSum  float64
	counts   map[string]int  // by note name
	pitched  map[string]Note // distinct name+octave seen
}

func NewTally() *Tally {
	return &Tally{counts: map[string]int{}, pitched: map[string]Note{}}
}

func (t *Tally) Add(r Reading) {
	t.frames++
	if !r.Accepted {
		return
	}
	t.accepted++
	t.freqSum += r.Frequency
	t.counts[r.Note]++
	n := FrequencyToNote(r.Frequency).Note
	t.pitched[n.String()] = n
}

func (t *Tally) Summary() Summary {
	s := Summary{
		Frames:       t.frames,
		Accepted:     t.accepted,
		NoteCounts:   make(map[string]int, len(t.counts)),
		TopNotes:     []NoteCount{},
		HighestNotes: []string{},
		LowestNotes:  []string{},
	}
	for k, v := range t.counts {
		s.NoteCounts[k] = v
	}
	if t.accepted > 0 {
		s.MeanFrequency = t.freqSum / float64(t.accepted)
	}
	s.DominantNote = DominantNote(t.counts)
	s.TopNotes = TopNotes(t.counts, 3)

	distinct := make([]Note, 0, len(t.pitched))
	for _, n := range t.pitched {
		distinct = append(distinct, n)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].Frequency < distinct[j].Frequency })
	for i := 0; i < len(distinct) && i < 3; i++ {
		s.LowestNotes = append(s.LowestNotes, distinct[i].String())
		s.HighestNotes = append(s.HighestNotes, distinct[len(distinct)-1-i].String())
	}
	return s
}

// DominantNote returns the most frequent note name. Ties go to the
// alphabetically smaller name. Empty input yields "".
func DominantNote(counts map[string]int) string {
	top := TopNotes(counts, 1)
	if len(top) == 0 {
		return ""
	}
	return top[0].Note
}

func TopNotes(counts map[string]int, n int) []NoteCount {
	out := make([]NoteCount, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			out = append(out, NoteCount{Note: k, Count: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Note < out[j].Note
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
