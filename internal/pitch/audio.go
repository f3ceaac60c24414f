package pitch

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const ToneSampleRate = 44100

var ErrInvalidWAV = errors.New("pitch: not a valid WAV file")

// PCM is mono audio normalized to [-1, 1].
type PCM struct {
	Samples    []float64
	SampleRate float64
}

// DecodeWAV reads a PCM WAV stream and keeps channel 0.
func DecodeWAV(r io.ReadSeeker) (PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return PCM{}, ErrInvalidWAV
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("decode wav: %w", err)
	}
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	depth := int(d.BitDepth)
	if buf.SourceBitDepth > 0 {
		depth = buf.SourceBitDepth
	}
	if depth <= 0 || depth > 32 {
		return PCM{}, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, depth)
	}
	scale := float64(int64(1) << (depth - 1))
	if depth == 8 {
		// 8-bit WAV is unsigned.
		scale = 128
	}

	out := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		v := float64(buf.Data[i])
		if depth == 8 {
			v -= 128
		}
		out = append(out, v/scale)
	}
	return PCM{Samples: out, SampleRate: float64(d.SampleRate)}, nil
}

// Frames cuts the signal into consecutive frames of size samples. A trailing
// partial frame is dropped.
func (p PCM) Frames(size int) [][]float64 {
	var frames [][]float64
	for start := 0; start+size <= len(p.Samples); start += size {
		frames = append(frames, p.Samples[start:start+size])
	}
	return frames
}

// Analyze runs every frame through a fresh detector and gate.
func Analyze(p PCM, g Gate) ([]Reading, Summary) {
	det := NewDetector(FrameSize)
	tally := NewTally()
	var readings []Reading
	for _, f := range p.Frames(FrameSize) {
		freq, clarity, err := det.FindPitch(f, p.SampleRate)
		if err != nil {
			continue
		}
		r := NewReading(freq, clarity, g)
		tally.Add(r)
		readings = append(readings, r)
	}
	return readings, tally.Summary()
}

const (
	attackEnd   = 0.010
	decayEnd    = 0.100
	releaseTime = 0.100
	peakLevel   = 0.7
	sustain     = 0.5
)

// Tone synthesizes a sine reference tone with a short attack/decay and a
// release at the end.
func Tone(freq float64, duration float64, sampleRate int) []float64 {
	n := int(duration * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = envelope(t, duration) * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func envelope(t, duration float64) float64 {
	var level float64
	switch {
	case t < attackEnd:
		level = peakLevel * t / attackEnd
	case t < decayEnd:
		level = peakLevel + (sustain-peakLevel)*(t-attackEnd)/(decayEnd-attackEnd)
	default:
		level = sustain
	}
	if remaining := duration - t; remaining < releaseTime {
		level *= math.Max(remaining, 0) / releaseTime
	}
	return level
}

// EncodeWAV writes samples as 16-bit mono PCM WAV.
func EncodeWAV(samples []float64, sampleRate int) ([]byte, error) {
	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * 32767))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	return ws.buf, nil
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("writeSeeker: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("writeSeeker: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
