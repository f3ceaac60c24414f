package service

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/pitch"
)

// maxFrameBytes bounds one pushed frame (float32 samples or JSON).
const maxFrameBytes = 1 << 20

type VoiceAnalysis struct {
	SampleRate      float64                 `json:"sample_rate"`
	DurationSeconds float64                 `json:"duration_seconds"`
	Notes           []internal.DetectedNote `json:"notes"`
	Summary         pitch.Summary           `json:"summary"`
}

// AnalyzeWAV detects the notes of an uploaded recording. Only readings
// passing the voice gate become detected notes.
func AnalyzeWAV(r io.ReadSeeker, start time.Time) (*VoiceAnalysis, error) {
	pcm, err := pitch.DecodeWAV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if pcm.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing sample rate", ErrInvalidPayload)
	}
	if len(pcm.Samples) < pitch.FrameSize {
		return nil, fmt.Errorf("%w: recording shorter than one frame (%d samples)", ErrInvalidPayload, pitch.FrameSize)
	}
	readings, summary := pitch.Analyze(pcm, pitch.VoiceBand)

	frameDur := time.Duration(float64(pitch.FrameSize) / pcm.SampleRate * float64(time.Second))
	notes := make([]internal.DetectedNote, 0, summary.Accepted)
	for i, rd := range readings {
		if !rd.Accepted {
			continue
		}
		notes = append(notes, internal.DetectedNote{
			Frequency:  rd.Frequency,
			Name:       rd.Note,
			Octave:     rd.Octave,
			Confidence: rd.Clarity,
			Timestamp:  start.Add(time.Duration(i) * frameDur).UTC(),
		})
	}
	return &VoiceAnalysis{
		SampleRate:      pcm.SampleRate,
		DurationSeconds: float64(len(pcm.Samples)) / pcm.SampleRate,
		Notes:           notes,
		Summary:         summary,
	}, nil
}

type OpenSessionRequest struct {
	Mode       string  `json:"mode" validate:"omitempty,oneof=voice tuner"`
	SampleRate float64 `json:"sample_rate" validate:"required,gte=8000,lte=192000"`
}

type framePayload struct {
	Samples []float64 `json:"samples"`
}

// DecodeFrame reads one frame either as JSON {"samples": [...]} or as raw
// little-endian float32 samples.
func DecodeFrame(contentType string, body io.Reader) ([]float64, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxFrameBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxFrameBytes {
		return nil, fmt.Errorf("%w: frame too large", ErrInvalidPayload)
	}

	var samples []float64
	if strings.HasPrefix(contentType, "application/octet-stream") {
		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("%w: body is not a whole number of float32 samples", ErrInvalidPayload)
		}
		samples = make([]float64, len(raw)/4)
		for i := range samples {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	} else {
		var p framePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		samples = p.Samples
	}
	if len(samples) != pitch.FrameSize {
		return nil, fmt.Errorf("%w: frame must hold %d samples, got %d", ErrInvalidPayload, pitch.FrameSize, len(samples))
	}
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: non-finite sample", ErrInvalidPayload)
		}
	}
	return samples, nil
}

func ValidateOpenSessionRequest(req *OpenSessionRequest) error {
	return validate.Struct(req)
}
