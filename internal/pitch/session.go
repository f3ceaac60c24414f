package pitch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("pitch: session not found")
	ErrBadSampleRate   = errors.New("pitch: sample rate must be between 8000 and 192000")
)

type Mode string

const (
	ModeVoice Mode = "voice"
	ModeTuner Mode = "tuner"
)

func (m Mode) Gate() Gate {
	if m == ModeTuner {
		return TunerBand
	}
	return VoiceBand
}

// Session is a live capture owned by one user. Each session has its own
// detector, so frames of different sessions are processed in parallel.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Mode       Mode      `json:"mode"`
	SampleRate float64   `json:"sample_rate"`
	StartedAt  time.Time `json:"started_at"`

	mu       sync.Mutex
	detector *Detector
	tally    *Tally
	lastSeen time.Time
	closed   bool
}

// Push analyses one frame and records it when accepted.
func (s *Session) Push(frame []float64) (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Reading{}, ErrSessionNotFound
	}
	freq, clarity, err := s.detector.FindPitch(frame, s.SampleRate)
	if err != nil {
		return Reading{}, err
	}
	r := NewReading(freq, clarity, s.Mode.Gate())
	s.tally.Add(r)
	s.lastSeen = time.Now()
	return r, nil
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.Summary()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.tally.Summary()
}

// Registry hands out capture sessions and releases idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

func (r *Registry) Acquire(userID string, mode Mode, sampleRate float64) (*Session, error) {
	if sampleRate < 8000 || sampleRate > 192000 {
		return nil, ErrBadSampleRate
	}
	if mode != ModeTuner {
		mode = ModeVoice
	}
	now := r.now()
	s := &Session{
		ID:         uuid.New().String(),
		UserID:     userID,
		Mode:       mode,
		SampleRate: sampleRate,
		StartedAt:  now,
		detector:   NewDetector(FrameSize),
		tally:      NewTally(),
		lastSeen:   now,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session if it exists and belongs to userID.
func (r *Registry) Get(userID, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Release removes the session and returns its final summary.
func (r *Registry) Release(userID, id string) (Summary, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		r.mu.Unlock()
		return Summary{}, ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()
	return s.close(), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep releases sessions idle for longer than the registry's idle timeout
// and returns how many were released.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idle {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.close()
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done, then releases everything.
func (r *Registry) Run(ctx context.Context, every time.Duration, onSweep func(n int)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.ReleaseAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
