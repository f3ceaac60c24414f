package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/storage"
)

//go:generate mockgen -destination=mock_completer_test.go -package=service . Completer

// Completer turns the composed prompts into a typed report.
type Completer interface {
	CompleteReport(ctx context.Context, system, user string) (*internal.AIReport, error)
}

type DetectedNoteRequest struct {
	Frequency  float64   `json:"frequency" validate:"gt=0"`
	Name       string    `json:"name" validate:"required,max=3"`
	Octave     int       `json:"octave" validate:"gte=0,lte=9"`
	Confidence float64   `json:"confidence" validate:"gte=0,lte=1"`
	Timestamp  time.Time `json:"timestamp"`
}

type AnalysisRequest struct {
	Notes            []DetectedNoteRequest `json:"notes" validate:"dive"`
	DominantNotes    map[string]int        `json:"dominant_notes"`
	CurrentFrequency *float64              `json:"current_frequency,omitempty" validate:"omitempty,gt=0"`
	UserState        internal.UserState    `json:"user_state"`
}

func ValidateAnalysisRequest(req *AnalysisRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	for note, n := range req.DominantNotes {
		if note == "" || n < 0 {
			return fmt.Errorf("%w: dominant note counts must be non-negative", ErrInvalidInput)
		}
	}
	return nil
}

type AnalysisService struct {
	Repo      storage.AnalysisRepository
	Quota     Quota
	Completer Completer // nil uses the built-in report
	Location  *time.Location
	Logger    internal.Logger
	Now       func() time.Time
}

func (s *AnalysisService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AnalysisService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// Create reserves a quota slot, generates the report and stores the
// analysis. A failed report gives the slot back.
func (s *AnalysisService) Create(ctx context.Context, user *internal.User, req *AnalysisRequest) (*internal.Analysis, error) {
	if err := ValidateAnalysisRequest(req); err != nil {
		return nil, err
	}
	now := s.now()
	ticket, err := s.Quota.Reserve(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	a := newAnalysis(user, req, now)
	report, err := s.generate(ctx, a, now)
	if err != nil {
		if cerr := ticket.Cancel(ctx); cerr != nil {
			s.Logger.Errorf("analysis: releasing quota slot: %v", cerr)
		}
		s.Logger.Errorf("analysis: report for user %s failed: %v", user.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	a.Report = report

	if err := s.Repo.SaveAnalysis(ctx, a); err != nil {
		if cerr := ticket.Cancel(ctx); cerr != nil {
			s.Logger.Errorf("analysis: releasing quota slot: %v", cerr)
		}
		return nil, err
	}
	if err := ticket.Commit(ctx); err != nil {
		s.Logger.Warnf("analysis: committing quota slot: %v", err)
	}
	return a, nil
}

func (s *AnalysisService) generate(ctx context.Context, a *internal.Analysis, now time.Time) (*internal.AIReport, error) {
	local := now.In(s.loc())
	if s.Completer == nil {
		return BuiltinReport(a, local), nil
	}
	system, user := BuildPrompt(a, local)
	return s.Completer.CompleteReport(ctx, system, user)
}

func newAnalysis(user *internal.User, req *AnalysisRequest, now time.Time) *internal.Analysis {
	notes := make([]internal.DetectedNote, 0, len(req.Notes))
	for _, n := range req.Notes {
		notes = append(notes, internal.DetectedNote(n))
	}
	dominant := make(map[string]int, len(req.DominantNotes))
	for k, v := range req.DominantNotes {
		if v > 0 {
			dominant[k] = v
		}
	}
	if len(dominant) == 0 {
		for _, n := range notes {
			dominant[n.Name]++
		}
	}
	freq := req.CurrentFrequency
	if freq == nil {
		freq = dominantFrequency(notes, pitch.DominantNote(dominant))
	}
	return &internal.Analysis{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		CreatedAt:        now.UTC(),
		Notes:            notes,
		DominantNotes:    dominant,
		CurrentFrequency: freq,
		UserState:        req.UserState,
	}
}

// dominantFrequency averages the detected frequencies of the dominant note.
func dominantFrequency(notes []internal.DetectedNote, name string) *float64 {
	if name == "" {
		return nil
	}
	var sum float64
	var n int
	for _, d := range notes {
		if d.Name == name {
			sum += d.Frequency
			n++
		}
	}
	if n == 0 {
		return nil
	}
	f := sum / float64(n)
	return &f
}

func (s *AnalysisService) List(ctx context.Context, user *internal.User) ([]internal.Analysis, error) {
	return s.Repo.ListAnalyses(ctx, user.ID)
}

func (s *AnalysisService) Get(ctx context.Context, user *internal.User, id string) (*internal.Analysis, error) {
	return s.Repo.GetAnalysis(ctx, user.ID, id)
}

func (s *AnalysisService) QuotaStatus(ctx context.Context, user *internal.User) (QuotaStatus, error) {
	return GetQuotaStatus(ctx, s.Quota, user.ID, s.now(), s.loc())
}
