package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/catalog"
	"github.com/yourname/renescens/internal/storage"
)

const CycleLength = 21

type DayState string

const (
	DayLocked    DayState = "locked"
	DayUnlocked  DayState = "unlocked"
	DayCompleted DayState = "completed"
)

type DayView struct {
	catalog.Day
	State DayState `json:"state"`
}

type CycleView struct {
	Progress          *internal.CycleProgress `json:"progress"`
	CompletionPercent int                     `json:"completion_percent"`
	Days              []DayView               `json:"days"`
}

type CompleteDayRequest struct {
	Exercises []string `json:"exercises,omitempty"`
	Notes     string   `json:"notes,omitempty" validate:"max=2000"`
}

func isCompleted(p *internal.CycleProgress, day int) bool {
	for _, d := range p.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsLocked reports whether day cannot be completed yet: day 1 never is,
// any later day is until the previous one is completed.
func IsLocked(p *internal.CycleProgress, day int) bool {
	if day <= 1 {
		return false
	}
	return !isCompleted(p, day-1)
}

func StateOf(p *internal.CycleProgress, day int) DayState {
	switch {
	case isCompleted(p, day):
		return DayCompleted
	case IsLocked(p, day):
		return DayLocked
	default:
		return DayUnlocked
	}
}

func CompletionPercent(p *internal.CycleProgress) int {
	return int(math.Round(float64(len(p.CompletedDays)) / CycleLength * 100))
}

// LoadProgress returns the stored progress, or a fresh one starting at day 1.
// The fresh progress is not persisted until a day is completed.
func LoadProgress(ctx context.Context, repo storage.CycleRepository, userID string) (*internal.CycleProgress, error) {
	p, err := repo.GetProgress(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		now := time.Now().UTC()
		return &internal.CycleProgress{
			UserID:        userID,
			CompletedDays: []int{},
			CurrentDay:    1,
			StartedAt:     now,
			UpdatedAt:     now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if p.CompletedDays == nil {
		p.CompletedDays = []int{}
	}
	return p, nil
}

func GetCycle(ctx context.Context, repo storage.CycleRepository, cat *catalog.Catalog, user *internal.User) (*CycleView, error) {
	p, err := LoadProgress(ctx, repo, user.ID)
	if err != nil {
		return nil, err
	}
	return buildCycleView(p, cat), nil
}

func buildCycleView(p *internal.CycleProgress, cat *catalog.Catalog) *CycleView {
	view := &CycleView{
		Progress:          p,
		CompletionPercent: CompletionPercent(p),
		Days:              make([]DayView, 0, CycleLength),
	}
	for n := 1; n <= CycleLength; n++ {
		d, ok := cat.Day(n)
		if !ok {
			d = catalog.Day{Day: n}
		}
		view.Days = append(view.Days, DayView{Day: d, State: StateOf(p, n)})
	}
	return view
}

// CompleteDay marks day as completed and upserts its entry. Completing an
// already completed day refreshes the entry without changing the set. When
// the request names no exercises the day's catalog exercises are recorded.
func CompleteDay(ctx context.Context, repo storage.CycleRepository, cat *catalog.Catalog, user *internal.User, day int, req *CompleteDayRequest) (*internal.CycleProgress, *internal.CycleEntry, error) {
	if day < 1 || day > CycleLength {
		return nil, nil, ErrDayOutOfRange
	}
	if req == nil {
		req = &CompleteDayRequest{}
	}
	if err := validate.Struct(req); err != nil {
		return nil, nil, err
	}
	p, err := LoadProgress(ctx, repo, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if IsLocked(p, day) {
		return nil, nil, fmt.Errorf("%w: complete day %d first", ErrDayLocked, day-1)
	}

	exercises := req.Exercises
	if len(exercises) == 0 && cat != nil {
		if d, ok := cat.Day(day); ok {
			exercises = d.Exercises
		}
	}

	now := time.Now().UTC()
	if !isCompleted(p, day) {
		days := make([]int, 0, len(p.CompletedDays)+1)
		days = append(days, p.CompletedDays...)
		days = append(days, day)
		sort.Ints(days)
		p.CompletedDays = days
	}
	p.CurrentDay = p.CompletedDays[len(p.CompletedDays)-1] + 1
	p.LastCompletedAt = &now
	p.UpdatedAt = now

	entry := &internal.CycleEntry{
		ID:          fmt.Sprintf("%s_day%d", user.ID, day),
		UserID:      user.ID,
		DayNumber:   day,
		CompletedAt: now,
		Exercises:   exercises,
		Notes:       req.Notes,
	}
	if err := repo.SaveProgress(ctx, p); err != nil {
		return nil, nil, err
	}
	if err := repo.SaveEntry(ctx, entry); err != nil {
		return nil, nil, err
	}
	return p, entry, nil
}

func ListCycleEntries(ctx context.Context, repo storage.CycleRepository, user *internal.User) ([]internal.CycleEntry, error) {
	return repo.ListEntries(ctx, user.ID)
}
