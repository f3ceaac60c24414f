package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/storage"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendWindow is how many of the most recent logs a trend looks at.
const trendWindow = 5

type EmotionLogRequest struct {
	Date           *time.Time `json:"date,omitempty"`
	EmotionalState int        `json:"emotional_state" validate:"required,gte=1,lte=10"`
	EnergyLevel    int        `json:"energy_level" validate:"required,gte=1,lte=10"`
	StressLevel    int        `json:"stress_level" validate:"required,gte=1,lte=10"`
	Activities     []string   `json:"activities,omitempty" validate:"dive,required,max=64"`
	Notes          string     `json:"notes,omitempty" validate:"max=2000"`
}

func ValidateEmotionLogRequest(req *EmotionLogRequest) error {
	return validate.Struct(req)
}

func CreateEmotionLog(ctx context.Context, repo storage.EmotionRepository, user *internal.User, req *EmotionLogRequest) (*internal.EmotionLog, error) {
	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}
	l := &internal.EmotionLog{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Date:           date,
		EmotionalState: req.EmotionalState,
		EnergyLevel:    req.EnergyLevel,
		StressLevel:    req.StressLevel,
		Activities:     req.Activities,
		Notes:          req.Notes,
		CreatedAt:      now,
	}
	if err := repo.AddEmotionLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

type ScoreTrends struct {
	Emotional Trend `json:"emotional"`
	Energy    Trend `json:"energy"`
	Stress    Trend `json:"stress"`
}

type EmotionStats struct {
	AverageEmotional float64     `json:"average_emotional"`
	AverageEnergy    float64     `json:"average_energy"`
	AverageStress    float64     `json:"average_stress"`
	Trends           ScoreTrends `json:"trends"`
	TotalEntries     int         `json:"total_entries"`
	LastEntry        *time.Time  `json:"last_entry,omitempty"`
	Streak           int         `json:"streak"`
}

func trendOf(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	delta := values[len(values)-1] - values[0]
	switch {
	case delta > 0.5:
		return TrendUp
	case delta < -0.5:
		return TrendDown
	default:
		return TrendStable
	}
}

// ComputeEmotionStats aggregates logs ordered by date ascending. Calendar
// days for the streak are taken in loc.
func ComputeEmotionStats(logs []internal.EmotionLog, now time.Time, loc *time.Location) EmotionStats {
	stats := EmotionStats{
		Trends:       ScoreTrends{Emotional: TrendStable, Energy: TrendStable, Stress: TrendStable},
		TotalEntries: len(logs),
	}
	if len(logs) == 0 {
		return stats
	}

	var e, en, s float64
	for _, l := range logs {
		e += float64(l.EmotionalState)
		en += float64(l.EnergyLevel)
		s += float64(l.StressLevel)
	}
	n := float64(len(logs))
	stats.AverageEmotional = e / n
	stats.AverageEnergy = en / n
	stats.AverageStress = s / n

	start := len(logs) - trendWindow
	if start < 0 {
		start = 0
	}
	recent := logs[start:]
	pick := func(f func(internal.EmotionLog) int) []float64 {
		out := make([]float64, len(recent))
		for i, l := range recent {
			out[i] = float64(f(l))
		}
		return out
	}
	stats.Trends.Emotional = trendOf(pick(func(l internal.EmotionLog) int { return l.EmotionalState }))
	stats.Trends.Energy = trendOf(pick(func(l internal.EmotionLog) int { return l.EnergyLevel }))
	stats.Trends.Stress = trendOf(pick(func(l internal.EmotionLog) int { return l.StressLevel }))

	last := logs[len(logs)-1].Date
	stats.LastEntry = &last
	stats.Streak = Streak(logs, now, loc)
	return stats
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Streak walks back from the most recent log: the i-th most recent log must
// fall on today minus i days. Logs are not de-duplicated per day, so two
// logs on the same day end the streak.
func Streak(logs []internal.EmotionLog, now time.Time, loc *time.Location) int {
	if len(logs) == 0 {
		return 0
	}
	today := calendarDay(now, loc)
	streak := 0
	for i := len(logs) - 1; i >= 0; i-- {
		want := today.AddDate(0, 0, -streak)
		if !calendarDay(logs[i].Date, loc).Equal(want) {
			break
		}
		streak++
	}
	return streak
}

type ActivityImpact struct {
	Activity  string  `json:"activity"`
	Count     int     `json:"count"`
	Emotional float64 `json:"emotional"`
	Energy    float64 `json:"energy"`
	Stress    float64 `json:"stress"`
}

// ComputeActivityImpact returns, per activity tag, the mean of each score
// over logs carrying the tag minus the overall mean. Sorted by count, then
// name.
func ComputeActivityImpact(logs []internal.EmotionLog) []ActivityImpact {
	out := []ActivityImpact{}
	if len(logs) == 0 {
		return out
	}
	overall := ComputeEmotionStats(logs, time.Time{}, time.UTC)

	type sums struct{ n, e, en, s float64 }
	by := map[string]*sums{}
	for _, l := range logs {
		seen := map[string]bool{}
		for _, a := range l.Activities {
			if seen[a] {
				continue
			}
			seen[a] = true
			t := by[a]
			if t == nil {
				t = &sums{}
				by[a] = t
			}
			t.n++
			t.e += float64(l.EmotionalState)
			t.en += float64(l.EnergyLevel)
			t.s += float64(l.StressLevel)
		}
	}
	for a, t := range by {
		out = append(out, ActivityImpact{
			Activity:  a,
			Count:     int(t.n),
			Emotional: t.e/t.n - overall.AverageEmotional,
			Energy:    t.en/t.n - overall.AverageEnergy,
			Stress:    t.s/t.n - overall.AverageStress,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Activity < out[j].Activity
	})
	return out
}

func ListEmotionLogs(ctx context.Context, repo storage.EmotionRepository, user *internal.User) ([]internal.EmotionLog, error) {
	return repo.ListEmotionLogs(ctx, user.ID)
}

func GetEmotionStats(ctx context.Context, repo storage.EmotionRepository, user *internal.User, loc *time.Location) (EmotionStats, error) {
	logs, err := repo.ListEmotionLogs(ctx, user.ID)
	if err != nil {
		return EmotionStats{}, err
	}
	return ComputeEmotionStats(logs, time.Now(), loc), nil
}

func GetActivityImpact(ctx context.Context, repo storage.EmotionRepository, user *internal.User) ([]ActivityImpact, error) {
	logs, err := repo.ListEmotionLogs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return ComputeActivityImpact(logs), nil
}
