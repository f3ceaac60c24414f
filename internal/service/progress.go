package service

import (
	"context"
	"time"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/storage"
)

type CycleSummary struct {
	CompletedDays     int `json:"completed_days"`
	CurrentDay        int `json:"current_day"`
	CompletionPercent int `json:"completion_percent"`
}

type JournalSummary struct {
	TotalEntries     int        `json:"total_entries"`
	Streak           int        `json:"streak"`
	AverageEmotional float64    `json:"average_emotional"`
	LastEntry        *time.Time `json:"last_entry,omitempty"`
}

type VoiceSummary struct {
	TotalAnalyses int        `json:"total_analyses"`
	LastAnalysis  *time.Time `json:"last_analysis,omitempty"`
}

type Achievement struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Unlocked bool   `json:"unlocked"`
}

type UserProgress struct {
	Cycle        CycleSummary   `json:"cycle"`
	Journal      JournalSummary `json:"journal"`
	Voice        VoiceSummary   `json:"voice"`
	Achievements []Achievement  `json:"achievements"`
}

const (
	weekStreakDays      = 7
	journalRegularCount = 10
)

// ComputeProgress combines the three activity sources into one overview.
// analyses are expected newest first.
func ComputeProgress(p *internal.CycleProgress, logs []internal.EmotionLog, analyses []internal.Analysis, now time.Time, loc *time.Location) UserProgress {
	stats := ComputeEmotionStats(logs, now, loc)
	out := UserProgress{
		Cycle: CycleSummary{
			CompletedDays:     len(p.CompletedDays),
			CurrentDay:        p.CurrentDay,
			CompletionPercent: CompletionPercent(p),
		},
		Journal: JournalSummary{
			TotalEntries:     stats.TotalEntries,
			Streak:           stats.Streak,
			AverageEmotional: stats.AverageEmotional,
			LastEntry:        stats.LastEntry,
		},
		Voice: VoiceSummary{TotalAnalyses: len(analyses)},
	}
	if len(analyses) > 0 {
		last := analyses[0].CreatedAt
		out.Voice.LastAnalysis = &last
	}
	out.Achievements = []Achievement{
		{"first_day", "Premier jour du cycle", len(p.CompletedDays) >= 1},
		{"cycle_complete", "Cycle de 21 jours terminé", len(p.CompletedDays) >= CycleLength},
		{"week_streak", "Une semaine de journal", stats.Streak >= weekStreakDays},
		{"first_analysis", "Première analyse vocale", len(analyses) >= 1},
		{"journal_regular", "Journal régulier", stats.TotalEntries >= journalRegularCount},
	}
	return out
}

func GetProgress(ctx context.Context, repos *storage.Repositories, user *internal.User, loc *time.Location) (UserProgress, error) {
	p, err := LoadProgress(ctx, repos.Cycles, user.ID)
	if err != nil {
		return UserProgress{}, err
	}
	logs, err := repos.Emotions.ListEmotionLogs(ctx, user.ID)
	if err != nil {
		return UserProgress{}, err
	}
	analyses, err := repos.Analyses.ListAnalyses(ctx, user.ID)
	if err != nil {
		return UserProgress{}, err
	}
	return ComputeProgress(p, logs, analyses, time.Now(), loc), nil
}
