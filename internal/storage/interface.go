package storage

import (
	"context"
	"time"

	"github.com/yourname/renescens/internal"
)

type ProfileRepository interface {
	// CreateProfile fails with ErrAlreadyExists if the user has a profile.
	CreateProfile(ctx context.Context, p *internal.Profile) error
	SaveProfile(ctx context.Context, p *internal.Profile) error
	GetProfile(ctx context.Context, userID string) (*internal.Profile, error)
}

type CycleRepository interface {
	GetProgress(ctx context.Context, userID string) (*internal.CycleProgress, error)
	SaveProgress(ctx context.Context, p *internal.CycleProgress) error
	// SaveEntry upserts by entry ID.
	SaveEntry(ctx context.Context, e *internal.CycleEntry) error
	// ListEntries returns entries ordered by day number.
	ListEntries(ctx context.Context, userID string) ([]internal.CycleEntry, error)
}

type EmotionRepository interface {
	AddEmotionLog(ctx context.Context, l *internal.EmotionLog) error
	// ListEmotionLogs returns logs ordered by date ascending.
	ListEmotionLogs(ctx context.Context, userID string) ([]internal.EmotionLog, error)
}

type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, a *internal.Analysis) error
	GetAnalysis(ctx context.Context, userID, id string) (*internal.Analysis, error)
	// ListAnalyses returns analyses newest first.
	ListAnalyses(ctx context.Context, userID string) ([]internal.Analysis, error)
	CountAnalysesSince(ctx context.Context, userID string, since time.Time) (int, error)
}
