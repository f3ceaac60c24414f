package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/renescens/internal"
)

// exerciseRepositories runs the same behaviour checks against any backend.
func exerciseRepositories(t *testing.T, repos allRepositories) {
	ctx := context.Background()
	user := "u-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("profile", func(t *testing.T) {
		_, err := repos.GetProfile(ctx, user)
		assert.ErrorIs(t, err, ErrNotFound)

		p := &internal.Profile{UserID: user, Email: "a@b.c", FirstName: "Ana", Interests: []string{"chant"}, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repos.CreateProfile(ctx, p))
		assert.ErrorIs(t, repos.CreateProfile(ctx, p), ErrAlreadyExists)

		p.FirstName = "Anna"
		require.NoError(t, repos.SaveProfile(ctx, p))
		got, err := repos.GetProfile(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.FirstName)
		assert.Equal(t, []string{"chant"}, got.Interests)
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := repos.GetProgress(ctx, user)
		assert.ErrorIs(t, err, ErrNotFound)

		pr := &internal.CycleProgress{UserID: user, CompletedDays: []int{1, 2}, CurrentDay: 3, StartedAt: now, LastCompletedAt: &now, UpdatedAt: now}
		require.NoError(t, repos.SaveProgress(ctx, pr))
		got, err := repos.GetProgress(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, got.CompletedDays)
		assert.Equal(t, 3, got.CurrentDay)
		require.NotNil(t, got.LastCompletedAt)
		assert.True(t, now.Equal(*got.LastCompletedAt))

		for _, d := range []int{2, 1} {
			e := &internal.CycleEntry{ID: user + "_day" + string(rune('0'+d)), UserID: user, DayNumber: d, CompletedAt: now, Exercises: []string{"souffle"}}
			require.NoError(t, repos.SaveEntry(ctx, e))
		}
		// upsert keeps a single entry per day
		require.NoError(t, repos.SaveEntry(ctx, &internal.CycleEntry{ID: user + "_day1", UserID: user, DayNumber: 1, CompletedAt: now, Notes: "again"}))
		entries, err := repos.ListEntries(ctx, user)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].DayNumber)
		assert.Equal(t, "again", entries[0].Notes)
	})

	t.Run("emotions", func(t *testing.T) {
		for i, offset := range []int{0, -2, -1} {
			l := &internal.EmotionLog{
				ID: uuid.NewString(), UserID: user, Date: now.AddDate(0, 0, offset),
				EmotionalState: 5 + i, EnergyLevel: 5, StressLevel: 3, Activities: []string{"yoga"}, CreatedAt: now,
			}
			require.NoError(t, repos.AddEmotionLog(ctx, l))
		}
		logs, err := repos.ListEmotionLogs(ctx, user)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.True(t, logs[0].Date.Before(logs[1].Date))
		assert.True(t, logs[1].Date.Before(logs[2].Date))
		assert.Equal(t, []string{"yoga"}, logs[0].Activities)

		other, err := repos.ListEmotionLogs(ctx, "nobody-"+user)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("analyses", func(t *testing.T) {
		freq := 220.0
		older := &internal.Analysis{ID: uuid.NewString(), UserID: user, CreatedAt: now.Add(-40 * 24 * time.Hour), DominantNotes: map[string]int{"A": 2}}
		newer := &internal.Analysis{ID: uuid.NewString(), UserID: user, CreatedAt: now, CurrentFrequency: &freq,
			Report: &internal.AIReport{Summary: "ok", Sections: []internal.ReportSection{{Title: "T", Items: []string{"i"}}}}}
		require.NoError(t, repos.SaveAnalysis(ctx, older))
		require.NoError(t, repos.SaveAnalysis(ctx, newer))

		list, err := repos.ListAnalyses(ctx, user)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)

		got, err := repos.GetAnalysis(ctx, user, newer.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Report)
		assert.Equal(t, "ok", got.Report.Summary)
		assert.Equal(t, 220.0, *got.CurrentFrequency)

		_, err = repos.GetAnalysis(ctx, "someone-else", newer.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := repos.CountAnalysesSince(ctx, user, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestFileStorage(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), internal.NewNopLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseRepositories(t, s)
}

func TestFileStorage_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := NewFileStorage(dir, internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, s.AddEmotionLog(ctx, &internal.EmotionLog{ID: "l1", UserID: "u1", Date: time.Now(), EmotionalState: 7}))
	require.NoError(t, s.SaveProgress(ctx, &internal.CycleProgress{UserID: "u1", CompletedDays: []int{1}, CurrentDay: 2}))
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, "emotion_logs.json"))
	require.NoError(t, err)

	s2, err := NewFileStorage(dir, internal.NewNopLogger())
	require.NoError(t, err)
	defer s2.Close()
	logs, err := s2.ListEmotionLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7, logs[0].EmotionalState)
	pr, err := s2.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, pr.CurrentDay)
}

func TestFileStorage_ReturnsCopies(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), internal.NewNopLogger())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.SaveProgress(ctx, &internal.CycleProgress{UserID: "u1", CompletedDays: []int{1}}))

	got, err := s.GetProgress(ctx, "u1")
	require.NoError(t, err)
	got.CompletedDays[0] = 99

	again, err := s.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, again.CompletedDays)
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(context.Background(), filepath.Join(t.TempDir(), "test.db"), internal.NewNopLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseRepositories(t, s)
}

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	s, err := NewPostgresStorage(context.Background(), dsn, internal.NewNopLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseRepositories(t, s)
}

func TestMongoStorage(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	s, err := NewMongoStorage(context.Background(), uri, "renescens_test", internal.NewNopLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseRepositories(t, s)
}

func TestOpError(t *testing.T) {
	err := wrapErr("get", "profile", "u1", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "get profile u1: storage: not found", err.Error())
	assert.Nil(t, wrapErr("get", "profile", "u1", nil))
}
