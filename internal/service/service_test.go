package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/catalog"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/storage"
)

var testUser = &internal.User{ID: "u1", Token: "MOCK-TOKEN", Name: "Test User"}

func setupStorage(t *testing.T) *storage.FileStorage {
	t.Helper()
	fs, err := storage.NewFileStorage(t.TempDir(), internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func day(d, h int) time.Time {
	return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
}

func TestCycleGating(t *testing.T) {
	ctx := context.Background()
	fs := setupStorage(t)
	cat := catalog.Default()

	view, err := GetCycle(ctx, fs, cat, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Progress.CurrentDay)
	assert.Len(t, view.Days, CycleLength)
	assert.Equal(t, DayUnlocked, view.Days[0].State)
	assert.Equal(t, DayLocked, view.Days[1].State)
	assert.Equal(t, 0, view.CompletionPercent)

	_, _, err = CompleteDay(ctx, fs, cat, testUser, 2, nil)
	assert.ErrorIs(t, err, ErrDayLocked)

	for _, d := range []int{0, 22} {
		_, _, err = CompleteDay(ctx, fs, cat, testUser, d, nil)
		assert.ErrorIs(t, err, ErrDayOutOfRange)
	}

	p, entry, err := CompleteDay(ctx, fs, cat, testUser, 1, &CompleteDayRequest{Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p.CompletedDays)
	assert.Equal(t, 2, p.CurrentDay)
	assert.NotNil(t, p.LastCompletedAt)
	assert.Equal(t, "u1_day1", entry.ID)
	d1, _ := cat.Day(1)
	assert.Equal(t, d1.Exercises, entry.Exercises)

	// completing again does not duplicate the day
	p, _, err = CompleteDay(ctx, fs, cat, testUser, 1, &CompleteDayRequest{Exercises: []string{"humming"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p.CompletedDays)

	_, _, err = CompleteDay(ctx, fs, cat, testUser, 2, nil)
	require.NoError(t, err)

	view, err = GetCycle(ctx, fs, cat, testUser)
	require.NoError(t, err)
	assert.Equal(t, DayCompleted, view.Days[0].State)
	assert.Equal(t, DayCompleted, view.Days[1].State)
	assert.Equal(t, DayUnlocked, view.Days[2].State)
	assert.Equal(t, DayLocked, view.Days[3].State)
	assert.Equal(t, 3, view.Progress.CurrentDay)
	assert.Equal(t, 10, view.CompletionPercent)

	entries, err := ListCycleEntries(ctx, fs, testUser)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"humming"}, entries[0].Exercises)
}

func TestCompletionPercent(t *testing.T) {
	p := &internal.CycleProgress{CompletedDays: make([]int, 21)}
	assert.Equal(t, 100, CompletionPercent(p))
	p.CompletedDays = []int{1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, 33, CompletionPercent(p))
}

func logAt(t time.Time, emotional, energy, stress int, activities ...string) internal.EmotionLog {
	return internal.EmotionLog{Date: t, EmotionalState: emotional, EnergyLevel: energy, StressLevel: stress, Activities: activities}
}

func TestEmotionStats(t *testing.T) {
	now := day(10, 20)
	logs := []internal.EmotionLog{
		logAt(day(8, 9), 3, 5, 8),
		logAt(day(9, 9), 5, 5, 6),
		logAt(day(10, 9), 7, 5, 4),
	}
	stats := ComputeEmotionStats(logs, now, time.UTC)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.InDelta(t, 5.0, stats.AverageEmotional, 1e-9)
	assert.InDelta(t, 5.0, stats.AverageEnergy, 1e-9)
	assert.InDelta(t, 6.0, stats.AverageStress, 1e-9)
	assert.Equal(t, TrendUp, stats.Trends.Emotional)
	assert.Equal(t, TrendStable, stats.Trends.Energy)
	assert.Equal(t, TrendDown, stats.Trends.Stress)
	assert.Equal(t, 3, stats.Streak)
	require.NotNil(t, stats.LastEntry)
	assert.True(t, stats.LastEntry.Equal(day(10, 9)))

	empty := ComputeEmotionStats(nil, now, time.UTC)
	assert.Equal(t, 0, empty.TotalEntries)
	assert.Equal(t, 0.0, empty.AverageEmotional)
	assert.Equal(t, TrendStable, empty.Trends.Emotional)
	assert.Nil(t, empty.LastEntry)
}

func TestTrendUsesLastFiveLogs(t *testing.T) {
	logs := []internal.EmotionLog{logAt(day(1, 9), 1, 1, 1)}
	for i := 0; i < 5; i++ {
		logs = append(logs, logAt(day(2+i, 9), 6, 6, 6))
	}
	stats := ComputeEmotionStats(logs, day(6, 20), time.UTC)
	assert.Equal(t, TrendStable, stats.Trends.Emotional)
}

func TestStreak(t *testing.T) {
	now := day(10, 20)
	cases := []struct {
		name string
		logs []internal.EmotionLog
		want int
	}{
		{"empty", nil, 0},
		{"not today", []internal.EmotionLog{logAt(day(9, 9), 5, 5, 5)}, 0},
		{"gap", []internal.EmotionLog{logAt(day(7, 9), 5, 5, 5), logAt(day(9, 9), 5, 5, 5), logAt(day(10, 9), 5, 5, 5)}, 2},
		{"same day twice", []internal.EmotionLog{logAt(day(10, 8), 5, 5, 5), logAt(day(10, 9), 5, 5, 5)}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Streak(tc.logs, now, time.UTC))
		})
	}
}

func TestStreakUsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	// 23:30 UTC on the 9th is already the 10th in Paris.
	logs := []internal.EmotionLog{logAt(time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC), 5, 5, 5)}
	assert.Equal(t, 1, Streak(logs, day(10, 12), paris))
	assert.Equal(t, 0, Streak(logs, day(10, 12), time.UTC))
}

func TestActivityImpact(t *testing.T) {
	logs := []internal.EmotionLog{
		logAt(day(1, 9), 8, 8, 2, "yoga", "chant"),
		logAt(day(2, 9), 4, 4, 6, "travail"),
		logAt(day(3, 9), 6, 6, 4, "yoga"),
	}
	impact := ComputeActivityImpact(logs)
	require.Len(t, impact, 3)
	assert.Equal(t, "yoga", impact[0].Activity)
	assert.Equal(t, 2, impact[0].Count)
	assert.InDelta(t, 1.0, impact[0].Emotional, 1e-9)
	assert.InDelta(t, -1.0, impact[0].Stress, 1e-9)
	assert.Equal(t, "chant", impact[1].Activity)
	assert.Equal(t, "travail", impact[2].Activity)
	assert.InDelta(t, -2.0, impact[2].Emotional, 1e-9)

	assert.Empty(t, ComputeActivityImpact(nil))
}

func TestCreateEmotionLogValidation(t *testing.T) {
	ctx := context.Background()
	fs := setupStorage(t)

	bad := &EmotionLogRequest{EmotionalState: 11, EnergyLevel: 5, StressLevel: 5}
	assert.Error(t, ValidateEmotionLogRequest(bad))
	assert.True(t, IsValidation(ValidateEmotionLogRequest(bad)))

	req := &EmotionLogRequest{EmotionalState: 7, EnergyLevel: 6, StressLevel: 3, Activities: []string{"yoga"}}
	require.NoError(t, ValidateEmotionLogRequest(req))
	l, err := CreateEmotionLog(ctx, fs, testUser, req)
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)

	logs, err := ListEmotionLogs(ctx, fs, testUser)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7, logs[0].EmotionalState)

	stats, err := GetEmotionStats(ctx, fs, testUser, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	fs := setupStorage(t)

	_, err := GetProfile(ctx, fs, testUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	p, err := CreateProfile(ctx, fs, testUser, nil)
	require.NoError(t, err)
	assert.Equal(t, "Test User", p.DisplayName)
	assert.Equal(t, "beginner", p.Experience)
	assert.Equal(t, "fr", p.Settings.Language)

	_, err = CreateProfile(ctx, fs, testUser, nil)
	assert.ErrorIs(t, err, ErrProfileExists)

	req := &ProfileRequest{
		Email:      "jeanne@example.com",
		FirstName:  "Jeanne",
		VocalRange: VocalRangeRequest{Min: 110, Max: 440},
		Experience: "intermediate",
		Goals:      []ProfileGoalRequest{{Title: "Tenir un La", Status: "completed", Progress: 100}},
	}
	require.NoError(t, ValidateProfileRequest(req))
	updated, err := UpdateProfile(ctx, fs, testUser, req)
	require.NoError(t, err)
	assert.Equal(t, "Jeanne", updated.FirstName)
	assert.Equal(t, "intermediate", updated.Experience)
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))
	require.Len(t, updated.Goals, 1)
	assert.NotEmpty(t, updated.Goals[0].ID)
	assert.NotNil(t, updated.Goals[0].CompletedAt)

	got, err := GetProfile(ctx, fs, testUser)
	require.NoError(t, err)
	assert.Equal(t, "jeanne@example.com", got.Email)
}

func TestProfileValidation(t *testing.T) {
	assert.Error(t, ValidateProfileRequest(&ProfileRequest{Email: "not-an-email"}))
	assert.Error(t, ValidateProfileRequest(&ProfileRequest{VocalRange: VocalRangeRequest{Min: 300, Max: 100}}))
	assert.Error(t, ValidateProfileRequest(&ProfileRequest{Experience: "guru"}))
	assert.NoError(t, ValidateProfileRequest(&ProfileRequest{}))
}

func TestRepositoryQuota(t *testing.T) {
	ctx := context.Background()
	fs := setupStorage(t)
	q := NewRepositoryQuota(fs, 4, time.UTC)
	now := day(10, 9)

	var tickets []Ticket
	for i := 0; i < 4; i++ {
		tk, err := q.Reserve(ctx, "u1", now)
		require.NoError(t, err)
		tickets = append(tickets, tk)
	}
	_, err := q.Reserve(ctx, "u1", now)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// other users are not affected
	_, err = q.Reserve(ctx, "u2", now)
	assert.NoError(t, err)

	require.NoError(t, tickets[0].Cancel(ctx))
	_, err = q.Reserve(ctx, "u1", now)
	assert.NoError(t, err)

	// a new month starts from zero
	_, err = q.Reserve(ctx, "u1", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestRedisQuota(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	mr.SetTime(day(10, 9))
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := NewRedisQuota(rdb, 4, time.UTC)
	now := day(10, 9)

	var tickets []Ticket
	for i := 0; i < 4; i++ {
		tk, err := q.Reserve(ctx, "u1", now)
		require.NoError(t, err)
		tickets = append(tickets, tk)
	}
	_, err := q.Reserve(ctx, "u1", now)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	used, err := q.Used(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 4, used)
	assert.True(t, mr.TTL("analysis_quota:u1:2025-03") > 0)

	require.NoError(t, tickets[0].Cancel(ctx))
	require.NoError(t, tickets[1].Commit(ctx))
	require.NoError(t, tickets[1].Cancel(ctx))
	used, err = q.Used(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 3, used)

	used, err = q.Used(ctx, "u1", time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, used)
}

func sampleAnalysisRequest() *AnalysisRequest {
	return &AnalysisRequest{
		Notes: []DetectedNoteRequest{
			{Frequency: 220.4, Name: "A", Octave: 3, Confidence: 0.95, Timestamp: day(10, 9)},
			{Frequency: 219.6, Name: "A", Octave: 3, Confidence: 0.93, Timestamp: day(10, 9)},
			{Frequency: 246.9, Name: "B", Octave: 3, Confidence: 0.9, Timestamp: day(10, 9)},
		},
		UserState: internal.UserState{
			PhysicalState: 6, MentalState: 7, StressLevel: 8, SleepQuality: 4,
			Notes: "Fatiguée",
			LifeSpheres: internal.LifeSpheres{
				Health: map[string]string{"sport": "rarement"},
			},
		},
	}
}

func newAnalysisService(t *testing.T, c Completer) (*AnalysisService, *storage.FileStorage) {
	fs := setupStorage(t)
	return &AnalysisService{
		Repo:      fs,
		Quota:     NewRepositoryQuota(fs, 4, time.UTC),
		Completer: c,
		Location:  time.UTC,
		Logger:    internal.NewNopLogger(),
		Now:       func() time.Time { return day(10, 9) },
	}, fs
}

func TestAnalysisWithCompleter(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mc := NewMockCompleter(ctrl)
	report := &internal.AIReport{Summary: "ok", Sections: []internal.ReportSection{{Title: "Analyse", Items: []string{"a"}}}, Source: "openai"}
	mc.EXPECT().
		CompleteReport(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, system, user string) (*internal.AIReport, error) {
			assert.Contains(t, user, "matin")
			assert.Contains(t, user, "A (2 fois)")
			assert.Contains(t, user, "Niveau de stress : 8/10")
			return report, nil
		})

	svc, _ := newAnalysisService(t, mc)
	a, err := svc.Create(ctx, testUser, sampleAnalysisRequest())
	require.NoError(t, err)
	assert.Equal(t, "openai", a.Report.Source)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, a.DominantNotes)
	require.NotNil(t, a.CurrentFrequency)
	assert.InDelta(t, 220.0, *a.CurrentFrequency, 1e-9)

	got, err := svc.Get(ctx, testUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Report.Summary)

	status, err := svc.QuotaStatus(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, QuotaStatus{Month: "2025-03", Used: 1, Limit: 4, Remaining: 3}, status)
}

func TestAnalysisFailureReleasesSlot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mc := NewMockCompleter(ctrl)
	mc.EXPECT().CompleteReport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("upstream down")).Times(5)

	svc, _ := newAnalysisService(t, mc)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, testUser, sampleAnalysisRequest())
		assert.ErrorIs(t, err, ErrReportFailed)
	}
	status, err := svc.QuotaStatus(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
}

func TestAnalysisMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAnalysisService(t, nil)

	for i := 0; i < 4; i++ {
		a, err := svc.Create(ctx, testUser, sampleAnalysisRequest())
		require.NoError(t, err)
		assert.Equal(t, BuiltinSource, a.Report.Source)
	}
	_, err := svc.Create(ctx, testUser, sampleAnalysisRequest())
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	list, err := svc.List(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	svc.Now = func() time.Time { return time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC) }
	_, err = svc.Create(ctx, testUser, sampleAnalysisRequest())
	assert.NoError(t, err)
}

func TestAnalysisValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAnalysisService(t, nil)
	req := sampleAnalysisRequest()
	req.UserState.StressLevel = 0
	_, err := svc.Create(ctx, testUser, req)
	assert.True(t, IsValidation(err))

	req = sampleAnalysisRequest()
	req.DominantNotes = map[string]int{"A": -1}
	_, err = svc.Create(ctx, testUser, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, "matin", TimeOfDay(day(1, 11)))
	assert.Equal(t, "après-midi", TimeOfDay(day(1, 12)))
	assert.Equal(t, "après-midi", TimeOfDay(day(1, 17)))
	assert.Equal(t, "soir", TimeOfDay(day(1, 18)))
}

func TestBuiltinReportAndRender(t *testing.T) {
	a := newAnalysis(testUser, sampleAnalysisRequest(), day(10, 19))
	r := BuiltinReport(a, day(10, 19))
	require.Len(t, r.Sections, len(reportSectionTitles))
	assert.Contains(t, r.Summary, "soir")
	assert.Contains(t, r.Summary, "A")
	assert.Contains(t, strings.Join(r.Sections[3].Items, " "), "stress")

	a.Report = r
	text := RenderReport(a, time.UTC)
	assert.Contains(t, text, "RAPPORT D'ANALYSE VOCALE")
	assert.Contains(t, text, "10/03/2025 19:00")
	assert.Contains(t, text, "Fréquence dominante : 220.0 Hz")
	assert.Contains(t, text, "Santé : sport: rarement")
	assert.Contains(t, text, "ANALYSE IA")
}

func TestAnalyzeWAV(t *testing.T) {
	samples := pitch.Tone(220, 1.0, pitch.ToneSampleRate)
	wav, err := pitch.EncodeWAV(samples, pitch.ToneSampleRate)
	require.NoError(t, err)

	res, err := AnalyzeWAV(bytes.NewReader(wav), day(10, 9))
	require.NoError(t, err)
	assert.Equal(t, float64(pitch.ToneSampleRate), res.SampleRate)
	assert.InDelta(t, 1.0, res.DurationSeconds, 0.01)
	require.NotEmpty(t, res.Notes)
	assert.Equal(t, "A", res.Summary.DominantNote)
	a3 := 0
	for _, n := range res.Notes {
		if n.Name == "A" && n.Octave == 3 {
			a3++
		}
	}
	assert.GreaterOrEqual(t, a3, len(res.Notes)-1)
	assert.True(t, res.Notes[0].Timestamp.Equal(day(10, 9)))

	_, err = AnalyzeWAV(bytes.NewReader([]byte("not a wav")), day(10, 9))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeFrame(t *testing.T) {
	raw := make([]byte, pitch.FrameSize*4)
	samples, err := DecodeFrame("application/octet-stream", bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, samples, pitch.FrameSize)

	_, err = DecodeFrame("application/octet-stream", bytes.NewReader(raw[:10]))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeFrame("application/json", strings.NewReader(`{"samples":[0.1,0.2]}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeFrame("application/json", strings.NewReader(`{`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestExerciseRanges(t *testing.T) {
	ranges := ExerciseRanges()
	require.Len(t, ranges, 3)
	assert.Equal(t, "Graves", ranges[0].Name)
	assert.Equal(t, "D#", ranges[0].Notes[0].Name)
	assert.Equal(t, "D", ranges[0].Notes[len(ranges[0].Notes)-1].Name)
	last := ranges[2].Notes[len(ranges[2].Notes)-1]
	assert.Equal(t, "C5", last.String())
	for _, r := range ranges {
		for _, n := range r.Notes {
			assert.GreaterOrEqual(t, n.Frequency, r.MinHz)
			assert.LessOrEqual(t, n.Frequency, r.MaxHz)
		}
	}
}

func TestReferenceTone(t *testing.T) {
	wav, freq, err := ReferenceTone("A4", 0)
	require.NoError(t, err)
	assert.Equal(t, 440.0, freq)
	assert.Equal(t, "RIFF", string(wav[:4]))

	_, freq, err = ReferenceTone("432", 500)
	require.NoError(t, err)
	assert.Equal(t, 432.0, freq)

	_, _, err = ReferenceTone("H9", 500)
	assert.ErrorIs(t, err, ErrUnknownNote)

	_, _, err = ReferenceTone("A4", 50)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLookupPitch(t *testing.T) {
	fb, err := LookupPitch(445)
	require.NoError(t, err)
	assert.Equal(t, "A", fb.Name)
	assert.Equal(t, 4, fb.Octave)
	assert.Equal(t, 20, fb.Cents)
	assert.False(t, fb.InTune)
	assert.Equal(t, pitch.DirectionDown, fb.Direction)
	require.NotNil(t, fb.Band)
	assert.Equal(t, "third_octave", fb.Band.Key)

	fb, err = LookupPitch(50)
	require.NoError(t, err)
	assert.Nil(t, fb.Band)

	_, err = LookupPitch(0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeProgress(t *testing.T) {
	now := day(20, 20)
	p := &internal.CycleProgress{CompletedDays: []int{1, 2, 3}, CurrentDay: 4}
	var logs []internal.EmotionLog
	for i := 0; i < 10; i++ {
		logs = append(logs, logAt(day(11+i, 9), 6, 6, 6))
	}
	analyses := []internal.Analysis{{ID: "b", CreatedAt: day(15, 9)}, {ID: "a", CreatedAt: day(5, 9)}}

	up := ComputeProgress(p, logs, analyses, now, time.UTC)
	assert.Equal(t, CycleSummary{CompletedDays: 3, CurrentDay: 4, CompletionPercent: 14}, up.Cycle)
	assert.Equal(t, 10, up.Journal.TotalEntries)
	assert.Equal(t, 10, up.Journal.Streak)
	assert.Equal(t, 2, up.Voice.TotalAnalyses)
	require.NotNil(t, up.Voice.LastAnalysis)
	assert.True(t, up.Voice.LastAnalysis.Equal(day(15, 9)))

	unlocked := map[string]bool{}
	for _, a := range up.Achievements {
		unlocked[a.Key] = a.Unlocked
	}
	assert.Equal(t, map[string]bool{
		"first_day":       true,
		"cycle_complete":  false,
		"week_streak":     true,
		"first_analysis":  true,
		"journal_regular": true,
	}, unlocked)
}

func TestGetProgressEmpty(t *testing.T) {
	fs := setupStorage(t)
	repos := &storage.Repositories{Profiles: fs, Cycles: fs, Emotions: fs, Analyses: fs}
	up, err := GetProgress(context.Background(), repos, testUser, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, up.Cycle.CurrentDay)
	assert.Nil(t, up.Voice.LastAnalysis)
	for _, a := range up.Achievements {
		assert.False(t, a.Unlocked, a.Key)
	}
}
