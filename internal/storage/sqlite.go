package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/yourname/renescens/internal"
)

// SQLiteStorage implements every repository on an embedded SQLite file.
// Timestamps are stored as unix milliseconds, lists and documents as JSON.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := runSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	logger.Infof("storage: sqlite opened at %s", path)
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func jsonText(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- ProfileRepository ---
func (s *SQLiteStorage) CreateProfile(ctx context.Context, p *internal.Profile) error {
	doc, err := jsonText(p)
	if err != nil {
		return wrapErr("create", "profile", p.UserID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, doc, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.UserID, doc, toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if isUniqueViolation(err) {
		return wrapErr("create", "profile", p.UserID, ErrAlreadyExists)
	}
	return wrapErr("create", "profile", p.UserID, err)
}

func (s *SQLiteStorage) SaveProfile(ctx context.Context, p *internal.Profile) error {
	doc, err := jsonText(p)
	if err != nil {
		return wrapErr("save", "profile", p.UserID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, doc, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			doc        = excluded.doc,
			updated_at = excluded.updated_at`,
		p.UserID, doc, toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	return wrapErr("save", "profile", p.UserID, err)
}

func (s *SQLiteStorage) GetProfile(ctx context.Context, userID string) (*internal.Profile, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM profiles WHERE user_id = ?`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("get", "profile", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "profile", userID, err)
	}
	var p internal.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, wrapErr("get", "profile", userID, err)
	}
	return &p, nil
}

// --- CycleRepository ---
func (s *SQLiteStorage) GetProgress(ctx context.Context, userID string) (*internal.CycleProgress, error) {
	var (
		days      string
		current   int
		started   int64
		last      sql.NullInt64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT completed_days, current_day, started_at, last_completed_at, updated_at
		FROM cycle_progress WHERE user_id = ?`, userID).
		Scan(&days, &current, &started, &last, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("get", "cycle progress", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "cycle progress", userID, err)
	}
	p := &internal.CycleProgress{
		UserID:          userID,
		CurrentDay:      current,
		StartedAt:       fromMillis(started),
		LastCompletedAt: fromNullMillis(last),
		UpdatedAt:       fromMillis(updatedAt),
	}
	if err := json.Unmarshal([]byte(days), &p.CompletedDays); err != nil {
		return nil, wrapErr("get", "cycle progress", userID, err)
	}
	return p, nil
}

func (s *SQLiteStorage) SaveProgress(ctx context.Context, p *internal.CycleProgress) error {
	days := p.CompletedDays
	if days == nil {
		days = []int{}
	}
	daysText, err := jsonText(days)
	if err != nil {
		return wrapErr("save", "cycle progress", p.UserID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cycle_progress (user_id, completed_days, current_day, started_at, last_completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			completed_days    = excluded.completed_days,
			current_day       = excluded.current_day,
			last_completed_at = excluded.last_completed_at,
			updated_at        = excluded.updated_at`,
		p.UserID, daysText, p.CurrentDay, toMillis(p.StartedAt), toNullMillis(p.LastCompletedAt), toMillis(p.UpdatedAt))
	return wrapErr("save", "cycle progress", p.UserID, err)
}

func (s *SQLiteStorage) SaveEntry(ctx context.Context, e *internal.CycleEntry) error {
	exercises := e.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	exText, err := jsonText(exercises)
	if err != nil {
		return wrapErr("save", "cycle entry", e.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cycle_entries (id, user_id, day_number, completed_at, exercises, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at = excluded.completed_at,
			exercises    = excluded.exercises,
			notes        = excluded.notes`,
		e.ID, e.UserID, e.DayNumber, toMillis(e.CompletedAt), exText, e.Notes)
	return wrapErr("save", "cycle entry", e.ID, err)
}

func (s *SQLiteStorage) ListEntries(ctx context.Context, userID string) ([]internal.CycleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day_number, completed_at, exercises, notes
		FROM cycle_entries WHERE user_id = ? ORDER BY day_number ASC`, userID)
	if err != nil {
		return nil, wrapErr("list", "cycle entry", "", err)
	}
	defer rows.Close()

	out := make([]internal.CycleEntry, 0)
	for rows.Next() {
		var (
			e         internal.CycleEntry
			completed int64
			exercises string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.DayNumber, &completed, &exercises, &e.Notes); err != nil {
			return nil, wrapErr("list", "cycle entry", "", err)
		}
		e.CompletedAt = fromMillis(completed)
		if err := json.Unmarshal([]byte(exercises), &e.Exercises); err != nil {
			return nil, wrapErr("list", "cycle entry", e.ID, err)
		}
		out = append(out, e)
	}
	return out, wrapErr("list", "cycle entry", "", rows.Err())
}

// --- EmotionRepository ---
func (s *SQLiteStorage) AddEmotionLog(ctx context.Context, l *internal.EmotionLog) error {
	activities := l.Activities
	if activities == nil {
		activities = []string{}
	}
	actText, err := jsonText(activities)
	if err != nil {
		return wrapErr("add", "emotion log", l.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emotion_logs (id, user_id, date, emotional_state, energy_level, stress_level, activities, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, toMillis(l.Date), l.EmotionalState, l.EnergyLevel, l.StressLevel, actText, l.Notes, toMillis(l.CreatedAt))
	if isUniqueViolation(err) {
		return wrapErr("add", "emotion log", l.ID, ErrAlreadyExists)
	}
	return wrapErr("add", "emotion log", l.ID, err)
}

func (s *SQLiteStorage) ListEmotionLogs(ctx context.Context, userID string) ([]internal.EmotionLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, emotional_state, energy_level, stress_level, activities, notes, created_at
		FROM emotion_logs WHERE user_id = ? ORDER BY date ASC, created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, wrapErr("list", "emotion log", "", err)
	}
	defer rows.Close()

	out := make([]internal.EmotionLog, 0)
	for rows.Next() {
		var (
			l          internal.EmotionLog
			date       int64
			created    int64
			activities string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &date, &l.EmotionalState, &l.EnergyLevel, &l.StressLevel, &activities, &l.Notes, &created); err != nil {
			return nil, wrapErr("list", "emotion log", "", err)
		}
		l.Date = fromMillis(date)
		l.CreatedAt = fromMillis(created)
		if err := json.Unmarshal([]byte(activities), &l.Activities); err != nil {
			return nil, wrapErr("list", "emotion log", l.ID, err)
		}
		out = append(out, l)
	}
	return out, wrapErr("list", "emotion log", "", rows.Err())
}

// --- AnalysisRepository ---
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, a *internal.Analysis) error {
	doc, err := jsonText(a)
	if err != nil {
		return wrapErr("save", "analysis", a.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, user_id, created_at, doc) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		a.ID, a.UserID, toMillis(a.CreatedAt), doc)
	return wrapErr("save", "analysis", a.ID, err)
}

func (s *SQLiteStorage) GetAnalysis(ctx context.Context, userID, id string) (*internal.Analysis, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM analyses WHERE id = ? AND user_id = ?`, id, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("get", "analysis", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "analysis", id, err)
	}
	var a internal.Analysis
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return nil, wrapErr("get", "analysis", id, err)
	}
	return &a, nil
}

func (s *SQLiteStorage) ListAnalyses(ctx context.Context, userID string) ([]internal.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc FROM analyses WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, wrapErr("list", "analysis", "", err)
	}
	defer rows.Close()

	out := make([]internal.Analysis, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, wrapErr("list", "analysis", "", err)
		}
		var a internal.Analysis
		if err := json.Unmarshal([]byte(doc), &a); err != nil {
			return nil, wrapErr("list", "analysis", "", err)
		}
		out = append(out, a)
	}
	return out, wrapErr("list", "analysis", "", rows.Err())
}

func (s *SQLiteStorage) CountAnalysesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analyses WHERE user_id = ? AND created_at >= ?`,
		userID, toMillis(since)).Scan(&n)
	if err != nil {
		return 0, wrapErr("count", "analysis", "", err)
	}
	return n, nil
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*SQLiteStorage)(nil)
var _ CycleRepository = (*SQLiteStorage)(nil)
var _ EmotionRepository = (*SQLiteStorage)(nil)
var _ AnalysisRepository = (*SQLiteStorage)(nil)
