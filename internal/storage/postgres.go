package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/renescens/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	if err := runPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func pgNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

func pgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func toInt32s(days []int) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

func fromInt32s(days []int32) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- ProfileRepository ---
func (p *PostgresStorage) CreateProfile(ctx context.Context, pr *internal.Profile) error {
	doc, err := json.Marshal(pr)
	if err != nil {
		return wrapErr("create", "profile", pr.UserID, err)
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO profiles (user_id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		pr.UserID, doc, pr.CreatedAt, pr.UpdatedAt)
	if pgUniqueViolation(err) {
		return wrapErr("create", "profile", pr.UserID, ErrAlreadyExists)
	}
	if err != nil {
		p.logger.Errorf("failed to insert profile: %v", err)
	}
	return wrapErr("create", "profile", pr.UserID, err)
}

func (p *PostgresStorage) SaveProfile(ctx context.Context, pr *internal.Profile) error {
	doc, err := json.Marshal(pr)
	if err != nil {
		return wrapErr("save", "profile", pr.UserID, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		pr.UserID, doc, pr.CreatedAt, pr.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert profile: %v", err)
	}
	return wrapErr("save", "profile", pr.UserID, err)
}

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*internal.Profile, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM profiles WHERE user_id = $1`, userID).Scan(&doc)
	if pgNotFound(err) {
		return nil, wrapErr("get", "profile", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "profile", userID, err)
	}
	var pr internal.Profile
	if err := json.Unmarshal(doc, &pr); err != nil {
		return nil, wrapErr("get", "profile", userID, err)
	}
	return &pr, nil
}

// --- CycleRepository ---
func (p *PostgresStorage) GetProgress(ctx context.Context, userID string) (*internal.CycleProgress, error) {
	var (
		pr   internal.CycleProgress
		days []int32
	)
	err := p.pool.QueryRow(ctx, `
		SELECT user_id, completed_days, current_day, started_at, last_completed_at, updated_at
		FROM cycle_progress WHERE user_id = $1`, userID).
		Scan(&pr.UserID, &days, &pr.CurrentDay, &pr.StartedAt, &pr.LastCompletedAt, &pr.UpdatedAt)
	if pgNotFound(err) {
		return nil, wrapErr("get", "cycle progress", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "cycle progress", userID, err)
	}
	pr.CompletedDays = fromInt32s(days)
	return &pr, nil
}

func (p *PostgresStorage) SaveProgress(ctx context.Context, pr *internal.CycleProgress) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO cycle_progress (user_id, completed_days, current_day, started_at, last_completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			completed_days    = EXCLUDED.completed_days,
			current_day       = EXCLUDED.current_day,
			last_completed_at = EXCLUDED.last_completed_at,
			updated_at        = EXCLUDED.updated_at`,
		pr.UserID, toInt32s(pr.CompletedDays), pr.CurrentDay, pr.StartedAt, pr.LastCompletedAt, pr.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert cycle progress: %v", err)
	}
	return wrapErr("save", "cycle progress", pr.UserID, err)
}

func (p *PostgresStorage) SaveEntry(ctx context.Context, e *internal.CycleEntry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO cycle_entries (id, user_id, day_number, completed_at, exercises, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			completed_at = EXCLUDED.completed_at,
			exercises    = EXCLUDED.exercises,
			notes        = EXCLUDED.notes`,
		e.ID, e.UserID, e.DayNumber, e.CompletedAt, nonNil(e.Exercises), e.Notes)
	if err != nil {
		p.logger.Errorf("failed to upsert cycle entry: %v", err)
	}
	return wrapErr("save", "cycle entry", e.ID, err)
}

func (p *PostgresStorage) ListEntries(ctx context.Context, userID string) ([]internal.CycleEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, day_number, completed_at, exercises, notes
		FROM cycle_entries WHERE user_id = $1 ORDER BY day_number ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query cycle entries: %v", err)
		return nil, wrapErr("list", "cycle entry", "", err)
	}
	defer rows.Close()

	out := make([]internal.CycleEntry, 0)
	for rows.Next() {
		var e internal.CycleEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.DayNumber, &e.CompletedAt, &e.Exercises, &e.Notes); err != nil {
			return nil, wrapErr("list", "cycle entry", "", err)
		}
		out = append(out, e)
	}
	return out, wrapErr("list", "cycle entry", "", rows.Err())
}

// --- EmotionRepository ---
func (p *PostgresStorage) AddEmotionLog(ctx context.Context, l *internal.EmotionLog) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO emotion_logs (id, user_id, date, emotional_state, energy_level, stress_level, activities, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.UserID, l.Date, l.EmotionalState, l.EnergyLevel, l.StressLevel, nonNil(l.Activities), l.Notes, l.CreatedAt)
	if pgUniqueViolation(err) {
		return wrapErr("add", "emotion log", l.ID, ErrAlreadyExists)
	}
	if err != nil {
		p.logger.Errorf("failed to insert emotion log: %v", err)
	}
	return wrapErr("add", "emotion log", l.ID, err)
}

func (p *PostgresStorage) ListEmotionLogs(ctx context.Context, userID string) ([]internal.EmotionLog, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, date, emotional_state, energy_level, stress_level, activities, notes, created_at
		FROM emotion_logs WHERE user_id = $1 ORDER BY date ASC, created_at ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query emotion logs: %v", err)
		return nil, wrapErr("list", "emotion log", "", err)
	}
	defer rows.Close()

	out := make([]internal.EmotionLog, 0)
	for rows.Next() {
		var l internal.EmotionLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.EmotionalState, &l.EnergyLevel, &l.StressLevel, &l.Activities, &l.Notes, &l.CreatedAt); err != nil {
			return nil, wrapErr("list", "emotion log", "", err)
		}
		out = append(out, l)
	}
	return out, wrapErr("list", "emotion log", "", rows.Err())
}

// --- AnalysisRepository ---
func (p *PostgresStorage) SaveAnalysis(ctx context.Context, a *internal.Analysis) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return wrapErr("save", "analysis", a.ID, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO analyses (id, user_id, created_at, doc) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		a.ID, a.UserID, a.CreatedAt, doc)
	if err != nil {
		p.logger.Errorf("failed to upsert analysis: %v", err)
	}
	return wrapErr("save", "analysis", a.ID, err)
}

func (p *PostgresStorage) GetAnalysis(ctx context.Context, userID, id string) (*internal.Analysis, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM analyses WHERE id = $1 AND user_id = $2`, id, userID).Scan(&doc)
	if pgNotFound(err) {
		return nil, wrapErr("get", "analysis", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "analysis", id, err)
	}
	var a internal.Analysis
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, wrapErr("get", "analysis", id, err)
	}
	return &a, nil
}

func (p *PostgresStorage) ListAnalyses(ctx context.Context, userID string) ([]internal.Analysis, error) {
	rows, err := p.pool.Query(ctx, `SELECT doc FROM analyses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query analyses: %v", err)
		return nil, wrapErr("list", "analysis", "", err)
	}
	defer rows.Close()

	out := make([]internal.Analysis, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, wrapErr("list", "analysis", "", err)
		}
		var a internal.Analysis
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, wrapErr("list", "analysis", "", err)
		}
		out = append(out, a)
	}
	return out, wrapErr("list", "analysis", "", rows.Err())
}

func (p *PostgresStorage) CountAnalysesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analyses WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(&n)
	if err != nil {
		return 0, wrapErr("count", "analysis", "", err)
	}
	return n, nil
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*PostgresStorage)(nil)
var _ CycleRepository = (*PostgresStorage)(nil)
var _ EmotionRepository = (*PostgresStorage)(nil)
var _ AnalysisRepository = (*PostgresStorage)(nil)
