package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourname/renescens/internal/storage"
)

// Quota caps analyses per user per calendar month. Reserve takes a slot
// before the expensive work starts; the ticket is committed once the
// analysis is stored or cancelled to give the slot back.
type Quota interface {
	Reserve(ctx context.Context, userID string, at time.Time) (Ticket, error)
	Used(ctx context.Context, userID string, at time.Time) (int, error)
	Limit() int
}

type Ticket interface {
	Commit(ctx context.Context) error
	Cancel(ctx context.Context) error
}

type QuotaStatus struct {
	Month     string `json:"month"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

func GetQuotaStatus(ctx context.Context, q Quota, userID string, at time.Time, loc *time.Location) (QuotaStatus, error) {
	used, err := q.Used(ctx, userID, at)
	if err != nil {
		return QuotaStatus{}, err
	}
	remaining := q.Limit() - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{Month: at.In(loc).Format("2006-01"), Used: used, Limit: q.Limit(), Remaining: remaining}, nil
}

func monthStart(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

// RepositoryQuota counts stored analyses plus in-flight reservations.
// A single mutex serializes reservations across users.
type RepositoryQuota struct {
	repo    storage.AnalysisRepository
	limit   int
	loc     *time.Location
	mu      sync.Mutex
	pending map[string]int
}

func NewRepositoryQuota(repo storage.AnalysisRepository, limit int, loc *time.Location) *RepositoryQuota {
	return &RepositoryQuota{repo: repo, limit: limit, loc: loc, pending: make(map[string]int)}
}

func (q *RepositoryQuota) Limit() int { return q.limit }

func (q *RepositoryQuota) key(userID string, at time.Time) string {
	return userID + ":" + at.In(q.loc).Format("2006-01")
}

func (q *RepositoryQuota) Used(ctx context.Context, userID string, at time.Time) (int, error) {
	return q.repo.CountAnalysesSince(ctx, userID, monthStart(at, q.loc))
}

func (q *RepositoryQuota) Reserve(ctx context.Context, userID string, at time.Time) (Ticket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	used, err := q.Used(ctx, userID, at)
	if err != nil {
		return nil, err
	}
	k := q.key(userID, at)
	if used+q.pending[k] >= q.limit {
		return nil, ErrQuotaExceeded
	}
	q.pending[k]++
	return &repoTicket{q: q, key: k}, nil
}

func (q *RepositoryQuota) release(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending[key] <= 1 {
		delete(q.pending, key)
		return
	}
	q.pending[key]--
}

type repoTicket struct {
	q    *RepositoryQuota
	key  string
	once sync.Once
}

// Commit drops the reservation; the stored analysis now counts instead.
func (t *repoTicket) Commit(ctx context.Context) error {
	t.once.Do(func() { t.q.release(t.key) })
	return nil
}

func (t *repoTicket) Cancel(ctx context.Context) error {
	t.once.Do(func() { t.q.release(t.key) })
	return nil
}

// RedisQuota keeps one counter per user and month. The counter expires at
// the start of the following month.
type RedisQuota struct {
	rdb   redis.UniversalClient
	limit int
	loc   *time.Location
}

func NewRedisQuota(rdb redis.UniversalClient, limit int, loc *time.Location) *RedisQuota {
	return &RedisQuota{rdb: rdb, limit: limit, loc: loc}
}

func (q *RedisQuota) Limit() int { return q.limit }

func (q *RedisQuota) key(userID string, at time.Time) string {
	return fmt.Sprintf("analysis_quota:%s:%s", userID, at.In(q.loc).Format("2006-01"))
}

func (q *RedisQuota) Used(ctx context.Context, userID string, at time.Time) (int, error) {
	n, err := q.rdb.Get(ctx, q.key(userID, at)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota: %w", err)
	}
	return n, nil
}

func (q *RedisQuota) Reserve(ctx context.Context, userID string, at time.Time) (Ticket, error) {
	key := q.key(userID, at)
	expires := monthStart(at, q.loc).AddDate(0, 1, 0)

	var incr *redis.IntCmd
	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, expires)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("quota: %w", err)
	}
	if incr.Val() > int64(q.limit) {
		if err := q.rdb.Decr(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("quota: %w", err)
		}
		return nil, ErrQuotaExceeded
	}
	return &redisTicket{q: q, key: key}, nil
}

type redisTicket struct {
	q    *RedisQuota
	key  string
	once sync.Once
}

func (t *redisTicket) Commit(ctx context.Context) error {
	t.once.Do(func() {})
	return nil
}

func (t *redisTicket) Cancel(ctx context.Context) error {
	var err error
	t.once.Do(func() { err = t.q.rdb.Decr(ctx, t.key).Err() })
	return err
}

var _ Quota = (*RepositoryQuota)(nil)
var _ Quota = (*RedisQuota)(nil)
