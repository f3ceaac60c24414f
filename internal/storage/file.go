package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/renescens/internal"
)

const saveDelay = 500 * time.Millisecond

// collection is one JSON file of records keyed by a string id. Writes are
// debounced by a save worker and flushed on close.
type collection[T any] struct {
	name     string
	path     string
	key      func(*T) string
	mu       sync.RWMutex
	items    map[string]*T
	saveChan chan struct{}
	delay    time.Duration
	logger   internal.Logger
}

func newCollection[T any](dir, name string, key func(*T) string, logger internal.Logger) *collection[T] {
	return &collection[T]{
		name:     name,
		path:     filepath.Join(dir, name+".json"),
		key:      key,
		items:    make(map[string]*T),
		saveChan: make(chan struct{}, 1),
		delay:    saveDelay,
		logger:   logger,
	}
}

func (c *collection[T]) load() error {
	file, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var items []*T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		c.items[c.key(it)] = it
	}
	return nil
}

func (c *collection[T]) save() error {
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]*T, 0, len(keys))
	for _, k := range keys {
		items = append(items, c.items[k])
	}
	c.mu.RUnlock()

	return atomicWriteFileJSON(c.path, items)
}

func (c *collection[T]) worker(shutdown <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	timer := time.NewTimer(c.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-c.saveChan:
			timer.Reset(c.delay)
		case <-timer.C:
			if err := c.save(); err != nil {
				c.logger.Errorf("storage: error saving %s: %v", c.name, err)
			}
		case <-shutdown:
			return
		}
	}
}

func (c *collection[T]) signal() {
	select {
	case c.saveChan <- struct{}{}:
	default:
	}
}

func (c *collection[T]) put(v *T) {
	cp := clone(v)
	c.mu.Lock()
	c.items[c.key(cp)] = cp
	c.mu.Unlock()
	c.signal()
}

// insert stores v unless its key is taken.
func (c *collection[T]) insert(v *T) bool {
	cp := clone(v)
	c.mu.Lock()
	k := c.key(cp)
	if _, ok := c.items[k]; ok {
		c.mu.Unlock()
		return false
	}
	c.items[k] = cp
	c.mu.Unlock()
	c.signal()
	return true
}

func (c *collection[T]) get(key string) (*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return clone(v), true
}

func (c *collection[T]) filter(keep func(*T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0)
	for _, v := range c.items {
		if keep(v) {
			out = append(out, *clone(v))
		}
	}
	return out
}

// clone deep-copies through JSON so callers never share slices or maps with
// the in-memory store.
func clone[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		cp := *v
		return &cp
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		cp := *v
		return &cp
	}
	return &out
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// FileStorage keeps every collection in memory and persists each one to a
// JSON file under a data directory.
type FileStorage struct {
	profiles *collection[internal.Profile]
	progress *collection[internal.CycleProgress]
	entries  *collection[internal.CycleEntry]
	emotions *collection[internal.EmotionLog]
	analyses *collection[internal.Analysis]

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	closeOnce    sync.Once
	logger       internal.Logger
}

func NewFileStorage(dir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &FileStorage{
		profiles:     newCollection(dir, "profiles", func(p *internal.Profile) string { return p.UserID }, logger),
		progress:     newCollection(dir, "cycle_progress", func(p *internal.CycleProgress) string { return p.UserID }, logger),
		entries:      newCollection(dir, "cycle_entries", func(e *internal.CycleEntry) string { return e.ID }, logger),
		emotions:     newCollection(dir, "emotion_logs", func(l *internal.EmotionLog) string { return l.ID }, logger),
		analyses:     newCollection(dir, "analyses", func(a *internal.Analysis) string { return a.ID }, logger),
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	for _, c := range s.all() {
		if err := c.load(); err != nil {
			logger.Errorf("storage: failed to load %s: %v", c.label(), err)
			return nil, err
		}
	}
	for _, c := range s.all() {
		s.wg.Add(1)
		go c.worker(s.shutdownChan, &s.wg)
	}
	return s, nil
}

type persisted interface {
	load() error
	save() error
	label() string
	worker(<-chan struct{}, *sync.WaitGroup)
}

func (c *collection[T]) label() string { return c.name }

func (s *FileStorage) all() []persisted {
	return []persisted{s.profiles, s.progress, s.entries, s.emotions, s.analyses}
}

// Close stops the save workers and writes every collection synchronously.
func (s *FileStorage) Close() error {
	var firstErr error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.wg.Wait()
		for _, c := range s.all() {
			if err := c.save(); err != nil && firstErr == nil {
				firstErr = wrapErr("save", c.label(), "", err)
			}
		}
	})
	return firstErr
}

// --- ProfileRepository ---
func (s *FileStorage) CreateProfile(ctx context.Context, p *internal.Profile) error {
	if !s.profiles.insert(p) {
		return wrapErr("create", "profile", p.UserID, ErrAlreadyExists)
	}
	return nil
}

func (s *FileStorage) SaveProfile(ctx context.Context, p *internal.Profile) error {
	s.profiles.put(p)
	return nil
}

func (s *FileStorage) GetProfile(ctx context.Context, userID string) (*internal.Profile, error) {
	p, ok := s.profiles.get(userID)
	if !ok {
		return nil, wrapErr("get", "profile", userID, ErrNotFound)
	}
	return p, nil
}

// --- CycleRepository ---
func (s *FileStorage) GetProgress(ctx context.Context, userID string) (*internal.CycleProgress, error) {
	p, ok := s.progress.get(userID)
	if !ok {
		return nil, wrapErr("get", "cycle progress", userID, ErrNotFound)
	}
	return p, nil
}

func (s *FileStorage) SaveProgress(ctx context.Context, p *internal.CycleProgress) error {
	s.progress.put(p)
	return nil
}

func (s *FileStorage) SaveEntry(ctx context.Context, e *internal.CycleEntry) error {
	s.entries.put(e)
	return nil
}

func (s *FileStorage) ListEntries(ctx context.Context, userID string) ([]internal.CycleEntry, error) {
	out := s.entries.filter(func(e *internal.CycleEntry) bool { return e.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

// --- EmotionRepository ---
func (s *FileStorage) AddEmotionLog(ctx context.Context, l *internal.EmotionLog) error {
	if !s.emotions.insert(l) {
		return wrapErr("add", "emotion log", l.ID, ErrAlreadyExists)
	}
	return nil
}

func (s *FileStorage) ListEmotionLogs(ctx context.Context, userID string) ([]internal.EmotionLog, error) {
	out := s.emotions.filter(func(l *internal.EmotionLog) bool { return l.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// --- AnalysisRepository ---
func (s *FileStorage) SaveAnalysis(ctx context.Context, a *internal.Analysis) error {
	s.analyses.put(a)
	return nil
}

func (s *FileStorage) GetAnalysis(ctx context.Context, userID, id string) (*internal.Analysis, error) {
	a, ok := s.analyses.get(id)
	if !ok || a.UserID != userID {
		return nil, wrapErr("get", "analysis", id, ErrNotFound)
	}
	return a, nil
}

func (s *FileStorage) ListAnalyses(ctx context.Context, userID string) ([]internal.Analysis, error) {
	out := s.analyses.filter(func(a *internal.Analysis) bool { return a.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *FileStorage) CountAnalysesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	n := len(s.analyses.filter(func(a *internal.Analysis) bool {
		return a.UserID == userID && !a.CreatedAt.Before(since)
	}))
	return n, nil
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*FileStorage)(nil)
var _ CycleRepository = (*FileStorage)(nil)
var _ EmotionRepository = (*FileStorage)(nil)
var _ AnalysisRepository = (*FileStorage)(nil)
