package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/config"
)

// Repositories bundles one backend's implementations of every repository.
type Repositories struct {
	Profiles ProfileRepository
	Cycles   CycleRepository
	Emotions EmotionRepository
	Analyses AnalysisRepository

	closer io.Closer
}

func (r *Repositories) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

type allRepositories interface {
	ProfileRepository
	CycleRepository
	EmotionRepository
	AnalysisRepository
	io.Closer
}

func bundle(s allRepositories) *Repositories {
	return &Repositories{Profiles: s, Cycles: s, Emotions: s, Analyses: s, closer: s}
}

// NewRepositories opens the backend selected by cfg.DBType.
func NewRepositories(ctx context.Context, cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "file":
		s, err := NewFileStorage(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	case "sqlite":
		s, err := NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	case "postgres":
		s, err := NewPostgresStorage(ctx, cfg.DBDSN, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	case "mongo":
		s, err := NewMongoStorage(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
