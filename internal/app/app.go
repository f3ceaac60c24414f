// Package app assembles the storage backend, quota, report generator,
// voice sessions and HTTP server into one runnable process.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/api"
	"github.com/yourname/renescens/internal/auth"
	"github.com/yourname/renescens/internal/catalog"
	"github.com/yourname/renescens/internal/config"
	"github.com/yourname/renescens/internal/llm"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/service"
	"github.com/yourname/renescens/internal/storage"
)

const sweepEvery = 30 * time.Second

type App struct {
	cfg      *config.Config
	logger   internal.Logger
	loc      *time.Location
	repos    *storage.Repositories
	catalog  *catalog.Catalog
	analyses *service.AnalysisService
	sessions *pitch.Registry
	redis    *redis.Client
	provider auth.Provider
	httpSrv  *http.Server
}

func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (*App, error) {
	repos, err := storage.NewRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		logger:   logger,
		loc:      cfg.Location(),
		repos:    repos,
		catalog:  catalog.Default(),
		sessions: pitch.NewRegistry(cfg.VoiceSessionIdle),
	}

	var quota service.Quota
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, err
		}
		quota = service.NewRedisQuota(a.redis, cfg.MonthlyAnalysisLimit, a.loc)
		logger.Infof("analysis quota backed by redis at %s", cfg.RedisAddr)
	} else {
		quota = service.NewRepositoryQuota(repos.Analyses, cfg.MonthlyAnalysisLimit, a.loc)
	}

	a.analyses = &service.AnalysisService{
		Repo:     repos.Analyses,
		Quota:    quota,
		Location: a.loc,
		Logger:   logger,
	}
	if cfg.OpenAIKey != "" {
		a.analyses.Completer = llm.New(llm.Config{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}, logger)
	} else {
		logger.Warnf("OPENAI_API_KEY not set, analyses use the built-in report")
	}

	if cfg.Env == "development" {
		p, err := auth.LoadLocalAuthProvider(cfg.UsersFile, logger)
		if err != nil {
			a.close()
			return nil, err
		}
		a.provider = p
	} else {
		a.provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}

	a.httpSrv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(a, a.provider, cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return a, nil
}

func (a *App) Logger() internal.Logger            { return a.logger }
func (a *App) Repos() *storage.Repositories       { return a.repos }
func (a *App) Catalog() *catalog.Catalog          { return a.catalog }
func (a *App) Analyses() *service.AnalysisService { return a.analyses }
func (a *App) Sessions() *pitch.Registry          { return a.sessions }
func (a *App) Location() *time.Location           { return a.loc }
func (a *App) Handler() http.Handler              { return a.httpSrv.Handler }

// Run serves HTTP until ctx is cancelled, then shuts down and flushes the
// storage backend.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("starting renescens env=%s http=%s storage=%s", a.cfg.Env, a.cfg.HTTPAddr, a.cfg.DBType)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		a.sessions.Run(sweepCtx, sweepEvery, func(n int) {
			a.logger.Infof("released %d idle voice sessions", n)
		})
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof("shutdown signal received")
	case err := <-errCh:
		runErr = err
		a.logger.Errorf("http server error: %v", err)
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.httpSrv.Shutdown(shCtx); err != nil {
		a.logger.Warnf("http server shutdown error: %v", err)
	}
	cancel()

	stopSweep()
	<-sweepDone
	a.close()
	return runErr
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warnf("redis close: %v", err)
		}
	}
	if err := a.repos.Close(); err != nil {
		a.logger.Errorf("storage close: %v", err)
	}
}

var _ api.App = (*App)(nil)
