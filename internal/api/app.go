package api

import (
	"time"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/catalog"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/service"
	"github.com/yourname/renescens/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Repos() *storage.Repositories
	Catalog() *catalog.Catalog
	Analyses() *service.AnalysisService
	Sessions() *pitch.Registry
	Location() *time.Location
}
