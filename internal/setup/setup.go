// Package setup builds the process-wide application state: configuration,
// logger, connection pool, caches, external clients, and the pipeline service.
// Construction happens once at startup; Close tears everything down.
package setup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/variant-context-server/internal/api"
	"github.com/variant-context-server/internal/config"
	"github.com/variant-context-server/internal/database"
	"github.com/variant-context-server/internal/domain"
	"github.com/variant-context-server/internal/repository"
	"github.com/variant-context-server/internal/service"
	"github.com/variant-context-server/pkg/external"
)

// App holds the process-wide state shared by all request handlers.
type App struct {
	Config  *domain.Config
	Log     *logrus.Logger
	Server  *api.Server
	Service *service.VariantContextService

	db    *database.DB
	cache *external.AnnotationCache
	store repository.ScoreStore
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Output == "stderr" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(os.Stdout)
	}

	return log
}

// NewApp loads configuration and constructs the full application.
func NewApp(ctx context.Context) (*App, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	cfg := manager.GetConfig()

	log := NewLogger(cfg.Logging)

	app := &App{Config: cfg, Log: log}
	if err := app.build(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	// Annotation response cache (optional).
	if cfg.Cache.Enabled {
		cache, err := external.NewAnnotationCache(cfg.Cache)
		if err != nil {
			return fmt.Errorf("building annotation cache: %w", err)
		}
		a.cache = cache
	}

	vepClient := external.NewVEPClient(external.VEPConfig{
		BaseURL:   cfg.Annotation.BaseURL,
		Species:   cfg.Annotation.Species,
		Timeout:   cfg.Annotation.Timeout,
		RateLimit: cfg.Annotation.RateLimit,
	})
	annotations := external.NewResilientAnnotationClient(vepClient, a.cache, a.Log)

	pathways, err := a.buildPathwayResolver()
	if err != nil {
		return err
	}

	scores, err := a.buildScoreSource(ctx)
	if err != nil {
		return err
	}

	a.Service = service.NewVariantContextService(annotations, pathways, scores, cfg.Assembly, a.Log)

	checkers := map[string]api.HealthChecker{}
	if a.db != nil {
		checkers["database"] = a.db
	}
	if a.cache != nil {
		checkers["cache"] = a.cache
	}
	a.Server = api.NewServer(cfg, a.Service, checkers, a.Log)

	return nil
}

func (a *App) buildPathwayResolver() (service.PathwayResolver, error) {
	cfg := a.Config.Pathways
	switch cfg.Strategy {
	case domain.PathwayStrategyMap:
		resolver, err := service.LoadMapPathwayResolver(cfg.MapFile, a.Log)
		if err != nil {
			return nil, fmt.Errorf("building pathway map resolver: %w", err)
		}
		return resolver, nil
	case domain.PathwayStrategyExternal:
		client := external.NewReactomeClient(external.ReactomeConfig{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
		})
		resolver, err := service.NewExternalPathwayResolver(client, cfg.CacheSize, a.Log)
		if err != nil {
			return nil, fmt.Errorf("building external pathway resolver: %w", err)
		}
		return resolver, nil
	default:
		return nil, fmt.Errorf("unknown pathway strategy: %s", cfg.Strategy)
	}
}

func (a *App) buildScoreSource(ctx context.Context) (service.ScoreSource, error) {
	cfg := a.Config
	switch cfg.Scores.Source {
	case domain.ScoreSourceDisabled:
		return nil, nil
	case domain.ScoreSourceEmbedded:
		return service.NewEmbeddedScoreSource(a.Log), nil
	case domain.ScoreSourcePostgres:
		db, err := database.NewConnection(ctx, cfg.Database, a.Log)
		if err != nil {
			return nil, fmt.Errorf("connecting to score database: %w", err)
		}
		a.db = db
		store, err := repository.NewPostgresScoreStore(db.SQL(), cfg.Scores.Table, cfg.Scores.LookupTimeout, a.Log)
		if err != nil {
			return nil, fmt.Errorf("building postgres score store: %w", err)
		}
		a.store = store
		return service.NewStoreScoreSource(store, a.Log), nil
	case domain.ScoreSourceSQLite:
		store, err := repository.NewSQLiteScoreStore(cfg.Scores.SQLitePath, cfg.Scores.Table, cfg.Scores.LookupTimeout, a.Log)
		if err != nil {
			return nil, fmt.Errorf("building sqlite score store: %w", err)
		}
		a.store = store
		return service.NewStoreScoreSource(store, a.Log), nil
	default:
		return nil, fmt.Errorf("unknown score source: %s", cfg.Scores.Source)
	}
}

// Close releases all process-wide resources.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.WithError(err).Warn("Closing score store failed")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.WithError(err).Warn("Closing annotation cache failed")
		}
	}
}
