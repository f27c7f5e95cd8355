package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/extract"
	"findmyjob-backend/internal/jobs"
	"findmyjob-backend/internal/jobs/adzuna"
	"findmyjob-backend/internal/jobs/naukri"
	"findmyjob-backend/internal/matching"
	"findmyjob-backend/internal/queue"
	"findmyjob-backend/internal/resumes"
	"findmyjob-backend/internal/scans"
	"findmyjob-backend/internal/shared/cache"
	"findmyjob-backend/internal/shared/config"
	"findmyjob-backend/internal/shared/server"
	"findmyjob-backend/internal/shared/storage/db"
	"findmyjob-backend/internal/shared/storage/object"
	localstore "findmyjob-backend/internal/shared/storage/object/local"
	s3store "findmyjob-backend/internal/shared/storage/object/s3"
	"findmyjob-backend/internal/shared/telemetry"
	"findmyjob-backend/internal/skills"
	"findmyjob-backend/internal/web"
)

const (
	cacheKeyPrefix  = "findmyjob:"
	memoryCacheSize = 512
)

// App holds shared dependencies and the wired router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.Store
	Cache          cache.Cache
	Queue          queue.Client
	Searcher       *jobs.Searcher
	ResumesRepo    resumes.Repo
	ScansRepo      scans.Repo
	ResumesService *resumes.Service
	ScansService   *scans.Service
	ResumesHandler *resumes.Handler
	ScansHandler   *scans.Handler
	WebHandler     *web.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.SetLevel(cfg.LogLevel)
	if cfg.MaxUploadBytes > 0 {
		extract.MaxExpandedBytes = 8 * cfg.MaxUploadBytes
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Cache:  buildCache(ctx, cfg),
		Queue:  queueClient,
	}

	searcher, err := buildSearcher(cfg, app.Cache)
	if err != nil {
		return nil, err
	}
	app.Searcher = searcher

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		ResumesHandler: app.ResumesHandler,
		ScansHandler:   app.ScansHandler,
		WebHandler:     app.WebHandler,
	})

	return app, nil
}

// Close waits for background scans and releases the cache and database.
func (a *App) Close() error {
	if a.ScansService != nil {
		a.ScansService.Wait()
	}
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.RuntimeProfile())
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.QueueURL)
}

// buildCache prefers Redis and falls back to process memory.
func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{URL: cfg.RedisURL, Password: cfg.RedisPassword}, cacheKeyPrefix)
		if err == nil {
			return rc
		}
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
	}
	return cache.NewMemory(memoryCacheSize)
}

func buildSearcher(cfg config.Config, c cache.Cache) (*jobs.Searcher, error) {
	js := cfg.JobSearch
	httpClient := &http.Client{Timeout: js.Timeout}

	var providers []jobs.Provider
	if js.NaukriEnabled {
		p, err := naukri.NewProvider(naukri.NewClient(naukri.Config{
			BaseURL:    js.NaukriBaseURL,
			HTTPClient: httpClient,
		}))
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if js.AdzunaAppID != "" && js.AdzunaAppKey != "" {
		client, err := adzuna.NewClient(adzuna.Config{
			AppID:      js.AdzunaAppID,
			AppKey:     js.AdzunaAppKey,
			Country:    js.AdzunaCountry,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		p, err := adzuna.NewProvider(client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	telemetry.Info("bootstrap.job_providers", map[string]any{"providers": names})

	return jobs.NewSearcher(providers, jobs.SearcherOptions{
		Cache:    c,
		CacheTTL: js.CacheTTL,
		Timeout:  js.Timeout,
		Defaults: jobs.Query{
			Location:   js.Location,
			Experience: js.Experience,
			Pages:      js.Pages,
		},
	}), nil
}

func buildServices(app *App) error {
	var resumeRepo resumes.Repo
	var scanRepo scans.Repo

	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		scanRepo = &scans.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		scanRepo = scans.NewMemoryRepo()
	}

	jobDB, err := matching.DefaultDatabase()
	if err != nil {
		return fmt.Errorf("load job database: %w", err)
	}

	resumeSvc := resumes.NewService(app.Store, resumeRepo, app.Config.MaxUploadBytes)
	scanSvc := &scans.Service{
		Resumes:  resumeSvc,
		Repo:     scanRepo,
		Skills:   skills.NewExtractor(skills.DefaultCatalog()),
		Matcher:  matching.NewMatcher(jobDB, matching.DefaultTopN),
		Searcher: app.Searcher,
		Queue:    app.Queue,
	}

	webHandler, err := web.NewHandler(scanSvc, app.Config.WebUploadEnabled, app.Config.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	app.ResumesRepo = resumeRepo
	app.ScansRepo = scanRepo
	app.ResumesService = resumeSvc
	app.ScansService = scanSvc
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.ScansHandler = scans.NewHandler(scanSvc, app.Config.MaxUploadBytes)
	app.WebHandler = webHandler

	return nil
}
