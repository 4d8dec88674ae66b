package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/analyses"
	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/disease"
	"skin-health-backend/internal/reports"
	"skin-health-backend/internal/services/health"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/config"
	"skin-health-backend/internal/shared/server"
	"skin-health-backend/internal/shared/server/middleware"
	"skin-health-backend/internal/shared/storage/object"
	localstore "skin-health-backend/internal/shared/storage/object/local"
	s3store "skin-health-backend/internal/shared/storage/object/s3"
	"skin-health-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Store           object.ObjectStore
	Knowledge       *disease.KnowledgeBase
	Classifier      *classifier.Classifier
	Results         *session.Store[analyses.Result]
	Limiter         *middleware.RateLimiter
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Renderer        *reports.Renderer
	ReportHandler   *reports.Handler
	Health          *health.Service
}

// Build wires every component from cfg around an already opened model
// backend. The backend is owned by the caller.
func Build(cfg config.Config, backend classifier.Backend) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if backend == nil {
		return nil, errors.New("bootstrap: classifier backend is required")
	}
	ctx := context.Background()

	kb, err := buildKnowledge(cfg)
	if err != nil {
		return nil, err
	}

	clf, err := classifier.New(backend, cfg.InferenceTimeout)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := reports.NewRenderer(store)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Store:      store,
		Knowledge:  kb,
		Classifier: clf,
		Results:    session.NewStore[analyses.Result](cfg.SessionTTL, nil),
		Limiter:    middleware.NewRateLimiter(nil),
		Renderer:   renderer,
	}
	app.AnalysesService = &analyses.Service{
		Store:      store,
		Naming:     object.NamingFor(cfg.UploadNaming),
		Classifier: clf,
		Knowledge:  kb,
		Results:    app.Results,
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes)
	app.ReportHandler = reports.NewHandler(app.AnalysesService, renderer)
	app.Health = health.NewService(filepath.Base(cfg.ModelPath), cfg.ObjectStoreType, len(disease.All()))

	router, err := server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		ReportHandler:   app.ReportHandler,
		Health:          app.Health,
		Limiter:         app.Limiter,
	})
	if err != nil {
		return nil, err
	}
	app.Router = router

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"object_store":  cfg.ObjectStoreType,
		"upload_naming": cfg.UploadNaming,
		"session_ttl":   cfg.SessionTTL.String(),
		"retention":     cfg.UploadRetention.String(),
	})
	return app, nil
}

func buildKnowledge(cfg config.Config) (*disease.KnowledgeBase, error) {
	if path := strings.TrimSpace(cfg.DiseaseInfoPath); path != "" {
		kb, err := disease.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: knowledge base: %w", err)
		}
		return kb, nil
	}
	kb, err := disease.Default()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: embedded knowledge base: %w", err)
	}
	return kb, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
