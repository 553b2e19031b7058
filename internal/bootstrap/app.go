package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"docpipe-backend/internal/chat"
	"docpipe-backend/internal/classify"
	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/extract"
	"docpipe-backend/internal/llm"
	openai "docpipe-backend/internal/llm/openai"
	"docpipe-backend/internal/services/health"
	"docpipe-backend/internal/shared/config"
	"docpipe-backend/internal/shared/server"
	"docpipe-backend/internal/shared/server/middleware"
	"docpipe-backend/internal/shared/storage/db"
	"docpipe-backend/internal/shared/storage/object"
	localstore "docpipe-backend/internal/shared/storage/object/local"
	s3store "docpipe-backend/internal/shared/storage/object/s3"
	"docpipe-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	LLM              llm.Client
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	ChatService      *chat.Service
	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	Health           *health.Service
}

// Option customizes Build. Tests use it to substitute collaborators.
type Option func(*App)

// WithLLM replaces the configured language model client.
func WithLLM(client llm.Client) Option {
	return func(a *App) { a.LLM = client }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
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

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		ChatHandler:     app.ChatHandler,
		Health:          app.Health,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.OpenForRuntime(ctx, cfg.DatabaseURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM never fails on missing credentials: the pipeline runs with
// classification degraded and chat unavailable.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		telemetry.Info("bootstrap.llm_disabled", map[string]any{"provider": cfg.LLMProvider})
		return llm.Unconfigured{}, nil
	}
	client, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
			return llm.Unconfigured{}, nil
		}
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}
	if app.LLM == nil {
		app.LLM = llm.Unconfigured{}
	}
	llmReady := llm.Available(app.LLM)

	docSvc := &documents.Service{
		Repo:           docRepo,
		Store:          app.Store,
		Classifier:     classify.New(app.LLM),
		MaxUploadBytes: app.Config.MaxUploadBytes,
		Extract:        extract.Options{PDFText: app.Config.PDFTextExtraction},
		Features: documents.Features{
			AIAnalysis:        llmReady,
			PDFTextExtraction: app.Config.PDFTextExtraction,
		},
	}
	chatSvc := &chat.Service{Docs: docSvc, LLM: app.LLM}

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.ChatService = chatSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ChatHandler = chat.NewHandler(chatSvc)
	app.Health = health.NewService(app.DB, llmReady, app.Config.ObjectStoreType)

	if app.DocumentsHandler == nil || app.ChatHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
