package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"finance-advisor/internal/llm"
	"finance-advisor/internal/llm/gemini"
	"finance-advisor/internal/plans"
	"finance-advisor/internal/shared/config"
	"finance-advisor/internal/shared/metrics"
	"finance-advisor/internal/shared/server/middleware"
	"finance-advisor/internal/shared/storage/db"
)

const planRateLimitGroup = "PLAN"

// PlannerApp holds the planning service dependencies.
type PlannerApp struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	PlansRepo    plans.Repo
	PlanService  *plans.Service
	PlansHandler *plans.Handler
	Planner      llm.Planner
}

// BuildPlanner prepares the planning service and its router.
func BuildPlanner(ctx context.Context, cfg config.Config) (*PlannerApp, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	planner, model, err := buildPlanner(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo plans.Repo
	if sqlDB != nil {
		repo = &plans.PGRepo{DB: sqlDB}
	} else {
		repo = plans.NewMemoryRepo()
	}

	svc := plans.NewService(repo, planner, cfg.LLMProvider, model)
	app := &PlannerApp{
		Config:       cfg,
		DB:           sqlDB,
		PlansRepo:    repo,
		PlanService:  svc,
		PlansHandler: plans.NewHandler(svc),
		Planner:      planner,
	}
	app.Router = newPlannerRouter(cfg, app.PlansHandler)
	return app, nil
}

// Close releases the database pool, if any.
func (a *PlannerApp) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func newPlannerRouter(cfg config.Config, h *plans.Handler) *gin.Engine {
	r := newEngine(cfg)
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			planRateLimitGroup: middleware.PerMinute(cfg.PlanRateLimitPerMinute),
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == "POST" && c.FullPath() == "/plan" {
				return planRateLimitGroup
			}
			return ""
		},
	}))
	h.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())
	return r
}

func buildPlanner(ctx context.Context, cfg config.Config) (llm.Planner, string, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: GEMINI_API_KEY empty; advice generation disabled")
				return llm.PlaceholderClient{}, "", nil
			}
			return nil, "", fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTemperature)
		if err != nil {
			return nil, "", err
		}
		return client, client.Model(), nil
	default:
		return llm.PlaceholderClient{}, "", nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory plan history")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory plan history: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory plan history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
