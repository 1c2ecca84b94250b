package bootstrap

import (
	"github.com/gin-gonic/gin"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/planclient"
	"finance-advisor/internal/shared/config"
	"finance-advisor/internal/submission"
	"finance-advisor/internal/web"
)

// WebApp holds the form front end dependencies.
type WebApp struct {
	Config   config.Config
	Router   *gin.Engine
	Client   *planclient.Client
	Sessions *web.SessionStore
	Handler  *web.Handler
}

// BuildWeb wires the form front end to the planning service at cfg.PlannerBaseURL.
func BuildWeb(cfg config.Config) *WebApp {
	client := planclient.NewClient(cfg.PlannerBaseURL, cfg.PlannerTimeout)
	return BuildWebWithPlanner(cfg, client)
}

// BuildWebWithPlanner wires the front end to an arbitrary planner.
func BuildWebWithPlanner(cfg config.Config, planner submission.Planner) *WebApp {
	renderer := advice.NewRenderer(advice.NewHTMLMarkdown(), nil)
	renderer.CleanFallback = cfg.CleanFallback

	sessions := web.NewSessionStore(planner, *renderer, cfg.SessionTTL)
	h := web.NewHandler(sessions)
	h.Secure = cfg.Env == "production"

	r := newEngine(cfg)
	h.RegisterRoutes(r)

	app := &WebApp{
		Config:   cfg,
		Router:   r,
		Sessions: sessions,
		Handler:  h,
	}
	if c, ok := planner.(*planclient.Client); ok {
		app.Client = c
	}
	return app
}
