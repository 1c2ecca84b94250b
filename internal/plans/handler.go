package plans

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance-advisor/internal/llm"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/server/middleware"
	"finance-advisor/internal/shared/server/respond"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler wires HTTP handlers to the plans service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type planRequestBody struct {
	Income      *float64           `json:"income" binding:"required"`
	Expenses    map[string]float64 `json:"expenses" binding:"required"`
	SavingsGoal float64            `json:"savings_goal"`
	Debt        float64            `json:"debt"`
	RiskLevel   *string            `json:"risk_level"`
}

func (b planRequestBody) toRequest() plan.PlanRequest {
	req := plan.PlanRequest{
		Income:      *b.Income,
		Expenses:    plan.ExpenseMap(b.Expenses),
		SavingsGoal: b.SavingsGoal,
		Debt:        b.Debt,
		RiskLevel:   DefaultRiskLevel,
	}
	if b.RiskLevel != nil {
		req.RiskLevel = *b.RiskLevel
	}
	return req
}

// RegisterRoutes attaches the plan routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.root)
	r.GET("/health", h.health)
	r.POST("/plan", h.createPlan)
	r.GET("/plans", h.listPlans)
	r.GET("/plans/:id", h.getPlan)
}

func (h *Handler) root(c *gin.Context) {
	respond.OK(c, gin.H{"message": "AI Personal Finance Advisor API is running 🚀"})
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "ok"})
}

func (h *Handler) createPlan(c *gin.Context) {
	var body planRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeValidation, "invalid plan request", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}

	p, err := h.Svc.Generate(c.Request.Context(), body.toRequest())
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotImplemented):
			respond.Error(c, http.StatusServiceUnavailable, ErrorCodeLLMUnavailable, "advice generation is not configured", nil)
		default:
			respond.Error(c, http.StatusBadGateway, ErrorCodeLLMFailed, "failed to generate advice", nil)
		}
		return
	}
	c.Set(middleware.PlanIDKey, p.ID)

	respond.OK(c, gin.H{
		"advice":      p.Advice,
		"budget_plan": p.Expenses,
		"plan_id":     p.ID,
	})
}

func (h *Handler) getPlan(c *gin.Context) {
	planID := c.Param("id")
	c.Set(middleware.PlanIDKey, planID)

	p, err := h.Svc.Get(c.Request.Context(), planID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "plan not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch plan", nil)
		}
		return
	}
	respond.OK(c, p)
}

func (h *Handler) listPlans(c *gin.Context) {
	limit := defaultListLimit
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	plans, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list plans", nil)
		return
	}

	resp := make([]gin.H, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, gin.H{
			"id":         p.ID,
			"income":     p.Income,
			"risk_level": p.RiskLevel,
			"provider":   p.Provider,
			"model":      p.Model,
			"created_at": p.CreatedAt,
		})
	}
	respond.OK(c, resp)
}
