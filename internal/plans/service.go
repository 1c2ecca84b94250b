package plans

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-advisor/internal/llm"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/metrics"
	"finance-advisor/internal/shared/telemetry"
)

const DefaultRiskLevel = "medium"

// Service contains the plan generation logic.
type Service struct {
	Repo     Repo
	LLM      llm.Planner
	Provider string
	Model    string
	now      func() time.Time
}

// NewService constructs a Service. A nil planner falls back to the placeholder.
func NewService(repo Repo, planner llm.Planner, provider, model string) *Service {
	if planner == nil {
		planner = llm.PlaceholderClient{}
	}
	return &Service{Repo: repo, LLM: planner, Provider: provider, Model: model, now: time.Now}
}

// Generate asks the planner for advice on req and stores the result.
// A storage failure is logged and counted but the plan is still returned.
func (s *Service) Generate(ctx context.Context, req plan.PlanRequest) (Plan, error) {
	metrics.IncPlanRequested()
	if req.Expenses == nil {
		req.Expenses = plan.ExpenseMap{}
	}
	req.RiskLevel = strings.TrimSpace(req.RiskLevel)
	if req.RiskLevel == "" {
		req.RiskLevel = DefaultRiskLevel
	}

	start := time.Now()
	advice, err := s.LLM.GeneratePlan(ctx, req)
	duration := metrics.Since(start)
	metrics.ObservePlanDurationMs(duration)
	if err != nil {
		metrics.IncPlanFailed()
		level := telemetry.Error
		if errors.Is(err, llm.ErrNotImplemented) {
			level = telemetry.Warn
		}
		level("plan.generate_failed", map[string]any{
			"provider":    s.Provider,
			"model":       s.Model,
			"duration_ms": int64(duration),
			"error":       err.Error(),
		})
		return Plan{}, err
	}

	p := Plan{
		ID:          uuid.NewString(),
		Income:      req.Income,
		Expenses:    req.Expenses,
		SavingsGoal: req.SavingsGoal,
		Debt:        req.Debt,
		RiskLevel:   req.RiskLevel,
		Advice:      advice,
		Provider:    s.Provider,
		Model:       s.Model,
		PromptHash:  llm.PromptHash(),
		DurationMs:  int64(duration),
		CreatedAt:   s.clock().UTC(),
	}
	metrics.IncPlanCompleted()

	if s.Repo != nil {
		if err := s.Repo.Create(ctx, p); err != nil {
			metrics.IncPlanStoreError()
			telemetry.Error("plan.store_failed", map[string]any{
				"plan_id": p.ID,
				"error":   err.Error(),
			})
		}
	}

	telemetry.Info("plan.generated", map[string]any{
		"plan_id":     p.ID,
		"provider":    p.Provider,
		"model":       p.Model,
		"risk_level":  p.RiskLevel,
		"duration_ms": p.DurationMs,
		"advice_len":  len(p.Advice),
	})
	return p, nil
}

// Get returns a stored plan.
func (s *Service) Get(ctx context.Context, planID string) (Plan, error) {
	if s.Repo == nil {
		return Plan{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, planID)
}

// List returns stored plans newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Plan, error) {
	if s.Repo == nil {
		return []Plan{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
