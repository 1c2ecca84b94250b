package plans

import (
	"time"

	"finance-advisor/internal/plan"
)

// Plan is a generated financial plan and the snapshot it was built from.
type Plan struct {
	ID          string          `json:"id"`
	Income      float64         `json:"income"`
	Expenses    plan.ExpenseMap `json:"expenses"`
	SavingsGoal float64         `json:"savings_goal"`
	Debt        float64         `json:"debt"`
	RiskLevel   string          `json:"risk_level"`
	Advice      string          `json:"advice"`
	Provider    string          `json:"provider"`
	Model       string          `json:"model"`
	PromptHash  string          `json:"prompt_hash,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Request returns the snapshot the plan was generated from.
func (p Plan) Request() plan.PlanRequest {
	return plan.PlanRequest{
		Income:      p.Income,
		Expenses:    p.Expenses,
		SavingsGoal: p.SavingsGoal,
		Debt:        p.Debt,
		RiskLevel:   p.RiskLevel,
	}
}
