package llm

import (
	"context"
	"errors"

	"finance-advisor/internal/plan"
)

// Planner abstracts LLM providers that turn a financial snapshot into Markdown advice.
type Planner interface {
	GeneratePlan(ctx context.Context, req plan.PlanRequest) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// GeneratePlan returns ErrNotImplemented.
func (PlaceholderClient) GeneratePlan(ctx context.Context, req plan.PlanRequest) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotImplemented
}
