package plans

import "context"

// Repo defines persistence operations for plans.
type Repo interface {
	Create(ctx context.Context, p Plan) error
	GetByID(ctx context.Context, planID string) (Plan, error)
	List(ctx context.Context, limit, offset int) ([]Plan, error)
}
