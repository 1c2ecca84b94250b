package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"finance-advisor/internal/plan"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new plan.
func (r *PGRepo) Create(ctx context.Context, p Plan) error {
	const query = `
INSERT INTO plans (
	id, income, expenses, savings_goal, debt, risk_level, advice, provider, model, prompt_hash, duration_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	expenses, err := marshalExpenses(p.Expenses)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.Income,
		expenses,
		p.SavingsGoal,
		p.Debt,
		p.RiskLevel,
		p.Advice,
		p.Provider,
		p.Model,
		p.PromptHash,
		p.DurationMs,
		p.CreatedAt,
	)
	return err
}

// GetByID returns a plan by ID.
func (r *PGRepo) GetByID(ctx context.Context, planID string) (Plan, error) {
	const query = `
SELECT id, income, expenses, savings_goal, debt, risk_level, advice, provider, model, prompt_hash, duration_ms, created_at
FROM plans
WHERE id = $1
LIMIT 1`
	p, err := scanPlan(r.DB.QueryRowContext(ctx, query, planID))
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	return p, err
}

// List returns plans newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Plan, error) {
	const query = `
SELECT id, income, expenses, savings_goal, debt, risk_level, advice, provider, model, prompt_hash, duration_ms, created_at
FROM plans
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (Plan, error) {
	var p Plan
	var expenses []byte
	var provider, model, promptHash sql.NullString
	if err := row.Scan(
		&p.ID,
		&p.Income,
		&expenses,
		&p.SavingsGoal,
		&p.Debt,
		&p.RiskLevel,
		&p.Advice,
		&provider,
		&model,
		&promptHash,
		&p.DurationMs,
		&p.CreatedAt,
	); err != nil {
		return Plan{}, err
	}
	p.Provider = provider.String
	p.Model = model.String
	p.PromptHash = promptHash.String
	p.Expenses = plan.ExpenseMap{}
	if len(expenses) > 0 {
		if err := json.Unmarshal(expenses, &p.Expenses); err != nil {
			return Plan{}, err
		}
	}
	return p, nil
}

func marshalExpenses(expenses plan.ExpenseMap) ([]byte, error) {
	if expenses == nil {
		expenses = plan.ExpenseMap{}
	}
	return json.Marshal(expenses)
}
