package plans

import (
	"context"
	"errors"

	"finance-advisor/internal/plan"
)

type stubPlanner struct {
	advice string
	err    error
	got    []plan.PlanRequest
}

func (s *stubPlanner) GeneratePlan(_ context.Context, req plan.PlanRequest) (string, error) {
	s.got = append(s.got, req)
	return s.advice, s.err
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(context.Context, Plan) error {
	return errors.New("db down")
}
