// Package submission runs a form submission end to end and keeps overlapping
// submissions from overwriting each other's output.
package submission

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/telemetry"
)

// Planner sends a plan request and returns the raw reply body.
type Planner interface {
	RequestPlan(ctx context.Context, req plan.PlanRequest) (json.RawMessage, error)
}

// Outcome describes how one submission finished.
type Outcome struct {
	Generation uint64
	HTML       string
	// Stale is set when a newer submission started before this one finished.
	// Stale output is never written to the sink.
	Stale bool
	Err   error
}

// Submitter owns one output surface. Only the latest submission may write to it.
type Submitter struct {
	planner  Planner
	renderer advice.Renderer
	sink     advice.OutputSink

	mu       sync.Mutex
	gen      uint64
	inFlight bool
}

// New returns a Submitter writing through a copy of r to sink.
func New(p Planner, r advice.Renderer, sink advice.OutputSink) *Submitter {
	return &Submitter{planner: p, renderer: r, sink: sink}
}

// Submit builds the request, shows the pending notice, calls the planner and
// renders the reply. Invalid numeric input never reaches the planner.
func (s *Submitter) Submit(ctx context.Context, in plan.FormInput) Outcome {
	gen := s.begin()
	r := s.renderer
	r.Sink = advice.SinkFunc(func(html string) { s.showIfCurrent(gen, html) })

	out := Outcome{Generation: gen}
	start := time.Now()
	defer func() {
		out.Stale = s.finish(gen)
		telemetry.Info("submission.finished", map[string]any{
			"generation":  gen,
			"stale":       out.Stale,
			"failed":      out.Err != nil,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	req, err := plan.Build(in)
	if err != nil {
		out.Err = err
		out.HTML = r.ShowInvalidInput(err)
		return out
	}

	r.ShowPending()

	raw, err := s.planner.RequestPlan(ctx, req)
	if err != nil {
		telemetry.Warn("submission.transport_error", map[string]any{
			"generation": gen,
			"error":      err.Error(),
		})
		out.Err = err
		out.HTML = r.ShowTransportError(err)
		return out
	}

	out.HTML = r.Render(raw)
	return out
}

// InFlight reports whether the latest submission is still running.
func (s *Submitter) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Generation returns the number of submissions started so far.
func (s *Submitter) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Submitter) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inFlight = true
	return s.gen
}

// finish reports whether gen was superseded.
func (s *Submitter) finish(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return true
	}
	s.inFlight = false
	return false
}

func (s *Submitter) showIfCurrent(gen uint64, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.sink == nil {
		return
	}
	s.sink.Show(html)
}
