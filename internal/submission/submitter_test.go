package submission

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/plan"
)

type recordingSink struct {
	mu    sync.Mutex
	shown []string
}

func (s *recordingSink) Show(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, html)
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shown...)
}

type countingMarkdown struct {
	mu    sync.Mutex
	calls int
}

func (m *countingMarkdown) Render(md string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return "<md>" + md + "</md>", nil
}

type plannerFunc func(ctx context.Context, req plan.PlanRequest) (json.RawMessage, error)

func (f plannerFunc) RequestPlan(ctx context.Context, req plan.PlanRequest) (json.RawMessage, error) {
	return f(ctx, req)
}

func newRenderer(md advice.MarkdownRenderer) advice.Renderer {
	return *advice.NewRenderer(md, nil)
}

func TestSubmitRendersAdvice(t *testing.T) {
	sink := &recordingSink{}
	md := &countingMarkdown{}
	var got plan.PlanRequest
	s := New(plannerFunc(func(_ context.Context, req plan.PlanRequest) (json.RawMessage, error) {
		got = req
		return json.RawMessage(`{"advice":"Save more"}`), nil
	}), newRenderer(md), sink)

	out := s.Submit(context.Background(), plan.FormInput{
		Income:    "50000",
		Expenses:  "rent:15000, food:6000",
		RiskLevel: "medium",
	})

	require.NoError(t, out.Err)
	assert.False(t, out.Stale)
	assert.Equal(t, "<md>Save more</md>", out.HTML)
	assert.Equal(t, []string{advice.HTMLNotices().Pending, "<md>Save more</md>"}, sink.all())
	assert.Equal(t, plan.ExpenseMap{"rent": 15000, "food": 6000}, got.Expenses)
	assert.False(t, s.InFlight())
}

func TestSubmitTransportErrorSkipsMarkdown(t *testing.T) {
	sink := &recordingSink{}
	md := &countingMarkdown{}
	s := New(plannerFunc(func(context.Context, plan.PlanRequest) (json.RawMessage, error) {
		return nil, errors.New("connection refused")
	}), newRenderer(md), sink)

	out := s.Submit(context.Background(), plan.FormInput{Income: "1"})

	require.Error(t, out.Err)
	assert.Equal(t, `<p style="color:red;">Network Error: connection refused</p>`, out.HTML)
	assert.Equal(t, 0, md.calls)
	shown := sink.all()
	assert.Equal(t, out.HTML, shown[len(shown)-1])
}

func TestSubmitInvalidInputSkipsPlanner(t *testing.T) {
	sink := &recordingSink{}
	called := false
	s := New(plannerFunc(func(context.Context, plan.PlanRequest) (json.RawMessage, error) {
		called = true
		return nil, nil
	}), newRenderer(&countingMarkdown{}), sink)

	out := s.Submit(context.Background(), plan.FormInput{Income: "lots"})

	assert.ErrorIs(t, out.Err, plan.ErrInvalidNumber)
	assert.False(t, called)
	assert.Len(t, sink.all(), 1)
	assert.Contains(t, sink.all()[0], "Invalid input")
}

func TestSubmitDiscardsStaleCompletion(t *testing.T) {
	sink := &recordingSink{}
	release := make(chan struct{})
	started := make(chan struct{})
	s := New(plannerFunc(func(_ context.Context, req plan.PlanRequest) (json.RawMessage, error) {
		if req.Income == 1 {
			close(started)
			<-release
			return json.RawMessage(`{"advice":"first"}`), nil
		}
		return json.RawMessage(`{"advice":"second"}`), nil
	}), newRenderer(&countingMarkdown{}), sink)

	firstDone := make(chan Outcome)
	go func() { firstDone <- s.Submit(context.Background(), plan.FormInput{Income: "1"}) }()
	<-started

	second := s.Submit(context.Background(), plan.FormInput{Income: "2"})
	assert.False(t, second.Stale)
	assert.False(t, s.InFlight())

	close(release)
	first := <-firstDone

	assert.True(t, first.Stale)
	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	shown := sink.all()
	assert.Equal(t, "<md>second</md>", shown[len(shown)-1])
	assert.NotContains(t, shown, "<md>first</md>")
	assert.False(t, s.InFlight())
}

func TestSubmitMissingReply(t *testing.T) {
	sink := &recordingSink{}
	md := &countingMarkdown{}
	s := New(plannerFunc(func(context.Context, plan.PlanRequest) (json.RawMessage, error) {
		return json.RawMessage(`null`), nil
	}), newRenderer(md), sink)

	out := s.Submit(context.Background(), plan.FormInput{})
	assert.Equal(t, advice.HTMLNotices().NoResponse, out.HTML)
	assert.Equal(t, 0, md.calls)
}
