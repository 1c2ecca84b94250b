package web

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/telemetry"
	"finance-advisor/internal/submission"
)

const DefaultSessionTTL = 60 * time.Minute

// Session is one browser's form state and output surface.
type Session struct {
	ID        string
	Surface   *Surface
	Submitter *submission.Submitter

	mu        sync.Mutex
	lastInput plan.FormInput
	lastSeen  time.Time

	requested atomic.Uint64
	wg        sync.WaitGroup
}

// Pending reports whether the latest submission has not finished yet.
func (s *Session) Pending() bool {
	if s.requested.Load() > s.Submitter.Generation() {
		return true
	}
	return s.Submitter.InFlight()
}

// LastInput returns the most recently submitted form values.
func (s *Session) LastInput() plan.FormInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInput
}

// Submit starts a submission in the background.
func (s *Session) Submit(ctx context.Context, in plan.FormInput) {
	s.mu.Lock()
	s.lastInput = in
	s.mu.Unlock()

	s.requested.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Submitter.Submit(ctx, in)
	}()
}

// Wait blocks until every started submission has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore keeps sessions in memory and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	planner  submission.Planner
	renderer advice.Renderer
	onEvict  func(id string)
}

// NewSessionStore returns a store whose sessions submit through planner and render with renderer.
func NewSessionStore(planner submission.Planner, renderer advice.Renderer, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		planner:  planner,
		renderer: renderer,
	}
}

// Lookup returns an existing session.
func (st *SessionStore) Lookup(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if ok {
		sess.touch(st.now())
	}
	return sess, ok
}

// Create starts a new session with an empty surface.
func (st *SessionStore) Create() *Session {
	surface := &Surface{}
	sess := &Session{
		ID:        uuid.NewString(),
		Surface:   surface,
		Submitter: submission.New(st.planner, st.renderer, surface),
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	sess.touch(st.now())
	st.sessions[sess.ID] = sess
	return sess
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// TTL reports the idle lifetime of a session.
func (st *SessionStore) TTL() time.Duration { return st.ttl }

// Sweep removes sessions idle longer than the TTL that have nothing in flight.
func (st *SessionStore) Sweep() int {
	now := st.now()
	st.mu.Lock()
	var evicted []string
	for id, sess := range st.sessions {
		if now.Sub(sess.idleSince()) < st.ttl || sess.Pending() {
			continue
		}
		delete(st.sessions, id)
		evicted = append(evicted, id)
	}
	onEvict := st.onEvict
	st.mu.Unlock()

	for _, id := range evicted {
		if onEvict != nil {
			onEvict(id)
		}
	}
	if len(evicted) > 0 {
		telemetry.Info("web.sessions_swept", map[string]any{"evicted": len(evicted)})
	}
	return len(evicted)
}

// RunSweeper sweeps every interval until ctx is done.
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
