package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/server/respond"
	"finance-advisor/internal/shared/telemetry"
)

const sessionCookie = "advisor_session"

// Handler serves the form page and the per-session output surface.
type Handler struct {
	Sessions *SessionStore
	polls    *pollLimiter
	// Secure marks the session cookie Secure.
	Secure bool
}

// NewHandler constructs a Handler.
func NewHandler(sessions *SessionStore) *Handler {
	h := &Handler{
		Sessions: sessions,
		polls:    newPollLimiter(pollLimitWindow, nil),
	}
	sessions.onEvict = h.polls.Forget
	return h
}

// RegisterRoutes attaches the form routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.POST("/submit", h.submit)
	r.GET("/output", h.output)
	r.GET("/healthz", h.healthz)
}

func (h *Handler) index(c *gin.Context) {
	sess := h.session(c)
	page, err := renderPage(sess.LastInput(), sess.Surface.HTML(), sess.Pending(), h.polls.RetryAfterSeconds())
	if err != nil {
		telemetry.Error("web.render_page_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render page", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *Handler) submit(c *gin.Context) {
	sess := h.session(c)
	in := plan.FormInput{
		Income:      c.PostForm("income"),
		Expenses:    c.PostForm("expenses"),
		SavingsGoal: c.PostForm("savings_goal"),
		Debt:        c.PostForm("debt"),
		RiskLevel:   c.PostForm("risk"),
	}
	sess.Submit(context.WithoutCancel(c.Request.Context()), in)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) output(c *gin.Context) {
	sess := h.session(c)
	if !h.polls.Allow(sess.ID) {
		c.Header("Retry-After", strconv.Itoa(h.polls.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "polling too fast", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	respond.OK(c, gin.H{
		"html":    sess.Surface.HTML(),
		"pending": sess.Pending(),
	})
}

func (h *Handler) healthz(c *gin.Context) {
	respond.OK(c, gin.H{"ok": true, "sessions": h.Sessions.Len()})
}

func (h *Handler) session(c *gin.Context) *Session {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		if sess, ok := h.Sessions.Lookup(id); ok {
			return sess
		}
	}
	sess := h.Sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, int(h.Sessions.TTL().Seconds()), "/", "", h.Secure, true)
	return sess
}
