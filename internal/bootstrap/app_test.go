package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"finance-advisor/internal/shared/config"
)

func testConfig() config.Config {
	return config.Config{
		Env:                    "dev",
		CORSAllowOrigin:        []string{"*"},
		LLMProvider:            "none",
		PlanRateLimitPerMinute: 1,
	}
}

func TestBuildPlannerWithoutLLM(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := BuildPlanner(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("BuildPlanner: %v", err)
	}
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewBufferString(`{"income":1,"expenses":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/plan", bytes.NewBufferString(`{"income":1,"expenses":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit on second POST, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(resp.Body.String(), "plan_requested_total") {
		t.Fatalf("expected metrics output, got %q", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health should not be rate limited, got %d", resp.Code)
	}
}

func TestBuildPlannerRequiresGeminiKeyOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.LLMProvider = "gemini"
	if _, err := BuildPlanner(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
}

func TestWebTalksToPlanner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	planner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"final_output":"# Plan"}`))
	}))
	defer planner.Close()

	cfg := testConfig()
	cfg.PlannerBaseURL = planner.URL
	app := BuildWeb(cfg)
	if app.Client == nil || app.Client.BaseURL() != planner.URL {
		t.Fatalf("expected planclient wired to %s", planner.URL)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := resp.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("income=10&risk=high"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}

	sess, ok := app.Sessions.Lookup(cookies[0].Value)
	if !ok {
		t.Fatalf("session missing")
	}
	sess.Wait()
	if !strings.Contains(sess.Surface.HTML(), "<h1") || !strings.Contains(sess.Surface.HTML(), "Plan") {
		t.Fatalf("unexpected surface %q", sess.Surface.HTML())
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "8000": ":8000", ":9000": ":9000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
