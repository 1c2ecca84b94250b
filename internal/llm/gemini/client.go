package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"finance-advisor/internal/llm"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/telemetry"
)

const (
	DefaultModel       = "gemini-2.0-flash"
	DefaultTemperature = 0.3
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client runs the budget and investment tasks against Gemini.
type Client struct {
	models      contentGenerator
	model       string
	temperature float32
}

// New builds a client backed by the Gemini API.
func New(ctx context.Context, apiKey, model string, temperature float64) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newWithGenerator(gc.Models, model, temperature), nil
}

func newWithGenerator(models contentGenerator, model string, temperature float64) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if temperature < 0 {
		temperature = DefaultTemperature
	}
	return &Client{models: models, model: model, temperature: float32(temperature)}
}

// Model reports the configured model name.
func (c *Client) Model() string { return c.model }

// GeneratePlan runs each task in order and joins their Markdown sections.
func (c *Client) GeneratePlan(ctx context.Context, req plan.PlanRequest) (string, error) {
	tasks := llm.PlanTasks(req)
	sections := make([]string, 0, len(tasks))
	previous := ""
	for _, task := range tasks {
		start := time.Now()
		out, err := c.run(ctx, task, previous)
		if err != nil {
			telemetry.Error("llm.task_failed", map[string]any{
				"task":  task.Title,
				"model": c.model,
				"error": err.Error(),
			})
			return "", fmt.Errorf("%s: %w", task.Title, err)
		}
		telemetry.Info("llm.task_completed", map[string]any{
			"task":        task.Title,
			"model":       c.model,
			"duration_ms": time.Since(start).Milliseconds(),
			"chars":       len(out),
		})
		sections = append(sections, fmt.Sprintf("## %s\n\n%s", task.Title, out))
		previous = out
	}
	return strings.Join(sections, "\n\n"), nil
}

func (c *Client) run(ctx context.Context, task llm.Task, previous string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(task.Prompt(previous), genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(task.Agent.SystemInstruction(), genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("empty response")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

var _ llm.Planner = (*Client)(nil)
