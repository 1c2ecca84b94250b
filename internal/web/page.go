package web

import (
	"bytes"
	"embed"
	"html/template"

	"finance-advisor/internal/plan"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var riskLevels = []string{"low", "medium", "high"}

const defaultRisk = "medium"

type pageData struct {
	Input          plan.FormInput
	RiskLevels     []string
	SelectedRisk   string
	Output         template.HTML
	Pending        bool
	RefreshSeconds int
}

// renderPage executes the form page. output must already be sanitized.
func renderPage(in plan.FormInput, output string, pending bool, refresh int) ([]byte, error) {
	selected := in.RiskLevel
	if selected == "" {
		selected = defaultRisk
	}
	if refresh <= 0 {
		refresh = 1
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Input:          in,
		RiskLevels:     riskLevels,
		SelectedRisk:   selected,
		Output:         template.HTML(output),
		Pending:        pending,
		RefreshSeconds: refresh,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
