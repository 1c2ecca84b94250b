package llm

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/util"
)

var (
	//go:embed prompts/budget_task.txt
	budgetTaskPrompt string
	//go:embed prompts/investment_task.txt
	investmentTaskPrompt string
)

// Agent is the persona a task is executed under.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

// SystemInstruction renders the persona as a system prompt.
func (a Agent) SystemInstruction() string {
	return fmt.Sprintf("You are a %s.\nGoal: %s\nBackground: %s", a.Role, a.Goal, a.Backstory)
}

// Task is one unit of work handed to an agent.
type Task struct {
	Title          string
	Agent          Agent
	Description    string
	ExpectedOutput string
}

var (
	BudgetAgent = Agent{
		Role:      "Budget & Savings Analyst",
		Goal:      "Create the monthly budget and savings/debt strategy.",
		Backstory: "Expert in budgeting, financial planning & savings structure.",
	}
	InvestmentAgent = Agent{
		Role:      "Investment Advisor",
		Goal:      "Recommend investments based on risk level.",
		Backstory: "Expert in low-risk and medium-risk investment strategies.",
	}
)

// PromptHash identifies the prompt set so stored plans can be traced to it.
func PromptHash() string {
	return util.Fingerprint(
		BudgetAgent.SystemInstruction(),
		budgetTaskPrompt,
		InvestmentAgent.SystemInstruction(),
		investmentTaskPrompt,
	)
}

// PlanTasks returns the budget task followed by the investment task for req.
func PlanTasks(req plan.PlanRequest) []Task {
	context := BuildContext(req)
	return []Task{
		{
			Title:          "Budget & Savings Plan",
			Agent:          BudgetAgent,
			Description:    context + "\n" + strings.TrimSpace(budgetTaskPrompt),
			ExpectedOutput: "Markdown budget + savings plan.",
		},
		{
			Title:          "Investment Strategy",
			Agent:          InvestmentAgent,
			Description:    context + "\n" + strings.TrimSpace(investmentTaskPrompt),
			ExpectedOutput: "Markdown investment strategy.",
		},
	}
}

// Prompt renders the user prompt for t, appending earlier task output as context.
func (t Task) Prompt(previous string) string {
	var b strings.Builder
	b.WriteString(t.Description)
	b.WriteString("\n\nExpected output: ")
	b.WriteString(t.ExpectedOutput)
	if strings.TrimSpace(previous) != "" {
		b.WriteString("\n\nContext from the previous step:\n")
		b.WriteString(strings.TrimSpace(previous))
	}
	return b.String()
}

// BuildContext describes the user's finances as plain lines.
func BuildContext(req plan.PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Income: %s\n", formatAmount(req.Income))
	fmt.Fprintf(&b, "Expenses: %s\n", formatExpenses(req.Expenses))
	fmt.Fprintf(&b, "Savings Goal: %s\n", formatAmount(req.SavingsGoal))
	fmt.Fprintf(&b, "Debt: %s\n", formatAmount(req.Debt))
	fmt.Fprintf(&b, "Risk Level: %s\n", req.RiskLevel)
	return b.String()
}

func formatExpenses(expenses plan.ExpenseMap) string {
	if len(expenses) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(expenses))
	for k := range expenses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, formatAmount(expenses[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
