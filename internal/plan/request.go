package plan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned by Build when a numeric field cannot be coerced.
var ErrInvalidNumber = errors.New("invalid number")

// FormInput holds the raw field values of one form submission.
type FormInput struct {
	Income      string
	Expenses    string
	SavingsGoal string
	Debt        string
	RiskLevel   string
}

// ExpenseMap maps an expense category to its amount.
type ExpenseMap map[string]float64

// PlanRequest is the wire payload sent to the planning service.
type PlanRequest struct {
	Income      float64    `json:"income"`
	Expenses    ExpenseMap `json:"expenses"`
	SavingsGoal float64    `json:"savings_goal"`
	Debt        float64    `json:"debt"`
	RiskLevel   string     `json:"risk_level"`
}

// ParseExpenses turns "rent:15000, food:6000" into an ExpenseMap.
// Pairs without a key, without a value, or with a non-numeric value are skipped.
func ParseExpenses(raw string) ExpenseMap {
	out := ExpenseMap{}
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" || val == "" {
			continue
		}
		amount, err := parseFinite(val)
		if err != nil {
			continue
		}
		out[key] = amount
	}
	return out
}

// Build converts raw form values into a PlanRequest. It has no side effects.
func Build(in FormInput) (PlanRequest, error) {
	income, err := coerce("income", in.Income)
	if err != nil {
		return PlanRequest{}, err
	}
	savingsGoal, err := coerce("savings_goal", in.SavingsGoal)
	if err != nil {
		return PlanRequest{}, err
	}
	debt, err := coerce("debt", in.Debt)
	if err != nil {
		return PlanRequest{}, err
	}
	return PlanRequest{
		Income:      income,
		Expenses:    ParseExpenses(in.Expenses),
		SavingsGoal: savingsGoal,
		Debt:        debt,
		RiskLevel:   strings.TrimSpace(in.RiskLevel),
	}, nil
}

// coerce treats an empty field as zero, matching how the form submits blank inputs.
func coerce(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	val, err := parseFinite(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, field, raw)
	}
	return val, nil
}

func parseFinite(raw string) (float64, error) {
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, ErrInvalidNumber
	}
	return val, nil
}
