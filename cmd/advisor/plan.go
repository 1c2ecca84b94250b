package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/plan"
	"finance-advisor/internal/planclient"
	"finance-advisor/internal/submission"
)

type planOptions struct {
	in      plan.FormInput
	baseURL string
	timeout time.Duration
	quiet   bool
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Request a financial plan from the planning service",
		Example: `  advisor plan --income 50000 --expenses "rent:15000, food:6000" --savings-goal 10000 --risk medium
  advisor plan --income 4200 --debt 12000 --html > plan.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in.Income, "income", "", "Monthly income")
	f.StringVar(&opts.in.Expenses, "expenses", "", `Expenses as "category:amount" pairs separated by commas`)
	f.StringVar(&opts.in.SavingsGoal, "savings-goal", "", "Savings goal")
	f.StringVar(&opts.in.Debt, "debt", "", "Outstanding debt")
	f.StringVar(&opts.in.RiskLevel, "risk", "medium", "Risk level (low, medium, high)")
	f.StringVar(&opts.baseURL, "base-url", root.cfg.PlannerBaseURL, "Planning service base URL")
	f.DurationVar(&opts.timeout, "timeout", root.cfg.PlannerTimeout, "Request timeout (0 disables)")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show a spinner")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := root.renderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var spinner *pterm.SpinnerPrinter
	if !opts.quiet {
		spinner, _ = pterm.DefaultSpinner.Start("Generating plan… Please wait...")
	}
	stopSpinner := func() {
		if spinner != nil && spinner.IsActive {
			_ = spinner.Stop()
		}
	}
	defer stopSpinner()

	sink := r.Sink
	r.Sink = advice.SinkFunc(func(s string) {
		stopSpinner()
		sink.Show(s)
	})
	r.Notices.Pending = ""
	if !root.html {
		r.Notices.TransportError = func(err error) string {
			return errorColor.Sprint(advice.TextNotices().TransportError(err))
		}
		r.Notices.InvalidInput = func(err error) string {
			return errorColor.Sprint(advice.TextNotices().InvalidInput(err))
		}
	}

	client := planclient.NewClient(opts.baseURL, opts.timeout)
	out := submission.New(client, *r, r.Sink).Submit(ctx, opts.in)
	if out.Err != nil {
		return errReported
	}
	return nil
}
