package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"finance-advisor/internal/advice"
	"finance-advisor/internal/shared/config"
	"finance-advisor/internal/shared/telemetry"
)

type rootOptions struct {
	html     bool
	width    int
	cfg      config.Config
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.Load()}

	cmd := &cobra.Command{
		Use:           "advisor",
		Short:         "AI personal finance advisor client",
		Long:          "Build plan requests, call the planning service and render its advice in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			telemetry.SetLevel(opts.logLevel)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.html, "html", false, "Print sanitized HTML instead of terminal Markdown")
	cmd.PersistentFlags().IntVar(&opts.width, "width", 100, "Word wrap width for terminal output")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level for diagnostic output")

	cmd.AddCommand(
		newPlanCmd(opts),
		newRenderCmd(opts),
		newCleanCmd(),
	)
	return cmd
}

// renderer returns an advice renderer writing to out in the selected format.
func (o *rootOptions) renderer(out io.Writer) (*advice.Renderer, error) {
	sink := advice.SinkFunc(func(s string) {
		fmt.Fprintln(out, strings.TrimRight(s, "\n"))
	})
	if o.html {
		r := advice.NewRenderer(advice.NewHTMLMarkdown(), sink)
		r.CleanFallback = o.cfg.CleanFallback
		return r, nil
	}
	md, err := advice.NewTerminalMarkdown(o.width)
	if err != nil {
		return nil, err
	}
	r := advice.NewRenderer(md, sink)
	r.Notices = advice.TextNotices()
	r.CleanFallback = o.cfg.CleanFallback
	return r, nil
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
