package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtlcheck/rtlcheck/internal/advisory"
	"github.com/rtlcheck/rtlcheck/internal/validator"
)

func newTimingCmd() *cobra.Command {
	var (
		violation string
		clockMHz  float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "timing <description>",
		Short: "Generate debugging guidance for a timing violation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue := strings.Join(args, " ")
			vt := advisory.ViolationType(violation)

			var g advisory.TimingGuidance
			if cmd.Flags().Changed("clock-mhz") {
				g = advisory.TimingWithClock(issue, clockMHz, vt)
			} else {
				g = advisory.Timing(issue, vt)
			}

			v, err := validator.New()
			if err != nil {
				return err
			}
			if err := v.ValidateTimingGuidance(g); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), g)
			}
			renderTiming(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().StringVar(&violation, "violation", "unknown", "Violation type: setup, hold, both, unknown")
	cmd.Flags().Float64Var(&clockMHz, "clock-mhz", 0, "Target clock frequency in MHz")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the guidance as JSON")

	return cmd
}

func renderTiming(w io.Writer, g advisory.TimingGuidance) {
	fmt.Fprintf(w, "Timing guidance (%s): %s\n", g.ViolationType, g.Issue)
	for i, step := range g.Steps {
		fmt.Fprintf(w, "\n%d. %s\n   %s\n", i+1, step.Step, step.Description)
		for _, c := range step.Commands {
			fmt.Fprintf(w, "   $ %s\n", c)
		}
	}
	fmt.Fprintln(w, "\nGeneral tips:")
	for _, tip := range g.GeneralTips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}
