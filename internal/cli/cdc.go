package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtlcheck/rtlcheck/internal/advisory"
	"github.com/rtlcheck/rtlcheck/internal/validator"
)

func newCDCCmd() *cobra.Command {
	var (
		signalType string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "cdc <description>",
		Short: "Generate guidance for a clock domain crossing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			g := advisory.CDC(description, advisory.SignalType(signalType))

			v, err := validator.New()
			if err != nil {
				return err
			}
			if err := v.ValidateCDCGuidance(g); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), g)
			}
			renderCDC(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().StringVar(&signalType, "signal-type", "", "Crossing signal type: single-bit, multi-bit, bus, handshake")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the guidance as JSON")

	return cmd
}

func renderCDC(w io.Writer, g advisory.CDCGuidance) {
	fmt.Fprintf(w, "CDC guidance (%s): %s\n", g.SignalType, g.Description)
	for _, rec := range g.Recommendations {
		fmt.Fprintf(w, "\nScenario: %s\nSolution: %s\n", rec.Scenario, rec.Solution)
		if rec.Example != "" {
			fmt.Fprintln(w, "Example:")
			for _, line := range strings.Split(rec.Example, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	fmt.Fprintln(w, "\nGuidelines:")
	for _, gl := range g.GeneralGuidelines {
		fmt.Fprintf(w, "  - %s\n", gl)
	}
	fmt.Fprintln(w, "\nTools:")
	for _, tool := range g.ToolRecommendations {
		fmt.Fprintf(w, "  - %s\n", tool)
	}
}
