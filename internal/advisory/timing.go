// Package advisory produces deterministic remediation guidance for
// timing violations and clock domain crossings. The generators are
// rule-selection tables, not analyzers: a small set of categorical and
// numeric parameters selects fixed guidance entries.
package advisory

import "fmt"

// ViolationType categorizes a timing violation.
type ViolationType string

const (
	ViolationSetup   ViolationType = "setup"
	ViolationHold    ViolationType = "hold"
	ViolationBoth    ViolationType = "both"
	ViolationUnknown ViolationType = "unknown"
)

// Step is one debugging or remediation step, with optional example
// tool commands.
type Step struct {
	Step        string   `json:"step"`
	Description string   `json:"description"`
	Commands    []string `json:"commands,omitempty"`
}

// TimingGuidance is the selected guidance for one timing issue.
type TimingGuidance struct {
	Issue         string        `json:"issue"`
	ViolationType ViolationType `json:"violation_type"`
	Steps         []Step        `json:"steps"`
	GeneralTips   []string      `json:"general_tips"`
}

var setupSteps = []Step{
	{
		Step:        "Identify the critical path",
		Description: "Run a max-delay timing report and locate the failing endpoint with the worst negative slack",
		Commands: []string{
			"report_timing -delay_type max -max_paths 10",
			"report_timing -slack_lesser_than 0 -path_type full_clock_expanded",
		},
	},
	{
		Step:        "Break down the path delay",
		Description: "Split the path into logic delay and net delay; many logic levels point at the RTL, large net delay points at placement or fanout",
		Commands: []string{
			"report_timing -path_type full -input_pins",
		},
	},
	{
		Step:        "Apply optimization strategies",
		Description: "Pipeline long combinational paths, retime registers across logic, reduce fanout on late nets, or relax the constraint if the requirement allows",
		Commands: []string{
			"phys_opt_design -directive AggressiveExplore",
			"report_high_fanout_nets",
		},
	},
}

var holdSteps = []Step{
	{
		Step:        "Diagnose hold violations",
		Description: "Run a min-delay timing report; hold failures usually come from clock skew between nearby registers, not from logic depth",
		Commands: []string{
			"report_timing -delay_type min -max_paths 10",
		},
	},
	{
		Step:        "Fix hold violations",
		Description: "Let the router insert hold-fix delay, balance the clock tree, and review any manual clock gating or mixed clock edges on the path",
	},
}

var generalTimingTips = []string{
	"Run timing analysis after synthesis and again after place-and-route; both reports matter",
	"Fix setup violations before hold violations; hold fixes are usually cheap and local",
	"Constrain every clock, including generated and virtual clocks",
	"Do not fix clock domain crossings with timing constraints; they need synchronizers",
	"Large negative slack is an architecture problem, not a tool-settings problem",
}

// Timing selects guidance for a timing violation with no clock
// frequency supplied. An empty violation type is treated as unknown,
// which selects no steps but still returns the general tips.
func Timing(issue string, violationType ViolationType) TimingGuidance {
	g := TimingGuidance{
		Issue:         issue,
		ViolationType: normalizeViolation(violationType),
		Steps:         []Step{},
		GeneralTips:   generalTimingTips,
	}

	if g.ViolationType == ViolationSetup || g.ViolationType == ViolationBoth {
		g.Steps = append(g.Steps, setupSteps...)
	}
	if g.ViolationType == ViolationHold || g.ViolationType == ViolationBoth {
		g.Steps = append(g.Steps, holdSteps...)
	}

	return g
}

// TimingWithClock is Timing plus a clock-period step computed from the
// target frequency. Any numeric frequency is accepted and divided as
// given: 0 MHz yields an infinite period, which formats as "+Inf" ns.
func TimingWithClock(issue string, clockFrequencyMHz float64, violationType ViolationType) TimingGuidance {
	g := Timing(issue, violationType)

	periodNs := 1000 / clockFrequencyMHz
	period := fmt.Sprintf("%.3f", periodNs)
	g.Steps = append(g.Steps, Step{
		Step:        "Check the clock constraint",
		Description: fmt.Sprintf("At %g MHz the clock period is %s ns; make sure the constraint matches the real requirement", clockFrequencyMHz, period),
		Commands: []string{
			fmt.Sprintf("create_clock -period %s [get_ports clk]", period),
		},
	})

	return g
}

func normalizeViolation(vt ViolationType) ViolationType {
	switch vt {
	case ViolationSetup, ViolationHold, ViolationBoth:
		return vt
	default:
		return ViolationUnknown
	}
}
