package advisory

// SignalType categorizes a signal crossing clock domains.
type SignalType string

const (
	SignalSingleBit SignalType = "single-bit"
	SignalMultiBit  SignalType = "multi-bit"
	SignalBus       SignalType = "bus"
	SignalHandshake SignalType = "handshake"
)

// Recommendation is one CDC scenario with its solution and an optional
// HDL example.
type Recommendation struct {
	Scenario string `json:"scenario"`
	Solution string `json:"solution"`
	Example  string `json:"example,omitempty"`
}

// CDCGuidance is the selected guidance for one clock domain crossing.
type CDCGuidance struct {
	Description         string           `json:"description"`
	SignalType          SignalType       `json:"signal_type"`
	Recommendations     []Recommendation `json:"recommendations"`
	GeneralGuidelines   []string         `json:"general_guidelines"`
	ToolRecommendations []string         `json:"tool_recommendations"`
}

var twoFlopRecommendation = Recommendation{
	Scenario: "Single-bit control signal crossing clock domains",
	Solution: "Pass the signal through a two-flop synchronizer clocked by the destination domain",
	Example: `reg sync_ff1, sync_ff2;
always @(posedge clk_dst) begin
    sync_ff1 <= async_in;
    sync_ff2 <= sync_ff1;
end`,
}

var grayCodeRecommendation = Recommendation{
	Scenario: "Multi-bit counter or pointer crossing clock domains",
	Solution: "Gray-code the value before the crossing so only one bit changes per clock, then synchronize each bit",
	Example: `assign gray = (bin >> 1) ^ bin;  // binary to gray
// synchronize gray in the destination domain, then decode`,
}

var handshakeRecommendation = Recommendation{
	Scenario: "Arbitrary multi-bit data crossing clock domains",
	Solution: "Hold the data stable and transfer a request/acknowledge pair through synchronizers; capture the data when the request is seen",
	Example: `// source: assert req after data is stable
// destination: capture data on synchronized req, assert ack
// source: release req after synchronized ack`,
}

var fourPhaseRecommendation = Recommendation{
	Scenario: "Handshake-based transfer between clock domains",
	Solution: "Use a four-phase handshake: req up, ack up, req down, ack down; each edge passes through a two-flop synchronizer",
	Example: `// 1. src raises req    2. dst raises ack
// 3. src lowers req    4. dst lowers ack
// data must stay stable from step 1 until step 3`,
}

var cdcGuidelines = []string{
	"Never sample an asynchronous signal directly; synchronize it first",
	"Use one synchronizer per crossing signal and never fan out the first (metastable) flop",
	"Gray-code multi-bit counters so only one bit changes per clock",
	"Constrain crossings with set_false_path or set_max_delay -datapath_only as appropriate",
	"A crossing is only safe once both domains are out of reset; check reset sequencing",
	"Document every intended crossing; an undocumented crossing is a latent bug",
}

var cdcTools = []string{
	"Run a dedicated CDC tool (Questa CDC, SpyGlass CDC, or the vendor equivalent) before sign-off",
	"Enable the synthesis CDC report (e.g. report_cdc in Vivado) on every build",
	"Add metastability injection to gate-level simulation for the critical crossings",
}

// CDC selects guidance for a clock domain crossing. An empty or
// unrecognized signal type behaves as single-bit. The general
// guidelines and tool recommendations are returned regardless of the
// parameters.
func CDC(description string, signalType SignalType) CDCGuidance {
	st := signalType
	switch st {
	case SignalMultiBit, SignalBus, SignalHandshake:
	default:
		st = SignalSingleBit
	}

	g := CDCGuidance{
		Description:         description,
		SignalType:          st,
		GeneralGuidelines:   cdcGuidelines,
		ToolRecommendations: cdcTools,
	}

	switch st {
	case SignalMultiBit, SignalBus:
		g.Recommendations = []Recommendation{grayCodeRecommendation, handshakeRecommendation}
	case SignalHandshake:
		g.Recommendations = []Recommendation{fourPhaseRecommendation}
	default:
		g.Recommendations = []Recommendation{twoFlopRecommendation}
	}

	return g
}
