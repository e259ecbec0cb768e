package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
	"github.com/rtlcheck/rtlcheck/internal/review"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.v")
	require.NoError(t, os.WriteFile(path, []byte("always @(posedge clk) begin\n  q = d;\nend\n"), 0644))

	out, err := runCommand(t, "", "analyze", path, "--json")
	require.NoError(t, err)

	var report review.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Files, 1)
	assert.Equal(t, analyzer.LangVerilog, report.Files[0].Language)

	var kinds []analyzer.IssueKind
	for _, issue := range report.Files[0].Result.Issues {
		kinds = append(kinds, issue.Kind)
	}
	assert.Contains(t, kinds, analyzer.KindBlockingInSequential)
}

func TestAnalyzeStdin(t *testing.T) {
	src := "always @(a or b) begin\n  if (a)\n    out = b;\nend\n"
	out, err := runCommand(t, src, "analyze", "-", "--lang", "verilog")
	require.NoError(t, err)

	assert.Contains(t, out, "latch_inference")
	assert.Contains(t, out, "Found 2 issue(s): 2 warning(s)")
}

func TestAnalyzeStdinRequiresLang(t *testing.T) {
	_, err := runCommand(t, "module m; endmodule", "analyze", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--lang")
}

func TestAnalyzeStdinJSON(t *testing.T) {
	out, err := runCommand(t, "", "analyze", "-", "--lang", "vhdl", "--json")
	require.NoError(t, err)

	var result analyzer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.TotalIssues)
	assert.Equal(t, "No issues found. Code looks good!", result.Summary)
}

func TestAnalyzeUnknownLang(t *testing.T) {
	_, err := runCommand(t, "x", "analyze", "-", "--lang", "fortran")
	require.Error(t, err)
}

func TestTimingCommand(t *testing.T) {
	out, err := runCommand(t, "", "timing", "setup", "violation", "on", "mult", "path",
		"--violation", "setup", "--clock-mhz", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "Identify the critical path")
	assert.Contains(t, out, "create_clock -period 10.000 [get_ports clk]")
	assert.Contains(t, out, "General tips:")
}

func TestTimingCommandJSON(t *testing.T) {
	out, err := runCommand(t, "", "timing", "hold", "issue", "--violation", "hold", "--json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "hold", decoded["violation_type"])
}

func TestCDCCommand(t *testing.T) {
	out, err := runCommand(t, "", "cdc", "fifo", "pointer", "crossing", "--signal-type", "multi-bit")
	require.NoError(t, err)

	assert.Contains(t, out, "Gray-code")
	assert.Contains(t, out, "Tools:")
}

func TestCDCCommandDefaultsSingleBit(t *testing.T) {
	out, err := runCommand(t, "", "cdc", "flag")
	require.NoError(t, err)
	assert.Contains(t, out, "two-flop synchronizer")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	out, err := runCommand(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created rtlcheck.json")

	_, err = runCommand(t, "", "init")
	require.Error(t, err, "second init without --force must fail")

	_, err = runCommand(t, "", "init", "--force")
	require.NoError(t, err)
}
