package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePlace/internal/report"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
)

// testBoard is a 50 x 40 mm board with a resistor on it, a locked
// connector and a second resistor lying off the board.
const testBoard = `(kicad_pcb (version 20221018) (generator pcbnew)
  (layers (0 "F.Cu" signal) (31 "B.Cu" signal) (44 "Edge.Cuts" user))
  (net 0 "")
  (net 1 "GND")
  (net 2 "VCC")
  (gr_rect (start 0 0) (end 50 40) (stroke (width 0.1) (type solid)) (fill none) (layer "Edge.Cuts"))
  (footprint "R_0603" (layer "F.Cu") (at 10 10)
    (property "Reference" "R1" (at 0 -1.5) (layer "F.SilkS"))
    (fp_line (start -1.5 -0.75) (end 1.5 -0.75) (stroke (width 0.05) (type solid)) (layer "F.CrtYd"))
    (fp_line (start 1.5 0.75) (end -1.5 0.75) (stroke (width 0.05) (type solid)) (layer "F.CrtYd"))
    (pad "1" smd rect (at -0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 1 "GND"))
    (pad "2" smd rect (at 0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 2 "VCC"))
  )
  (footprint "Pin_1x02" locked (layer "B.Cu") (at 30 30)
    (property "Reference" "J1" (at 0 -2) (layer "B.SilkS"))
    (pad "1" thru_hole rect (at 0 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 1 "GND"))
    (pad "2" thru_hole oval (at 0 2.54) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 2 "VCC"))
  )
  (footprint "R_0603" (layer "F.Cu") (at 80 80)
    (property "Reference" "R2" (at 0 -1.5) (layer "F.SilkS"))
    (pad "1" smd rect (at -0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 1 "GND"))
    (pad "2" smd rect (at 0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 2 "VCC"))
  )
)
`

func writeBoard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.kicad_pcb")
	require.NoError(t, os.WriteFile(path, []byte(testBoard), 0o644))
	return path
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// execute runs otp with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlaceCommand(t *testing.T) {
	board := writeBoard(t)
	dir := filepath.Dir(board)
	output := filepath.Join(dir, "out.kicad_pcb")
	reportPath := filepath.Join(dir, "report.json")
	snapshot := filepath.Join(dir, "grid.png")

	out, err := execute(t, "place", board,
		"--select", "R1", "--grid", "0.5",
		"-o", output, "--report", reportPath, "--format", "json", "--snapshot", snapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "Placement completed")

	placed, err := pcb.ParseFile(output)
	require.NoError(t, err)
	edge := placed.EdgeBounds()
	assert.True(t, edge.Contains(placed.FindFootprint("R1").Position.Position))
	assert.Equal(t, 80.0, placed.FindFootprint("R2").Position.X, "R2 is not selected")
	assert.Equal(t, 30.0, placed.FindFootprint("J1").Position.X, "J1 is locked")

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()
	rep, err := report.Decode(f, report.JSON)
	require.NoError(t, err)
	assert.Equal(t, "completed", rep.Status)
	assert.Equal(t, 0.5, rep.Grid)
	assert.Equal(t, 1, rep.Placed)

	info, err := os.Stat(snapshot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlaceReportsClampedGrid(t *testing.T) {
	board := writeBoard(t)
	reportPath := filepath.Join(filepath.Dir(board), "report.yaml")

	_, err := execute(t, "place", board, "--select", "R1", "--grid", "0.1",
		"--report", reportPath, "--format", "yaml")
	require.NoError(t, err)

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()
	rep, err := report.Decode(f, report.YAML)
	require.NoError(t, err)
	assert.Equal(t, 0.25, rep.Grid)
}

func TestPlaceOffboard(t *testing.T) {
	board := writeBoard(t)

	_, err := execute(t, "place", board, "--offboard")
	require.NoError(t, err)

	placed, err := pcb.ParseFile(strings.TrimSuffix(board, ".kicad_pcb") + "-placed.kicad_pcb")
	require.NoError(t, err)

	edge := placed.EdgeBounds()
	assert.True(t, edge.Contains(placed.FindFootprint("R2").Position.Position))
	r1 := placed.FindFootprint("R1").Position
	assert.Equal(t, 10.0, r1.X, "R1 is on the board and not selected")
	assert.Equal(t, 10.0, r1.Y)
}

func TestPlaceFrames(t *testing.T) {
	board := writeBoard(t)
	frames := filepath.Join(filepath.Dir(board), "frames")

	_, err := execute(t, "place", board, "--select", "R*", "--frames", frames, "--bottom")
	require.NoError(t, err)

	entries, err := os.ReadDir(frames)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "empty grid plus one frame per footprint")
}

func TestPlaceErrors(t *testing.T) {
	board := writeBoard(t)

	_, err := execute(t, "place", board, "--select", "R1-C2")
	assert.Error(t, err)

	_, err = execute(t, "place", board, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown report format "xml"`)
	_, statErr := os.Stat(strings.TrimSuffix(board, ".kicad_pcb") + "-placed.kicad_pcb")
	assert.True(t, os.IsNotExist(statErr), "no board is written for a bad format")

	_, err = execute(t, "place", filepath.Join(t.TempDir(), "missing.kicad_pcb"))
	assert.Error(t, err)

	_, err = execute(t, "place")
	assert.Error(t, err, "board argument is required")
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", writeBoard(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Footprints: 3")
	assert.Contains(t, out, "Board size: 50.00 x 40.00 mm")
	assert.Contains(t, out, "Outline (1 contours)")
	assert.Contains(t, out, "0: 4 points, closed")
	assert.Regexp(t, `J1\s+bottom.*locked`, out)
	assert.Regexp(t, `R2\s+top.*offboard`, out)
	assert.Contains(t, out, "Copper layers: 2")
	assert.Regexp(t, `GND\s+3`, out)
	assert.Regexp(t, `VCC\s+3`, out)
}

func TestInfoNet(t *testing.T) {
	out, err := execute(t, "info", "--net", "GND", writeBoard(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Net 1: GND")
	assert.Contains(t, out, "J1.1")
	assert.Contains(t, out, "3 pads")
	assert.NotContains(t, out, "R1.2")

	_, err = execute(t, "info", "--net", "NOPE", writeBoard(t))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placement:\n  grid: 0.5\n  select: \"C*\"\n"), 0o644))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[placement]")
	assert.Contains(t, out, "grid = 0.5")
	assert.Contains(t, out, `select = "C*"`)

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "grid = 1.0")

	_, err = execute(t, "config", "--config", filepath.Join(t.TempDir(), "otp.ini"))
	assert.Error(t, err)
}

func TestProgressLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	p := newProgressLine(ctx, &buf)

	p.Report("Autoplacing components")
	p.SetMaxProgress(2)
	p.Report("Autoplacing R1")
	p.AdvanceProgress()
	assert.Contains(t, buf.String(), "[1/2]")
	assert.Contains(t, buf.String(), "Autoplacing R1")
	assert.True(t, p.KeepRefreshing())

	cancel()
	assert.False(t, p.KeepRefreshing())

	p.finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\r"))

	quiet := newProgressLine(context.Background(), nil)
	quiet.Report("nothing is written")
	quiet.finish()
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	assert.Same(t, l, loggerFromContext(ctx))

	loggerFromContext(ctx).Debug("placed", "ref", "R1")
	assert.Contains(t, buf.String(), "ref=R1")
}
