package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePlace/internal/config"
	"github.com/OpenTraceLab/OpenTracePlace/internal/render"
	"github.com/OpenTraceLab/OpenTracePlace/internal/report"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
)

var (
	placeSelect   string
	placeOffboard bool
	placeGrid     float64
	placeOutput   string
	placeReport   string
	placeFormat   string
	placeSnapshot string
	placeFrames   string
	placeBottom   bool
)

var placeCmd = &cobra.Command{
	Use:   "place <board_file>",
	Short: "Place footprints automatically",
	Long: `Places footprints on the board grid and writes the result to a new board file.

Which footprints move:
  --select EXPR   footprints matching EXPR, e.g. "R1-R10, C*, !U1"
  --offboard      footprints lying outside the board outline
Without --select every unlocked footprint is placed, unless --offboard is
given alone. Locked footprints never move.

The board is written to <board>-placed.kicad_pcb unless -o is given.
Interrupting the run keeps the footprints placed so far.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)

	f := placeCmd.Flags()
	f.StringVarP(&placeSelect, "select", "s", "", "reference selection, e.g. \"R1-R10, C*, !U1\"")
	f.BoolVar(&placeOffboard, "offboard", false, "also place footprints outside the board outline")
	f.Float64Var(&placeGrid, "grid", 0, "grid pitch in mm (default from config, 1 mm)")
	f.StringVarP(&placeOutput, "output", "o", "", "output board file")
	f.StringVar(&placeReport, "report", "", "write a placement report to this file")
	f.StringVar(&placeFormat, "format", "", "report format: text, json, yaml or msgpack")
	f.StringVar(&placeSnapshot, "snapshot", "", "write a PNG of the final grid")
	f.StringVar(&placeFrames, "frames", "", "write a PNG per placed footprint into this directory")
	f.BoolVar(&placeBottom, "bottom", false, "draw the bottom side in snapshots and frames")
}

// placeConfig merges command line flags over the configuration file.
func placeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("select") {
		cfg.Placement.Select = placeSelect
	}
	if flags.Changed("offboard") {
		cfg.Placement.Offboard = placeOffboard
	}
	if flags.Changed("grid") {
		cfg.Placement.Grid = placeGrid
	}
	if flags.Changed("format") {
		cfg.Report.Format = placeFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()
	filename := args[0]

	cfg, err := placeConfig(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}
	pb := board.PlacementBoard(cfg.Placement.ObstacleLayers...)

	selected, err := selectComponents(cfg, pb)
	if err != nil {
		return err
	}
	logger.Debug("loaded board", "file", filename,
		"footprints", len(pb.Components), "selected", len(selected), "grid", cfg.Placement.Grid)

	side := autoplace.Top
	if placeBottom {
		side = autoplace.Bottom
	}

	var progressOut io.Writer = cmd.ErrOrStderr()
	if verbose {
		progressOut = nil
	}
	progress := newProgressLine(ctx, progressOut)

	opts := append(cfg.Options(),
		autoplace.WithLogger(logger),
		autoplace.WithReporter(progress),
	)

	var frames *render.Frames
	if placeFrames != "" {
		frames, err = render.NewFrames(placeFrames, cfg.Snapshot.Scale, side, pb)
		if err != nil {
			return err
		}
		opts = append(opts, autoplace.WithRefresh(frames.Refresh))
	}

	placer := autoplace.New(pb, opts...)
	if frames != nil {
		frames.Attach(placer)
	}

	res, err := placer.Place(ctx, selected)
	progress.finish()
	if err != nil {
		return fmt.Errorf("placement failed: %w", err)
	}

	if err := board.ApplyPlacement(pb); err != nil {
		return err
	}
	output := placeOutput
	if output == "" {
		output = strings.TrimSuffix(filename, filepath.Ext(filename)) + "-placed.kicad_pcb"
	}
	if err := board.WriteFile(output); err != nil {
		return err
	}

	rep := report.New(filepath.Base(filename), pb, res, placer.Pitch())
	if placeReport != "" {
		if err := writeReport(placeReport, rep, format); err != nil {
			return err
		}
	}
	if placeSnapshot != "" && placer.Matrix() != nil {
		err := render.SavePNG(placeSnapshot, render.Scene{
			Matrix: placer.Matrix(),
			Free:   placer.FreeArea(),
			Board:  pb,
			Side:   side,
			Scale:  cfg.Snapshot.Scale,
		})
		if err != nil {
			return err
		}
	}
	if frames != nil {
		if err := frames.Err(); err != nil {
			return err
		}
		logger.Debug("frames written", "dir", placeFrames, "count", frames.Count())
	}

	printSummary(out, rep, output)

	if res.Status == autoplace.Cancelled && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// selectComponents resolves the selection. An empty selection with
// offboard placement selects nothing explicitly: the placer then takes
// only the components outside the board.
func selectComponents(cfg *config.Config, pb *autoplace.Board) ([]*autoplace.Component, error) {
	if cfg.Placement.Select == "" && cfg.Placement.Offboard {
		return nil, nil
	}
	sel, err := cfg.Selector()
	if err != nil {
		return nil, err
	}
	var selected []*autoplace.Component
	for _, c := range pb.Components {
		if sel.Match(c.Ref) {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

func writeReport(path string, rep *report.Report, format report.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.Encode(f, rep, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, rep *report.Report, output string) {
	icon := styleSuccess.Render(iconSuccess)
	switch {
	case rep.Status != autoplace.Completed.String():
		icon = styleWarning.Render(iconWarning)
	case len(rep.Unplaceable) > 0:
		icon = styleWarning.Render(iconWarning)
	}

	fmt.Fprintf(w, "%s %s %s\n", icon, styleTitle.Render("Placement "+rep.Status), styleDim.Render(fmt.Sprintf("(%.2fs)", rep.Seconds)))
	fmt.Fprintf(w, "  %s%s\n", styleLabel.Render("Placed"), styleNumber.Render(fmt.Sprint(rep.Placed)))
	fmt.Fprintf(w, "  %s%s\n", styleLabel.Render("Moved"), styleNumber.Render(fmt.Sprint(rep.Moved)))
	if len(rep.Unplaceable) > 0 {
		fmt.Fprintf(w, "  %s%s\n", styleLabel.Render("Unplaceable"), styleError.Render(strings.Join(rep.Unplaceable, ", ")))
	}
	fmt.Fprintf(w, "  %s%s\n", styleLabel.Render("Output"), iconArrow+" "+output)
}
