package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
)

var infoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show footprints and board outline",
	Long: `Lists every footprint with its side, pad count, rotation costs and lock
state, followed by the Edge.Cuts contours the placer will use and the
pad count of every net. With --net only the pads of that net are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

var infoNet string

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVar(&infoNet, "net", "", "List the pads of a single net")
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	filename := args[0]

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	if infoNet != "" {
		return printNetPads(cmd, board, infoNet)
	}

	fmt.Fprintf(out, "✓ Loaded board successfully\n")
	fmt.Fprintf(out, "  Version: %d\n", board.Version)
	fmt.Fprintf(out, "  Generator: %s\n", board.Generator)
	fmt.Fprintf(out, "  Nets: %d\n", len(board.Nets))
	fmt.Fprintf(out, "  Footprints: %d\n", len(board.Footprints))

	layers := pcb.NewLayerMap(board.Layers)
	copper := 0
	for _, l := range board.Layers {
		if layers.IsCopperLayer(l.Name) {
			copper++
		}
	}
	fmt.Fprintf(out, "  Copper layers: %d\n", copper)

	edge := board.EdgeBounds()
	if !edge.IsEmpty() {
		fmt.Fprintf(out, "  Board size: %.2f x %.2f mm\n", edge.Width(), edge.Height())
	}

	contours := board.Outline()
	fmt.Fprintf(out, "\nOutline (%d contours):\n", len(contours))
	for i, c := range contours {
		state := "closed"
		if !c.Closed {
			state = "open"
		}
		fmt.Fprintf(out, "  %d: %d points, %s\n", i, len(c.Points), state)
	}

	fmt.Fprintf(out, "\n%-10s %-6s %10s %10s %6s %5s %5s  %s\n",
		"Ref", "Side", "X", "Y", "Rot", "Pads", "Cost", "Flags")
	for i := range board.Footprints {
		fp := &board.Footprints[i]
		side := "top"
		if fp.IsBack() {
			side = "bottom"
		}
		flags := ""
		if fp.Locked {
			flags = "locked"
		}
		if !edge.IsEmpty() && !edge.Contains(fp.Position.Position) {
			if flags != "" {
				flags += ","
			}
			flags += "offboard"
		}
		fmt.Fprintf(out, "%-10s %-6s %10.3f %10.3f %6.1f %5d %2d/%-2d  %s\n",
			fp.Reference, side, fp.Position.X, fp.Position.Y, float64(fp.Position.Angle),
			len(fp.Pads), fp.AutoplaceCost90, fp.AutoplaceCost180, flags)
	}

	fmt.Fprintf(out, "\n%-30s %6s\n", "Net", "Pads")
	for _, net := range board.Nets {
		if net.Number == 0 {
			continue
		}
		fmt.Fprintf(out, "%-30s %6d\n", net.Name, len(board.GetNetPads(net.Name)))
	}
	return nil
}

func printNetPads(cmd *cobra.Command, board *pcb.Board, name string) error {
	out := cmd.OutOrStdout()
	net := board.GetNet(name)
	if net == nil {
		return fmt.Errorf("net %q not found", name)
	}

	fmt.Fprintf(out, "Net %d: %s\n", net.Number, net.Name)
	for _, fp := range board.Footprints {
		for _, pad := range fp.Pads {
			if pad.Net != nil && pad.Net.Number == net.Number {
				fmt.Fprintf(out, "  %s.%s\n", fp.Reference, pad.Number)
			}
		}
	}
	fmt.Fprintf(out, "  %d pads\n", len(board.GetNetPads(name)))
	return nil
}
