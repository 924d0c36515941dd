package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePlace/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "otp",
	Short: "OpenTracePlace - automatic footprint placement for KiCad boards",
	Long: `OpenTracePlace (otp) places KiCad footprints automatically on a grid,
minimizing ratsnest length while keeping components apart and inside the
board outline.

Examples:
  otp info board.kicad_pcb                       # List footprints and outline
  otp place board.kicad_pcb --offboard           # Place footprints lying off the board
  otp place board.kicad_pcb --select "R1-R10,C*" # Place a selection
  otp config --config otp.toml                   # Show the effective settings`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (.toml, .yaml or .yml)")
}

// loadConfig returns the --config file, or the defaults without one.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
