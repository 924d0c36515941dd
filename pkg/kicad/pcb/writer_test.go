package pcb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0000001, "0"},
		{1.5, "1.5"},
		{-0.8, "-0.8"},
		{25.4000000001, "25.4"},
		{100, "100"},
		{0.1234567, "0.123457"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want Angle
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{270, -90},
		{-180, 180},
		{450, 90},
	}
	for _, tt := range tests {
		if got := normalizeDegrees(tt.in); got != tt.want {
			t.Errorf("normalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	board := mustParse(t, sampleBoard)
	path := filepath.Join(t.TempDir(), "out.kicad_pcb")

	if err := board.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	again, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if len(again.Footprints) != len(board.Footprints) || len(again.Nets) != len(board.Nets) {
		t.Errorf("round trip lost items: %d footprints, %d nets", len(again.Footprints), len(again.Nets))
	}
	if again.FindFootprint("R1").AutoplaceCost90 != 5 {
		t.Errorf("round trip lost autoplace costs")
	}
}

func TestWriteUnparsedBoard(t *testing.T) {
	board := &Board{}
	if err := board.Write(os.Stdout); err == nil {
		t.Errorf("expected error writing a board that was not parsed")
	}
}
