package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

func sampleReport() *Report {
	b := &autoplace.Board{Components: []*autoplace.Component{
		{Ref: "R1", Position: autoplace.Point{X: 12_500_000, Y: 3_000_000}, Orientation: -900, Side: autoplace.Top, Placed: true},
		{Ref: "J1", Position: autoplace.Point{X: 30_000_000, Y: 30_000_000}, Side: autoplace.Bottom, Locked: true},
		{Ref: "U1", Side: autoplace.Top, Unplaceable: true},
	}}
	res := &autoplace.Result{
		RunID:       "3f1c",
		Status:      autoplace.Completed,
		Placed:      []string{"R1"},
		Unplaceable: []string{"U1"},
		Moved:       1,
		Duration:    1500 * time.Millisecond,
	}
	return New("demo.kicad_pcb", b, res, 500_000)
}

func TestNew(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, "completed", r.Status)
	assert.Equal(t, 0.5, r.Grid)
	assert.Equal(t, 1.5, r.Seconds)
	assert.Equal(t, 1, r.Placed)
	require.Len(t, r.Components, 3)

	r1 := r.Components[0]
	assert.Equal(t, 12.5, r1.X)
	assert.Equal(t, 3.0, r1.Y)
	assert.Equal(t, 270.0, r1.Orientation)
	assert.Equal(t, "top", r1.Side)
	assert.Equal(t, "bottom", r.Components[1].Side)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"JSON", JSON, false},
		{" yml ", YAML, false},
		{"msgpack", MsgPack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestEncodeDecode(t *testing.T) {
	want := sampleReport()

	for _, f := range []Format{JSON, YAML, MsgPack} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, want, f))

			got, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, want.RunID, got.RunID)
			assert.Equal(t, want.Status, got.Status)
			assert.Equal(t, want.Unplaceable, got.Unplaceable)
			assert.Equal(t, want.Components, got.Components)
		})
	}
}

func TestEncodeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleReport(), Text))

	out := buf.String()
	assert.Contains(t, out, "Status:   completed (1.50s)")
	assert.Contains(t, out, "Unplaced: [U1]")
	assert.Regexp(t, `R1\s+12\.500\s+3\.000\s+270\s+top\s+placed`, out)
	assert.Regexp(t, `J1\s+30\.000\s+30\.000\s+0\s+bottom\s+locked`, out)
	assert.Regexp(t, `U1\s+.*unplaceable`, out)

	_, err := Decode(&buf, Text)
	assert.Error(t, err)
}

func TestEncodeUnknown(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, sampleReport(), Format("xml")))
}
