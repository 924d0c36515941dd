package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0, cfg.Placement.Grid)
	assert.Equal(t, 1_000_000, cfg.Pitch())
	assert.Equal(t, 500, cfg.Placement.KeepOut)
	assert.Equal(t, 16, cfg.Placement.Gain)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Len(t, cfg.Options(), 5)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "otp.toml", `
[placement]
grid = 0.5
offboard = true
select = "R1-R10, !R5"
obstacle_layers = ["F.SilkS", "Dwgs.User"]

[report]
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500_000, cfg.Pitch())
	assert.True(t, cfg.Placement.Offboard)
	assert.Equal(t, []string{"F.SilkS", "Dwgs.User"}, cfg.Placement.ObstacleLayers)
	assert.Equal(t, "json", cfg.Report.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 500, cfg.Placement.KeepOut)
	assert.Equal(t, 10.0, cfg.Snapshot.Scale)

	sel, err := cfg.Selector()
	require.NoError(t, err)
	assert.True(t, sel.Match("R4"))
	assert.False(t, sel.Match("R5"))
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "otp.yml", `
placement:
  grid: 0.25
  keepout: 800
  gain: 8
snapshot:
  scale: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250_000, cfg.Pitch())
	assert.Equal(t, 800, cfg.Placement.KeepOut)
	assert.Equal(t, 8, cfg.Placement.Gain)
	assert.Equal(t, 4.0, cfg.Snapshot.Scale)
	assert.Equal(t, 16<<20, cfg.Placement.MaxCells)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "otp.json", `{}`},
		{"broken toml", "otp.toml", "[placement\ngrid = 1"},
		{"broken yaml", "otp.yaml", "placement: [1, 2"},
		{"zero grid", "otp.toml", "[placement]\ngrid = 0"},
		{"negative keepout", "otp.toml", "[placement]\nkeepout = -1"},
		{"zero gain", "otp.yaml", "placement:\n  gain: 0"},
		{"zero cells", "otp.yaml", "placement:\n  max_cells: 0"},
		{"bad select", "otp.toml", "[placement]\nselect = \"R1-C2\""},
		{"bad format", "otp.toml", "[report]\nformat = \"xml\""},
		{"bad scale", "otp.toml", "[snapshot]\nscale = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWriteTOML(t *testing.T) {
	cfg := Default()
	cfg.Placement.Select = "C*"
	cfg.Placement.ObstacleLayers = []string{"F.SilkS"}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteTOML(&buf))
	assert.Contains(t, buf.String(), "[placement]")

	var again Config
	_, err := toml.Decode(buf.String(), &again)
	require.NoError(t, err)
	assert.Equal(t, *cfg, again)
}
