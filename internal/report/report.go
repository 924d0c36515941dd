// Package report describes the outcome of a placement run and encodes it
// as text, JSON, YAML or msgpack.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

// Format selects a report encoding.
type Format string

const (
	Text    Format = "text"
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// Formats lists every supported format.
var Formats = []Format{Text, JSON, YAML, MsgPack}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Text, JSON, YAML, MsgPack:
		return f, nil
	case "yml":
		return YAML, nil
	case "":
		return Text, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json, yaml or msgpack)", s)
}

// Report is the serializable outcome of one run. Lengths are millimetres,
// angles degrees.
type Report struct {
	RunID       string      `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Board       string      `json:"board" yaml:"board" msgpack:"board"`
	Status      string      `json:"status" yaml:"status" msgpack:"status"`
	Seconds     float64     `json:"seconds" yaml:"seconds" msgpack:"seconds"`
	Grid        float64     `json:"grid_mm" yaml:"grid_mm" msgpack:"grid_mm"`
	Placed      int         `json:"placed" yaml:"placed" msgpack:"placed"`
	Moved       int         `json:"moved" yaml:"moved" msgpack:"moved"`
	Unplaceable []string    `json:"unplaceable,omitempty" yaml:"unplaceable,omitempty" msgpack:"unplaceable,omitempty"`
	Components  []Component `json:"components" yaml:"components" msgpack:"components"`
}

// Component is the final state of one footprint.
type Component struct {
	Ref         string  `json:"ref" yaml:"ref" msgpack:"ref"`
	X           float64 `json:"x" yaml:"x" msgpack:"x"`
	Y           float64 `json:"y" yaml:"y" msgpack:"y"`
	Orientation float64 `json:"orientation" yaml:"orientation" msgpack:"orientation"`
	Side        string  `json:"side" yaml:"side" msgpack:"side"`
	Locked      bool    `json:"locked,omitempty" yaml:"locked,omitempty" msgpack:"locked,omitempty"`
	Placed      bool    `json:"placed,omitempty" yaml:"placed,omitempty" msgpack:"placed,omitempty"`
	Unplaceable bool    `json:"unplaceable,omitempty" yaml:"unplaceable,omitempty" msgpack:"unplaceable,omitempty"`
}

// New builds a report from a finished run. pitch is the grid pitch in
// nanometres.
func New(boardName string, b *autoplace.Board, res *autoplace.Result, pitch int) *Report {
	r := &Report{
		RunID:       res.RunID,
		Board:       boardName,
		Status:      res.Status.String(),
		Seconds:     res.Duration.Seconds(),
		Grid:        mm(pitch),
		Placed:      len(res.Placed),
		Moved:       res.Moved,
		Unplaceable: res.Unplaceable,
	}
	for _, c := range b.Components {
		r.Components = append(r.Components, Component{
			Ref:         c.Ref,
			X:           mm(c.Position.X),
			Y:           mm(c.Position.Y),
			Orientation: c.Orientation.Normalize().Degrees(),
			Side:        c.Side.String(),
			Locked:      c.Locked,
			Placed:      c.Placed,
			Unplaceable: c.Unplaceable,
		})
	}
	return r
}

func mm(nm int) float64 {
	return math.Round(float64(nm)/1e3) / 1e3
}
