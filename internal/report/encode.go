package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Encode writes r to w in format f.
func Encode(w io.Writer, r *Report, f Format) error {
	switch f {
	case Text:
		return encodeText(w, r)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case MsgPack:
		data, err := msgpack.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode msgpack: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown report format %q", f)
}

// Decode reads a report written by Encode. Text reports are not decodable.
func Decode(rd io.Reader, f Format) (*Report, error) {
	var r Report
	switch f {
	case JSON:
		if err := json.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case MsgPack:
		if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot decode %s reports", f)
	}
	return &r, nil
}

func encodeText(w io.Writer, r *Report) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Board:    %s\n", r.Board)
	fmt.Fprintf(&buf, "Run:      %s\n", r.RunID)
	fmt.Fprintf(&buf, "Status:   %s (%.2fs)\n", r.Status, r.Seconds)
	fmt.Fprintf(&buf, "Grid:     %g mm\n", r.Grid)
	fmt.Fprintf(&buf, "Placed:   %d (%d moved)\n", r.Placed, r.Moved)
	if len(r.Unplaceable) > 0 {
		fmt.Fprintf(&buf, "Unplaced: %v\n", r.Unplaceable)
	}
	buf.WriteString("\n")

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tX\tY\tROT\tSIDE\tSTATE")
	for _, c := range r.Components {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%g\t%s\t%s\n", c.Ref, c.X, c.Y, c.Orientation, c.Side, c.state())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (c Component) state() string {
	switch {
	case c.Unplaceable:
		return "unplaceable"
	case c.Placed:
		return "placed"
	case c.Locked:
		return "locked"
	}
	return "-"
}
