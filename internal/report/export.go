package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/lapwatch/pkg/stopwatch"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Row is the exported view of one stopwatch
type Row struct {
	ID        string  `json:"id" yaml:"id"`
	State     string  `json:"state" yaml:"state"`
	ElapsedMS int64   `json:"elapsed_ms" yaml:"elapsed_ms"`
	LapsMS    []int64 `json:"laps_ms" yaml:"laps_ms"`
	Hash      string  `json:"hash" yaml:"hash"`
}

// Report is a snapshot of a store
type Report struct {
	Stopwatches []Row `json:"stopwatches" yaml:"stopwatches"`
	Count       int   `json:"count" yaml:"count"`
}

// Build snapshots every stopwatch in order
func Build(list []*stopwatch.Stopwatch) Report {
	rows := make([]Row, 0, len(list))
	for _, sw := range list {
		snap := sw.Snapshot()
		laps := make([]int64, len(snap.Laps))
		for i, d := range snap.Laps {
			laps[i] = d.Milliseconds()
		}
		rows = append(rows, Row{
			ID:        snap.ID,
			State:     string(snap.State),
			ElapsedMS: snap.Elapsed.Milliseconds(),
			LapsMS:    laps,
			Hash:      fmt.Sprintf("%016x", sw.Hash()),
		})
	}
	return Report{Stopwatches: rows, Count: len(rows)}
}

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Write renders r in the requested format
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatTable, "":
		return writeTable(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, r Report) error {
	output, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, r Report) error {
	if r.Count == 0 {
		_, err := fmt.Fprintln(w, "No stopwatches created")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "State", "Elapsed", "Laps")

	for _, row := range r.Stopwatches {
		laps := make([]string, len(row.LapsMS))
		for i, ms := range row.LapsMS {
			laps[i] = fmt.Sprintf("%dms", ms)
		}
		if err := table.Append([]string{
			row.ID,
			row.State,
			fmt.Sprintf("%dms", row.ElapsedMS),
			strings.Join(laps, ", "),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err := fmt.Fprintf(w, "\nTotal stopwatches: %d\n", r.Count)
	return err
}

// WriteMetrics writes every gathered metric family in the Prometheus text format
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
