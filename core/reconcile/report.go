package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts a string to a Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, table, json, yaml", s)
	}
}

// DetectFormat returns the explicit format, or table for terminals and JSON
// for pipes and redirects.
func DetectFormat(explicit Format) Format {
	if explicit != "" {
		return explicit
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Lines returns the change log as human-readable messages.
func (r *Report) Lines() []string {
	return Messages(r.Events)
}

// Totals sums the per-kind summaries.
func (r *Report) Totals() KindSummary {
	total := KindSummary{Kind: "Total"}
	for _, s := range r.Summary {
		total.Created += s.Created
		total.Updated += s.Updated
		total.Unchanged += s.Unchanged
		total.Rejected += s.Rejected
	}
	return total
}

// For returns the summary of one kind, or a zero summary.
func (r *Report) For(kind string) KindSummary {
	for _, s := range r.Summary {
		if s.Kind == kind {
			return s
		}
	}
	return KindSummary{Kind: kind}
}

// Write renders the report in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatTable:
		return WriteTable(w, r)
	default:
		return WriteText(w, r)
	}
}

// WriteText prints the change log, the rejected section and the summary.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder
	for _, line := range r.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(r.Rejected) > 0 {
		b.WriteString("\nRejected:\n")
		for _, rej := range r.Rejected {
			fmt.Fprintf(&b, "  %s '%s' (row %d): %s\n", rej.Kind, rej.Label, rej.Row, rej.Reason)
		}
	}
	b.WriteString("\nSummary:\n")
	for _, s := range r.Summary {
		fmt.Fprintf(&b, "  %s: %d created, %d updated, %d unchanged, %d rejected\n",
			s.Kind, s.Created, s.Updated, s.Unchanged, s.Rejected)
	}
	if r.DryRun {
		b.WriteString("\nDry run: no changes were persisted.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTable prints the change log followed by summary and rejected tables.
func WriteTable(w io.Writer, r *Report) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{}))
	table.Header("Kind", "Created", "Updated", "Unchanged", "Rejected")
	rows := append(append([]KindSummary{}, r.Summary...), r.Totals())
	for _, s := range rows {
		if err := table.Append(s.Kind, strconv.Itoa(s.Created), strconv.Itoa(s.Updated),
			strconv.Itoa(s.Unchanged), strconv.Itoa(s.Rejected)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.Rejected) > 0 {
		rejected := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{}))
		rejected.Header("Kind", "Record", "Row", "Reason")
		for _, rej := range r.Rejected {
			if err := rejected.Append(rej.Kind, rej.Label, strconv.Itoa(rej.Row), rej.Reason); err != nil {
				return err
			}
		}
		if err := rejected.Render(); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the full report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML prints the full report as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	data, err := yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
