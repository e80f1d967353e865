package reconcile

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		RunID:  "run-1",
		DryRun: true,
		Events: []Event{
			Created("Index", "Perennial"),
			Unchanged("CommonName", "Foxglove"),
		},
		Records: []RecordResult{
			{Kind: "Index", Label: "Perennial", Row: 1, State: StateDiffed, Outcome: OutcomeCreated, Changes: 1},
			{Kind: "CommonName", Label: "Foxglove", Row: 1, State: StateDiffed, Outcome: OutcomeUnchanged},
			{Kind: "BotanicalName", Label: "Invalid Botanical Name", Row: 1, State: StateRejected, Outcome: OutcomeRejected, Reason: "bad"},
		},
		Summary: []KindSummary{
			{Kind: "Index", Created: 1},
			{Kind: "CommonName", Unchanged: 1},
			{Kind: "BotanicalName", Rejected: 1},
		},
		Rejected: []Rejection{{Kind: "BotanicalName", Label: "Invalid Botanical Name", Row: 1, Reason: "bad"}},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Format(""), f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, DetectFormat(FormatYAML))
}

func TestReportTotals(t *testing.T) {
	r := sampleReport()
	total := r.Totals()
	assert.Equal(t, 3, total.Total())
	assert.Equal(t, 1, total.Rejected)
	assert.Equal(t, KindSummary{Kind: "Series"}, r.For("Series"))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "No changes were made to 'Foxglove'.")
	assert.Contains(t, out, "Rejected:")
	assert.Contains(t, out, "BotanicalName 'Invalid Botanical Name' (row 1): bad")
	assert.Contains(t, out, "Index: 1 created, 0 updated, 0 unchanged, 0 rejected")
	assert.Contains(t, out, "Dry run")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Perennial")
	assert.Contains(t, out, "BotanicalName")
	assert.Contains(t, out, "Invalid Botanical Name")
}

func TestWriteJSONAndYAML(t *testing.T) {
	r := sampleReport()

	var jsonBuf bytes.Buffer
	require.NoError(t, Write(&jsonBuf, r, FormatJSON))
	var decoded Report
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, r.Lines(), decoded.Lines())
	assert.Equal(t, r.Summary, decoded.Summary)

	var yamlBuf bytes.Buffer
	require.NoError(t, Write(&yamlBuf, r, FormatYAML))
	assert.Contains(t, yamlBuf.String(), "run_id: run-1")

	var fromYAML Report
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, r.Rejected, fromYAML.Rejected)
}
