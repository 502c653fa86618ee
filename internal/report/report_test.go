// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vdxconvert/pkg/types"
)

func sampleResults() []types.Result {
	return []types.Result{
		{Filename: "a.vsdx", Output: "a.vdx", Archive: "a.vsdx", Success: true, Seconds: 0.42},
		{Filename: "b.vsd", Success: false, Seconds: 1.5, Err: "backend unavailable: neither unoconv nor soffice found for .vsd files"},
		{Filename: "c.vsdm", Output: "c.vdx", Archive: "c.vsdm", Success: true, Seconds: 0.08},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 2.0, s.TotalSeconds, 1e-9)
	assert.True(t, s.HasFailures())

	assert.False(t, Summarize(nil).HasFailures())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, sampleResults())
	out := buf.String()

	assert.Contains(t, out, "Total files processed: 3")
	assert.Contains(t, out, "Successful conversions: 2")
	assert.Contains(t, out, "Failed conversions: 1")
	assert.Contains(t, out, "Total processing time: 2.00s")
	assert.Contains(t, out, "b.vsd: backend unavailable")
}

func TestPrintNoFailures(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, []types.Result{{Filename: "a.vsdx", Output: "a.vdx", Archive: "a.vsdx", Success: true}})
	assert.NotContains(t, buf.String(), "Failed conversions:\n  ")
}

func TestCSVPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := CSVPath("logs", now)
	assert.Equal(t, filepath.Join("logs", "conversion_report_20260314_150926.csv"), got)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteCSV(sampleResults(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per result")

	assert.Equal(t, []string{"filename", "output", "archive", "success", "time", "error"}, rows[0])
	assert.Equal(t, []string{"a.vsdx", "a.vdx", "a.vsdx", "true", "0.42", ""}, rows[1])
	assert.Equal(t, "false", rows[2][3])
	assert.Contains(t, rows[2][5], "backend unavailable")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	path, err := Export(sampleResults(), dir, "yaml", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conversion_report_20260314_150926.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back []types.Result
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, sampleResults(), back)

	path, err = Export(sampleResults(), dir, "json", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conversion_report_20260314_150926.json"), path)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	back = nil
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sampleResults(), back)
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(sampleResults(), t.TempDir(), "xml", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported export format "xml"`)
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteYAML(sampleResults(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back []types.Result
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, sampleResults(), back)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleResults(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back []types.Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sampleResults(), back)
}
