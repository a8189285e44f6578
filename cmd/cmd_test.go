package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestYAML = `
calendar:
  - {key: 301, class: weekday, availability: {alice: "○", bob: "○", carol: "○"}}
  - {key: 302, class: weekday, availability: {alice: "○", bob: "○", carol: "○"}}
  - {key: 303, class: holiday, availability: {alice: "○", carol: "○"}}
lead: [alice]
pool: [bob, carol]
group_size: 1
required_hours: 6
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		searchOpts.format = "json"
		searchOpts.rank = ""
		searchOpts.requestID = ""
		historyOpts.requestID = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixtures(t *testing.T) (cfg, req string) {
	t.Helper()
	dir := t.TempDir()
	cfg = filepath.Join(dir, "config.yaml")
	req = filepath.Join(dir, "request.yaml")
	conf := "runlog:\n  backend: jsonl\n  path: " + filepath.Join(dir, "runs.jsonl") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(conf), 0o644))
	require.NoError(t, os.WriteFile(req, []byte(requestYAML), 0o644))
	return cfg, req
}

func TestSearchCommandCSV(t *testing.T) {
	cfg, req := writeFixtures(t)
	out, err := execute(t, "search", req, "-c", cfg, "--format", "csv", "--request-id", "cli-1")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "3/3", rows[1][1])
	assert.Equal(t, "carol", rows[1][8])

	hist, err := execute(t, "history", "-c", cfg, "--request-id", "cli-1")
	require.NoError(t, err)
	assert.Contains(t, hist, "cli-1")
	assert.Contains(t, hist, "completed")
}

func TestSearchCommandWeekdayFirst(t *testing.T) {
	cfg, req := writeFixtures(t)
	out, err := execute(t, "search", req, "-c", cfg, "-f", "csv", "--rank", "weekday-first")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "3/1 3/2", rows[1][1])
}

func TestSearchCommandRejectsFormat(t *testing.T) {
	cfg, req := writeFixtures(t)
	_, err := execute(t, "search", req, "-c", cfg, "--format", "xml")
	assert.Error(t, err)
}
