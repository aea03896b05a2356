package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema/engine/internal/cpm"
)

const plan = `
task "a" {
  name     = "Excavation"
  duration = 3
}
task "b" {
  duration     = 2
  predecessors = ["a"]
}
task "c" {
  duration     = 4
  predecessors = ["a"]
}
task "d" {
  duration     = 1
  predecessors = ["b", "c"]
}
`

func writePlan(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze_Table(t *testing.T) {
	out, err := run(t, "analyze", writePlan(t, plan))
	require.NoError(t, err)

	assert.Contains(t, out, "Project duration: 8")
	assert.Contains(t, out, "Critical path:    Excavation -> c -> d")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"b", "2", "3", "5", "5", "7", "2"}, strings.Fields(lines[len(lines)-3]))
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := run(t, "analyze", "--json", writePlan(t, plan))
	require.NoError(t, err)

	var res cpm.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 8, res.ProjectDuration)
	assert.Equal(t, []string{"a", "c", "d"}, res.CriticalPath)
	assert.Len(t, res.Entries, 4)
}

func TestAnalyze_CriticalOnly(t *testing.T) {
	out, err := run(t, "analyze", "--json", "--critical-only", writePlan(t, plan))
	require.NoError(t, err)

	var res cpm.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Entries, 3)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)

	_, err = run(t, "analyze", writePlan(t, `
task "a" {
  duration     = 1
  predecessors = ["b"]
}
task "b" {
  duration     = 1
  predecessors = ["a"]
}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, cpm.ErrCycleDetected)
}
