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
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.toml", "[store]\nin_memory = true\n[ui]\ncolor = \"never\"\n")

	root := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTemp(t, dir, "old.json", `{"name": "objcompare", "tags": ["json"], "draft": true}`)
	newPath := writeTemp(t, dir, "new.yaml", "name: objcompare\ntags:\n  - json\n  - yaml\n")

	out, _, err := runRoot(t, "", "diff", oldPath, newPath)
	assert.Equal(t, errDifferent{}, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, "REMOVE  draft   true (boolean)\nCREATE  tags.1  \"yaml\" (string)\n", out)
}

func TestDiffCommandIdentical(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTemp(t, dir, "old.json", `{"a": [1, 2]}`)

	out, _, err := runRoot(t, "a: [1, 2]\n", "diff", oldPath, "-")
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", out)
}

func TestDiffCommandParseError(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTemp(t, dir, "old.json", `{"a": 1}`)
	newPath := writeTemp(t, dir, "new.yaml", "")

	_, _, err := runRoot(t, "", "diff", oldPath, newPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
	assert.Equal(t, 2, exitCode(err))
}

func TestDiffCommandJSON(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTemp(t, dir, "old.json", `{"a": 1}`)
	newPath := writeTemp(t, dir, "new.json", `{"a": 2}`)

	out, stderr, err := runRoot(t, "", "diff", "--json", "--stats", oldPath, newPath)
	assert.Equal(t, errDifferent{}, err)

	var changes [][]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &changes))
	assert.Equal(t, [][]interface{}{{"change", "/a", float64(1), float64(2)}}, changes)
	assert.Contains(t, stderr, "1 change")
	assert.NotContains(t, stderr, "\x1b[")
}

func TestDiffCommandStatsColor(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTemp(t, dir, "old.json", `{"a": 1}`)
	newPath := writeTemp(t, dir, "new.json", `{"a": 1, "b": 2}`)

	out, stderr, err := runRoot(t, "", "diff", "--stats", "--color", "always", oldPath, newPath)
	assert.Equal(t, errDifferent{}, err)
	assert.Contains(t, stderr, "\x1b[32m1 creation.\x1b[0m")
	assert.Contains(t, out, "\x1b[32mCREATE  b  2 (number)\x1b[0m")
}

func TestDiffCommandMissingFile(t *testing.T) {
	_, _, err := runRoot(t, "", "diff", filepath.Join(t.TempDir(), "nope.json"), "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json")
}
