package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.src")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runOutlineCapture(t *testing.T, path string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runOutline(cmd, []string{path}))
	return buf.String()
}

func TestOutlineCommand_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"outline"})
	assert.NoError(t, err)
	assert.NotNil(t, cmd)
	assert.Equal(t, "outline", cmd.Name())
}

func TestRunOutline_Report(t *testing.T) {
	path := writeFixture(t, "module Foo\nlet x = 1\n")
	outlineFormat, outlineOutput, outlineColor = "report", "", "auto"

	output := runOutlineCapture(t, path)
	assert.True(t, strings.HasPrefix(output, "---\n"))
	assert.Contains(t, output, "type : file")
	assert.Contains(t, output, "locationSpan : {start: [1,0], end: [3,0]}")
	assert.Contains(t, output, "name : Foo")
}

func TestRunOutline_JSON(t *testing.T) {
	path := writeFixture(t, "module Foo\nlet x = 1\n")
	outlineFormat, outlineOutput, outlineColor = "json", "", "auto"

	output := runOutlineCapture(t, path)
	assert.True(t, json.Valid([]byte(output)))
	assert.Contains(t, output, `"parsingErrorsDetected": false`)
	assert.Contains(t, output, `"name": "Foo"`)
}

func TestRunOutline_Tree(t *testing.T) {
	path := writeFixture(t, "module Foo\nlet x = 1\n")
	outlineFormat, outlineOutput, outlineColor = "tree", "", "never"

	output := runOutlineCapture(t, path)
	assert.Contains(t, output, "module Foo")
	assert.Contains(t, output, "let x")
	assert.NotContains(t, output, "\033[")
}

func TestRunOutline_TreeDiagnostics(t *testing.T) {
	path := writeFixture(t, "module A\nlet = 5\n")
	outlineFormat, outlineOutput, outlineColor = "tree", "", "never"

	output := runOutlineCapture(t, path)
	assert.Contains(t, output, "Parsing errors:")
	assert.Contains(t, output, "missing name or pattern in let binding")
}

func TestRunOutline_OutputFile(t *testing.T) {
	path := writeFixture(t, "module Foo\nlet x = 1\n")
	dest := filepath.Join(t.TempDir(), "report.txt")
	outlineFormat, outlineOutput, outlineColor = "report", dest, "auto"

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runOutline(cmd, []string{path}))

	assert.Zero(t, buf.Len())
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
}

func TestRunOutline_UnknownFormat(t *testing.T) {
	path := writeFixture(t, "module Foo\nlet x = 1\n")
	outlineFormat, outlineOutput, outlineColor = "yaml", "", "auto"

	cmd := &cobra.Command{}
	err := runOutline(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRunOutline_MissingFile(t *testing.T) {
	outlineFormat, outlineOutput, outlineColor = "report", "", "auto"

	cmd := &cobra.Command{}
	err := runOutline(cmd, []string{filepath.Join(t.TempDir(), "absent.src")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading file")
}
