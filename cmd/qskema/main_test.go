package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specYAML = `
"0":
  type: string
  name: foo
  required: true
"1":
  type: group
  name: spam
  items:
    "0":
      type: mapping
      name: eggs
      table:
        "0": foo
        "1": bar
        "2": ham
`

func writeSpec(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(p, []byte(specYAML), 0o644))
	return p
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func TestRun_Parse(t *testing.T) {
	code, out, stderr := runCLI(t, "", "parse", "-schema", writeSpec(t), "-q", "0=bar&1.0=1")
	require.Equal(t, 0, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "bar", got["foo"])
	assert.Equal(t, map[string]any{"eggs": "bar"}, got["spam"])
}

func TestRun_ParseFromStdin(t *testing.T) {
	code, out, _ := runCLI(t, "0=ham\n", "parse", "-schema", writeSpec(t))
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"foo": "ham"`)
}

func TestRun_ParseInvalid(t *testing.T) {
	code, _, stderr := runCLI(t, "", "parse", "-schema", writeSpec(t), "-q", "1.0=1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "required")
}

func TestRun_Decode(t *testing.T) {
	code, out, _ := runCLI(t, "", "decode", "-syntax", "bracket", "-q", "a[b]=1&a[b]=2")
	require.Equal(t, 0, code)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"a": map[string]any{"b": []any{"1", "2"}}}, got)
}

func TestRun_MapUnmap(t *testing.T) {
	spec := writeSpec(t)

	code, out, _ := runCLI(t, "", "map", "-schema", spec, "-path", "spam__eggs", "-key", "0,2")
	require.Equal(t, 0, code)
	var keys []any
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, []any{"foo", "ham"}, keys)

	code, out, _ = runCLI(t, "", "unmap", "-schema", spec, "-path", "spam__eggs", "-value", "bar", "-coerce", "int")
	require.Equal(t, 0, code)
	assert.Equal(t, "1", strings.TrimSpace(out))
}

func TestRun_Item(t *testing.T) {
	code, out, _ := runCLI(t, "", "item", "-schema", writeSpec(t), "-path", "spam__eggs")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"type": "mapping"`)
	assert.Contains(t, out, `"name": "eggs"`)
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, _ = runCLI(t, "", "parse", "-q", "a=1")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "decode", "-syntax", "json", "-q", "a=1")
	assert.Equal(t, 2, code)
}

func TestRun_Schema(t *testing.T) {
	code, out, _ := runCLI(t, "", "schema", "-schema", writeSpec(t))
	require.Equal(t, 0, code)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []any{"0"}, got["required"])

	code, out, _ = runCLI(t, "", "schema", "-schema", writeSpec(t), "-path", "spam__eggs")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"enum"`)
}

func TestRun_VerboseAndDump(t *testing.T) {
	code, out, stderr := runCLI(t, "", "parse", "-v", "-dump", "-schema", writeSpec(t), "-q", "0=bar")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "loading schema")
	assert.Contains(t, stderr, "compiled schema")
	assert.Contains(t, out, "qskema.Value")
}
