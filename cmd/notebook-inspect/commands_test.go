package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"notebook-core/pkg/message"
	"notebook-core/pkg/notebook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeNotebook(t *testing.T) (string, *notebook.Notebook) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_FILE_PATH", filepath.Join(dir, "notebook.log"))
	t.Setenv("EVENT_LOG_FILE_PATH", filepath.Join(dir, "events.log"))

	nb := notebook.New("demo", "")
	_, err := nb.AddInputOutput(message.NewCypherMessage("MATCH (n) RETURN n", ""), message.NewTextMessage("3 rows"), "", notebook.After)
	require.NoError(t, err)
	_, err = nb.AddMessage(message.NewMarkdownMessage("# notes"), "", notebook.After)
	require.NoError(t, err)

	raw, err := nb.ToJSON(false)
	require.NoError(t, err)
	path := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path, nb
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLs(t *testing.T) {
	path, nb := writeNotebook(t)

	out, err := run(t, "ls", path)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, nb.IdSequence()[0])
	assert.Contains(t, out, "CypherMessage -> [TextMessage]")
	assert.Contains(t, out, "MarkdownMessage -> []")
}

func TestValidate(t *testing.T) {
	path, _ := writeNotebook(t)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok, 2 cells")
	assert.NotContains(t, out, "normalized")
}

func TestValidateReportsNormalization(t *testing.T) {
	path, _ := writeNotebook(t)
	sparse := filepath.Join(filepath.Dir(path), "sparse.json")
	require.NoError(t, os.WriteFile(sparse, []byte(`{"typeName":"Notebook","id":"nb","name":"sparse",
		"cells":[{"inputMessage":{"typeName":"TextMessage","id":"m1","text":"hi"}}]}`), 0o644))

	out, err := run(t, "validate", sparse)
	require.NoError(t, err)
	assert.Contains(t, out, "normalized on decode")
	assert.Contains(t, out, "ok, 1 cells")
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	path, _ := writeNotebook(t)
	broken := filepath.Join(filepath.Dir(path), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":"x","cells":[{"outputMessages":[]}]}`), 0o644))

	_, err := run(t, "validate", broken)
	assert.ErrorIs(t, err, notebook.ErrInvalidArgument)
}

func TestFmtExcludeOutput(t *testing.T) {
	path, _ := writeNotebook(t)

	out, err := run(t, "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"outputMessages"`)

	out, err = run(t, "fmt", "--exclude-output", path)
	require.NoError(t, err)
	assert.NotContains(t, out, `"outputMessages"`)
}

func TestFmtYAML(t *testing.T) {
	path, nb := writeNotebook(t)

	out, err := run(t, "fmt", "--yaml", path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "demo", doc["name"])
	assert.Equal(t, nb.Id, doc["id"])
	assert.Len(t, doc["cells"], 2)
}
