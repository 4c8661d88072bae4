package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	var body map[string]any
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	}
	return body, err
}

func TestINNCommand(t *testing.T) {
	body, err := run(t, "inn", "7707083893")
	require.NoError(t, err)
	assert.Equal(t, "inn10", body["kind"])
	assert.Equal(t, true, body["valid"])

	body, err = run(t, "inn", "7707083894")
	assert.Error(t, err)
	assert.Equal(t, false, body["valid"])
}

func TestExtractCommand_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	body, err := run(t, "extract", path)
	assert.ErrorIs(t, err, errPrinted)
	assert.Equal(t, "error", body["status"])
	assert.EqualValues(t, 415, body["error_code"])
}

func TestExtractCommand_InvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o600))

	body, err := run(t, "extract", path)
	assert.ErrorIs(t, err, errPrinted)
	assert.EqualValues(t, 400, body["error_code"])
}

func TestNormalizeLangs(t *testing.T) {
	assert.Equal(t, []string{"rus", "eng", "deu"}, normalizeLangs([]string{"rus+eng", " deu "}))
}
