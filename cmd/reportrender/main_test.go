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

	"github.com/wolfman30/care-portal/internal/analysis"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderFromStdin(t *testing.T) {
	out, err := run(t, "Possible Conditions:\n- Flu\n- Cold\n")
	require.NoError(t, err)
	assert.Contains(t, out, `id="analysis-results"`)
	assert.Contains(t, out, "Flu")
}

func TestRenderFromFileImageVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("Visual Findings:\nA rash.\nImportant Notes:\n"), 0o600))

	out, err := run(t, "", "--variant", "image", "--placeholder", "--no-wrap", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "image-analysis-results")
	assert.Contains(t, out, "A rash.")
	assert.Contains(t, out, analysis.PlaceholderText)
}

func TestRenderJSONBlocks(t *testing.T) {
	out, err := run(t, "Warning Signs:\nChest pain", "--json")
	require.NoError(t, err)

	var blocks []analysis.Block
	require.NoError(t, json.Unmarshal([]byte(out), &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, analysis.BlockSection, blocks[0].Kind)
	assert.Equal(t, analysis.BlockAdvisory, blocks[1].Kind)
}

func TestRenderErrors(t *testing.T) {
	_, err := run(t, "x", "--variant", "lab")
	assert.Error(t, err)

	_, err = run(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
