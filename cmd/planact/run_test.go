package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planact/internal/testhelpers"
	"planact/report"
)

func writeInputs(t *testing.T, dir string) map[string]string {
	t.Helper()
	in := testhelpers.SampleInputs(t)
	files := map[string][]byte{
		"shopfloor":       in.Shopfloor,
		"order-book":      in.OrderBook,
		"product-mapping": in.ProductMapping,
		"loading-plan":    in.LoadingPlan,
		"signoff":         in.Signoff,
	}
	paths := make(map[string]string, len(files))
	for flag, data := range files {
		p := filepath.Join(dir, flag+".dat")
		require.NoError(t, os.WriteFile(p, data, 0o600))
		paths[flag] = p
	}
	return paths
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	paths := writeInputs(t, dir)
	out := filepath.Join(dir, "final.xlsx")
	crossTab := filepath.Join(dir, "crosstab.xlsx")
	signoff := filepath.Join(dir, "signoff.xlsx")
	orderBook := filepath.Join(dir, "orderbook.xlsx")
	lines := filepath.Join(dir, "orderbook_lines.xlsx")

	args := []string{"run",
		"--out", out,
		"--crosstab-out", crossTab,
		"--signoff-out", signoff,
		"--orderbook-out", orderBook,
		"--orderbook-lines-out", lines,
		"--preview", "2",
		"--env-file", filepath.Join(dir, "missing.env"),
	}
	for flag, p := range paths {
		args = append(args, "--"+flag, p)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	require.NoError(t, cmd.Execute(), stderr.String())

	final, err := os.ReadFile(out)
	require.NoError(t, err)
	got, err := report.ReadXLSX(final)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Len())

	for _, p := range []string{crossTab, signoff, orderBook} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}

	data, err := os.ReadFile(lines)
	require.NoError(t, err)
	orderLines, err := report.ReadXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, 2, orderLines.Len())
	for _, col := range []string{"Cut Balance", "Cut %", "Sew_Good", "Sew%", "IMS", "Rej%", "Bal_to_Ship", "Del%", "Bal_to_sew", "Bal_to_sew%"} {
		assert.True(t, orderLines.Has(col), col)
	}

	preview := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, preview, 3)
	assert.True(t, strings.HasPrefix(preview[0], "Date"))
	assert.Contains(t, preview[1], "2024-09-19")

	assert.Contains(t, stderr.String(), "merge plan vs actuals")
	assert.Contains(t, stderr.String(), "warning:")
}

func TestRunCommand_MissingFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--shopfloor", "x.csv"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRunCommand_BadInput(t *testing.T) {
	dir := t.TempDir()
	paths := writeInputs(t, dir)
	require.NoError(t, os.WriteFile(paths["order-book"], []byte("Schedule No\n105\n"), 0o600))

	args := []string{"run", "--preview", "0", "--out", filepath.Join(dir, "final.xlsx"),
		"--env-file", filepath.Join(dir, "missing.env")}
	for flag, p := range paths {
		args = append(args, "--"+flag, p)
	}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order book")
}
