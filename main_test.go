package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faraid-engine/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	lang, asJSON, trace, reqFile, envFile = "", false, false, "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRequest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const husbandAndSons = `{
	"deceased_gender": "female",
	"heirs": [
		{"category": "husband", "count": 1},
		{"category": "son", "count": 3}
	],
	"estate": {"gross_value": "1200"}
}`

func TestCalculateTable(t *testing.T) {
	out, err := execute(t, "calculate", "-f", writeRequest(t, husbandAndSons))
	require.NoError(t, err)

	assert.Contains(t, out, "Husband")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "900.00")
}

func TestCalculateJSON(t *testing.T) {
	out, err := execute(t, "calculate", "-f", writeRequest(t, husbandAndSons), "--json", "--lang", "ml")
	require.NoError(t, err)

	var resp model.CalculationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	assert.Equal(t, "ml", resp.CalculationMetadata.Language)

	husband, ok := resp.CalculationResult.Distribution.Share(model.Husband, model.BasisFixed)
	require.True(t, ok)
	assert.Equal(t, "ഭർത്താവ്", husband.Label)
}

func TestCalculateReportsCriticalMessages(t *testing.T) {
	body := `{"deceased_gender": "male", "heirs": [{"category": "husband", "count": 1}], "estate": {"gross_value": 10}}`
	out, err := execute(t, "calculate", "-f", writeRequest(t, body))

	require.Error(t, err)
	assert.Contains(t, out, model.CodeSpouseGenderMismatch)
}

func TestCalculateMissingFile(t *testing.T) {
	_, err := execute(t, "calculate", "-f", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, "categories", "--lang", "ar")
	require.NoError(t, err)
	assert.Contains(t, out, "full_brother")
}

func TestCalculateTrace(t *testing.T) {
	out, err := execute(t, "calculate", "-f", writeRequest(t, husbandAndSons), "--trace")
	require.NoError(t, err)

	var resp model.CalculationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.CalculationResult.Trace)
	assert.Equal(t, "intake", resp.CalculationResult.Trace[0].Stage)
}
