package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipscout/pipscout/internal/license"
	"github.com/pipscout/pipscout/internal/models"
	"github.com/pipscout/pipscout/internal/requirements"
)

func init() {
	// Keep assertions free of escape sequences
	color.NoColor = true
}

func sampleAssessment() *models.ComplexityAssessment {
	return &models.ComplexityAssessment{
		Package:        "torch",
		Version:        "2.4.0",
		Score:          7,
		Indicators:     []string{"known heavy package \"torch\": +3"},
		Classification: models.ClassHigh,
		Strategy:       models.StrategyBuildFromSource,
	}
}

func TestAssessmentText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, false).Assessment(sampleAssessment()))

	out := buf.String()
	assert.Contains(t, out, "torch 2.4.0")
	assert.Contains(t, out, "score:          7")
	assert.Contains(t, out, "classification: high")
	assert.Contains(t, out, "strategy:       build-from-source")
	assert.Contains(t, out, "known heavy package")
}

func TestAssessmentJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, true).Assessment(sampleAssessment()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "torch", decoded["package"])
	assert.Equal(t, float64(7), decoded["score"])
	assert.Equal(t, "high", decoded["classification"])
	assert.Equal(t, "build-from-source", decoded["strategy"])
}

func TestLicenseText(t *testing.T) {
	var buf bytes.Buffer
	result := license.Result{License: "MIT", Source: "license_expression"}
	require.NoError(t, NewRenderer(&buf, false).License("pkg", result))
	assert.Contains(t, buf.String(), "LICENSE FOUND: MIT")

	buf.Reset()
	miss := license.Result{RepositoryURL: "https://github.com/example/pkg"}
	require.NoError(t, NewRenderer(&buf, false).License("pkg", miss))
	assert.Contains(t, buf.String(), "No license found")
	assert.Contains(t, buf.String(), "SOURCE REPOSITORY: https://github.com/example/pkg")
}

func TestFileChangesPlain(t *testing.T) {
	var buf bytes.Buffer
	changes := requirements.Changes{
		Changed: []string{"torch==2.3.0" + requirements.Arrow + "torch==2.4.0"},
		Added:   []string{"fresh==0.1"},
	}
	NewRenderer(&buf, false).FileChanges("common.txt", changes, false)

	out := buf.String()
	assert.Contains(t, out, "=== common.txt ===")
	assert.Contains(t, out, "+ fresh==0.1")
	assert.Contains(t, out, "~ torch==2.3.0")
}

func TestFileChangesPrettyEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false).FileChanges("common.txt", requirements.Changes{}, true)
	assert.Contains(t, buf.String(), "No changes detected")
}

func TestSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []requirements.Row{
		{File: "common.txt", Package: "torch", OldVersion: "==2.3.0", NewVersion: "==2.4.0", Kind: "Changed"},
		{File: "common.txt", Package: strings.Repeat("x", 50), OldVersion: "-", NewVersion: "==1.0", Kind: "Added"},
	}
	NewRenderer(&buf, false).SummaryTable(rows)

	out := buf.String()
	assert.Contains(t, out, "torch")
	// Long names truncate with an ellipsis
	assert.Contains(t, out, "...")
}
