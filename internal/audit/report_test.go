package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleContractReportProjections(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityError, Message: "e1"},
		{Severity: SeverityWarning, Message: "w1"},
		{Severity: SeverityError, Message: "e2"},
		{Severity: SeverityWarning, Message: "w2"},
	}
	report := AssembleContractReport(nil, MergeContractFields(nil), issues)

	// Projections preserve issue order within each severity.
	assert.Equal(t, []string{"e1", "e2"}, report.Errors)
	assert.Equal(t, []string{"w1", "w2"}, report.Warnings)
	assert.Equal(t, issues, report.IssuesDetail)
}

func TestAssembleContractReportKeepsRawData(t *testing.T) {
	raw := []PageExtraction{
		{Page: 1, Fields: map[string]string{FieldContractName: "合同"}},
		{Page: 2, Fields: map[string]string{}},
	}
	report := AssembleContractReport(raw, MergeContractFields(raw), nil)
	assert.Equal(t, raw, report.RawData)
	assert.NotNil(t, report.IssuesDetail)
}

func TestReportJSONContract(t *testing.T) {
	// Exporters depend on these exact field names and severity literals.
	issues := []Issue{
		{Page: 2, Severity: SeverityError, Message: "第 2 页印章非红色"},
		{Severity: SeverityWarning, Message: "文档级提示"},
	}
	_, summary := AggregateSeals([]PageSealExtraction{{Page: 1, RequiresSeal: true}})
	report := AssembleSealReport(nil, summary, issues)

	b, err := json.Marshal(report)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"errors", "warnings", "raw_data", "summary", "issues_detail"} {
		assert.Contains(t, m, key)
	}

	details, ok := m["issues_detail"].([]any)
	require.True(t, ok)
	require.Len(t, details, 2)

	first, ok := details[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), first["Page"])
	assert.Equal(t, "ERROR", first["Type"])
	assert.Equal(t, "第 2 页印章非红色", first["Message"])

	// Document-level issues omit the page key.
	second, ok := details[1].(map[string]any)
	require.True(t, ok)
	_, hasPage := second["Page"]
	assert.False(t, hasPage)
	assert.Equal(t, "WARNING", second["Type"])

	sm, ok := m["summary"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"total_pages", "pages_requiring_seal", "any_valid_seal_detected", "global_errors", "global_warnings"} {
		assert.Contains(t, sm, key)
	}
}

func TestAssembleEmptyReportMarshalsEmptyArrays(t *testing.T) {
	report := AssembleContractReport(nil, MergeContractFields(nil), nil)
	b, err := json.Marshal(report)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"errors":[]`)
	assert.Contains(t, s, `"warnings":[]`)
	assert.Contains(t, s, `"raw_data":[]`)
	assert.NotContains(t, s, "null")
}
