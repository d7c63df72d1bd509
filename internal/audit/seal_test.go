package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSealsEmptyDocument(t *testing.T) {
	issues, summary := AggregateSeals(nil)
	assert.Empty(t, issues)
	assert.Equal(t, 0, summary.TotalPages)
	assert.Empty(t, summary.PagesRequiringSeal)
	assert.False(t, summary.AnyValidSealDetected)
	assert.Empty(t, summary.GlobalErrors)
	assert.Empty(t, summary.GlobalWarnings)
}

func TestAggregateSealsPerSealChecks(t *testing.T) {
	issues, summary := AggregateSeals([]PageSealExtraction{
		{Page: 1, RequiresSeal: true, Seals: []SealObservation{
			{IsRed: false, IsComplete: true, IsNormalSize: true, SealText: "某公司 合同专用章"},
		}},
		{Page: 3, RequiresSeal: false, Seals: []SealObservation{
			{IsRed: true, IsComplete: false, IsNormalSize: false, SealText: IllegibleSeal},
		}},
	})

	require.Len(t, issues, 4)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Page)
	assert.Contains(t, issues[0].Message, "非红色")

	// Page-3 issues follow page order and keep their page number.
	for _, is := range issues[1:] {
		assert.Equal(t, 3, is.Page)
		assert.Equal(t, SeverityWarning, is.Severity)
	}
	assert.Contains(t, issues[1].Message, "不完整")
	assert.Contains(t, issues[2].Message, "尺寸")
	assert.Contains(t, issues[3].Message, "无法辨认")

	assert.Equal(t, 2, summary.TotalPages)
	assert.Equal(t, []int{1}, summary.PagesRequiringSeal)
	assert.True(t, summary.AnyValidSealDetected)
	// Requirement satisfied: no reconciliation verdict either way.
	assert.Empty(t, summary.GlobalErrors)
	assert.Empty(t, summary.GlobalWarnings)
}

func TestAggregateSealsMissingSeal(t *testing.T) {
	// Page 1 requires a seal, nothing is detected anywhere: one document-level
	// ERROR naming page 1.
	issues, summary := AggregateSeals([]PageSealExtraction{
		{Page: 1, RequiresSeal: true, Seals: nil},
		{Page: 2, RequiresSeal: false, Seals: nil},
	})

	assert.Equal(t, []int{1}, summary.PagesRequiringSeal)
	assert.False(t, summary.AnyValidSealDetected)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Zero(t, issues[0].Page)
	assert.Contains(t, issues[0].Message, "第 1 页")
	assert.Equal(t, []string{issues[0].Message}, summary.GlobalErrors)
	assert.Empty(t, summary.GlobalWarnings)
}

func TestAggregateSealsRedundantSeal(t *testing.T) {
	issues, summary := AggregateSeals([]PageSealExtraction{
		{Page: 1, RequiresSeal: false, Seals: []SealObservation{
			{IsRed: true, IsComplete: true, IsNormalSize: true, SealText: "某公司 公章"},
		}},
	})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Empty(t, summary.GlobalErrors)
	require.Len(t, summary.GlobalWarnings, 1)
}

func TestAggregateSealsVerdictsExclusive(t *testing.T) {
	// Exhaust the four requirement/presence combinations: missing-seal and
	// redundant-seal can never fire together.
	cases := []struct {
		name     string
		requires bool
		sealed   bool
	}{
		{"required and sealed", true, true},
		{"required not sealed", true, false},
		{"not required sealed", false, true},
		{"not required not sealed", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seals []SealObservation
			if tc.sealed {
				seals = []SealObservation{{IsRed: true, IsComplete: true, IsNormalSize: true}}
			}
			_, summary := AggregateSeals([]PageSealExtraction{
				{Page: 1, RequiresSeal: tc.requires, Seals: seals},
			})
			assert.False(t, len(summary.GlobalErrors) > 0 && len(summary.GlobalWarnings) > 0)
		})
	}
}

func TestAggregateSealsAnySealCountsAsDetected(t *testing.T) {
	// A non-compliant seal still counts as "detected": attribute violations
	// are reported on their own, not via the missing-seal verdict.
	issues, summary := AggregateSeals([]PageSealExtraction{
		{Page: 1, RequiresSeal: true, Seals: []SealObservation{
			{IsRed: false, IsComplete: true, IsNormalSize: true},
		}},
	})
	assert.True(t, summary.AnyValidSealDetected)
	assert.Empty(t, summary.GlobalErrors)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}
