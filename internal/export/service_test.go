package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

func sampleSealReport() *audit.SealReport {
	raw := []audit.PageSealExtraction{
		{Page: 1, RequiresSeal: true, Seals: []audit.SealObservation{
			{IsRed: true, IsComplete: false, IsNormalSize: true, SealText: "某公司 合同专用章"},
		}},
		{Page: 2, RequiresSeal: false, Seals: []audit.SealObservation{}},
	}
	issues, summary := audit.AggregateSeals(raw)
	return audit.AssembleSealReport(raw, summary, issues)
}

func TestSealReportXLSX(t *testing.T) {
	out, err := NewService(nil).SealReportXLSX(sampleSealReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"原始印章数据", "问题详情", "全局摘要"}, f.GetSheetList())

	rows, err := f.GetRows("原始印章数据")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + one seal row + one empty-page row
	assert.Equal(t, []string{"Page", "RequiresSeal", "SealIndex", "IsRed", "IsComplete", "IsNormalSize", "SealText"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "某公司 合同专用章", rows[1][6])

	issueRows, err := f.GetRows("问题详情")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(issueRows), 2)
	assert.Equal(t, []string{"Page", "Type", "Message"}, issueRows[0])
	assert.Equal(t, "WARNING", issueRows[1][1])

	summaryRows, err := f.GetRows("全局摘要")
	require.NoError(t, err)
	assert.Equal(t, "总页数", summaryRows[1][0])
	assert.Equal(t, "2", summaryRows[1][1])
	assert.Equal(t, "1", summaryRows[2][1]) // pages requiring seal
	assert.Equal(t, "是", summaryRows[3][1])
}

func TestSealReportXLSXNoIssues(t *testing.T) {
	raw := []audit.PageSealExtraction{
		{Page: 1, RequiresSeal: true, Seals: []audit.SealObservation{
			{IsRed: true, IsComplete: true, IsNormalSize: true, SealText: "某公司 公章"},
		}},
	}
	issues, summary := audit.AggregateSeals(raw)
	out, err := NewService(nil).SealReportXLSX(audit.AssembleSealReport(raw, summary, issues))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("问题详情")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INFO", rows[1][1])
	assert.Equal(t, "无问题", rows[1][2])
}

func TestContractReportXLSX(t *testing.T) {
	merged := audit.MergeContractFields([]audit.PageExtraction{
		{Page: 1, Fields: map[string]string{audit.FieldContractName: "采购合同"}},
	})
	report := audit.AssembleContractReport(nil, merged, []audit.Issue{
		{Severity: audit.SeverityError, Message: "【2】未识别到合同编号"},
	})

	out, err := NewService(nil).ContractReportXLSX(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("合同字段")
	require.NoError(t, err)
	require.Len(t, rows, len(audit.ContractFields)+1)
	assert.Equal(t, "contract_name", rows[1][0])
	assert.Equal(t, "采购合同", rows[1][1])
}

func TestContractRawJSON(t *testing.T) {
	raw := []audit.PageExtraction{
		{Page: 1, Fields: map[string]string{audit.FieldContractID: "HT-1"}},
	}
	report := audit.AssembleContractReport(raw, audit.MergeContractFields(raw), nil)

	b, err := NewService(nil).ContractRawJSON("/docs/a.pdf", report)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "/docs/a.pdf", m["pdf_path"])
	assert.Contains(t, m, "page_results")
	assert.Contains(t, m, "merged_fields")
}
