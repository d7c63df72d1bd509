package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

const (
	sheetSealRaw  = "原始印章数据"
	sheetIssues   = "问题详情"
	sheetSummary  = "全局摘要"
	sheetContract = "合同字段"
)

// Service turns audit reports into XLSX workbooks and raw JSON dumps.
// It only produces bytes; writing files is the caller's concern.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SealReportXLSX renders a seal report into a three-sheet workbook: raw
// per-page seal data, issue details with page and severity, and the document
// summary.
func (s *Service) SealReportXLSX(report *audit.SealReport) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	w, err := newSheet(f, sheetSealRaw)
	if err != nil {
		return nil, err
	}
	w.row("Page", "RequiresSeal", "SealIndex", "IsRed", "IsComplete", "IsNormalSize", "SealText")
	for _, page := range report.RawData {
		if len(page.Seals) == 0 {
			w.row(page.Page, page.RequiresSeal, "", "", "", "", "")
			continue
		}
		for i, seal := range page.Seals {
			w.row(page.Page, page.RequiresSeal, i+1, seal.IsRed, seal.IsComplete, seal.IsNormalSize, seal.SealText)
		}
	}

	if err := writeIssueSheet(f, report.IssuesDetail); err != nil {
		return nil, err
	}

	sw, err := newSheet(f, sheetSummary)
	if err != nil {
		return nil, err
	}
	sw.row("Key", "Value")
	sw.row("总页数", report.Summary.TotalPages)
	sw.row("需盖章页面", orNone(joinInts(report.Summary.PagesRequiringSeal)))
	sw.row("是否检测到有效印章", boolHan(report.Summary.AnyValidSealDetected))
	sw.row("全局错误 (ERROR)", orNone(strings.Join(report.Summary.GlobalErrors, "; ")))
	sw.row("全局警告 (WARNING)", orNone(strings.Join(report.Summary.GlobalWarnings, "; ")))

	out, err := finishWorkbook(f, sheetSealRaw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.seal_xlsx.ok",
		"pages", len(report.RawData),
		"issues", len(report.IssuesDetail),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ContractReportXLSX renders a contract report: the merged field table plus
// the issue details.
func (s *Service) ContractReportXLSX(report *audit.ContractReport) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	w, err := newSheet(f, sheetContract)
	if err != nil {
		return nil, err
	}
	w.row("Field", "Value")
	for _, field := range audit.ContractFields {
		w.row(field, report.Summary.Get(field))
	}

	if err := writeIssueSheet(f, report.IssuesDetail); err != nil {
		return nil, err
	}

	out, err := finishWorkbook(f, sheetContract)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.contract_xlsx.ok",
		"issues", len(report.IssuesDetail),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ContractRawJSON dumps the untouched page results and the merged record for
// audit traceability, in the same shape the workbook summary is derived from.
func (s *Service) ContractRawJSON(pdfPath string, report *audit.ContractReport) ([]byte, error) {
	return json.MarshalIndent(map[string]any{
		"pdf_path":      pdfPath,
		"page_results":  report.RawData,
		"merged_fields": report.Summary,
	}, "", "  ")
}

// sheetWriter appends rows to one sheet, tracking the current row number.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
}

func newSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("new sheet %q: %w", name, err)
	}
	return &sheetWriter{f: f, sheet: name, next: 1}, nil
}

func (w *sheetWriter) row(values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.next)
		_ = w.f.SetCellValue(w.sheet, cell, v)
	}
	w.next++
}

func writeIssueSheet(f *excelize.File, issues []audit.Issue) error {
	w, err := newSheet(f, sheetIssues)
	if err != nil {
		return err
	}
	w.row("Page", "Type", "Message")
	if len(issues) == 0 {
		w.row("", "INFO", "无问题")
		return nil
	}
	for _, is := range issues {
		page := ""
		if is.Page > 0 {
			page = strconv.Itoa(is.Page)
		}
		w.row(page, string(is.Severity), is.Message)
	}
	return nil
}

func finishWorkbook(f *excelize.File, active string) ([]byte, error) {
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(active); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "无"
	}
	return s
}

func boolHan(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
