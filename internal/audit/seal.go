package audit

import "fmt"

// AggregateSeals scans per-page seal observations in page order, emitting one
// issue per violated seal attribute and the document-level summary. After
// scanning it reconciles requirement against presence: pages requiring a seal
// with none detected anywhere is a single document ERROR naming the first
// such page; a seal detected when no page requires one is a single document
// WARNING. The two verdicts cannot both fire.
func AggregateSeals(pages []PageSealExtraction) ([]Issue, SealSummary) {
	issues := make([]Issue, 0)
	summary := SealSummary{
		TotalPages:         len(pages),
		PagesRequiringSeal: make([]int, 0),
		GlobalErrors:       make([]string, 0),
		GlobalWarnings:     make([]string, 0),
	}

	for _, p := range pages {
		if p.RequiresSeal {
			summary.PagesRequiringSeal = append(summary.PagesRequiringSeal, p.Page)
		}
		if len(p.Seals) > 0 {
			summary.AnyValidSealDetected = true
		}
		for _, seal := range p.Seals {
			if !seal.IsRed {
				issues = append(issues, Issue{
					Page:     p.Page,
					Severity: SeverityError,
					Message:  fmt.Sprintf("【红章】第 %d 页印章非红色", p.Page),
				})
			}
			if !seal.IsComplete {
				issues = append(issues, Issue{
					Page:     p.Page,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("【完整性】第 %d 页印章不完整（可能被裁剪）", p.Page),
				})
			}
			if !seal.IsNormalSize {
				issues = append(issues, Issue{
					Page:     p.Page,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("【尺寸】第 %d 页印章尺寸异常（过小）", p.Page),
				})
			}
			if seal.SealText == IllegibleSeal {
				issues = append(issues, Issue{
					Page:     p.Page,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("【清晰度】第 %d 页印章文字无法辨认", p.Page),
				})
			}
		}
	}

	switch {
	case len(summary.PagesRequiringSeal) > 0 && !summary.AnyValidSealDetected:
		msg := fmt.Sprintf("【缺失】第 %d 页要求盖章，但全文档未检测到任何印章", summary.PagesRequiringSeal[0])
		summary.GlobalErrors = append(summary.GlobalErrors, msg)
		issues = append(issues, Issue{Severity: SeverityError, Message: msg})
	case len(summary.PagesRequiringSeal) == 0 && summary.AnyValidSealDetected:
		msg := "【冗余】文档无需盖章页面，但检测到印章"
		summary.GlobalWarnings = append(summary.GlobalWarnings, msg)
		issues = append(issues, Issue{Severity: SeverityWarning, Message: msg})
	}

	return issues, summary
}
