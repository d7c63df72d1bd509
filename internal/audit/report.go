package audit

// AssembleContractReport packages the untouched per-page extractions, the
// canonical record, and the evaluated issues into one report. Pure
// transformation; persisting the result is the caller's concern.
func AssembleContractReport(raw []PageExtraction, merged CanonicalContract, issues []Issue) *ContractReport {
	if raw == nil {
		raw = make([]PageExtraction, 0)
	}
	if issues == nil {
		issues = make([]Issue, 0)
	}
	return &ContractReport{
		Errors:       projectMessages(issues, SeverityError),
		Warnings:     projectMessages(issues, SeverityWarning),
		RawData:      raw,
		Summary:      merged,
		IssuesDetail: issues,
	}
}

// AssembleSealReport is the seal-audit counterpart of AssembleContractReport.
func AssembleSealReport(raw []PageSealExtraction, summary SealSummary, issues []Issue) *SealReport {
	if raw == nil {
		raw = make([]PageSealExtraction, 0)
	}
	if issues == nil {
		issues = make([]Issue, 0)
	}
	return &SealReport{
		Errors:       projectMessages(issues, SeverityError),
		Warnings:     projectMessages(issues, SeverityWarning),
		RawData:      raw,
		Summary:      summary,
		IssuesDetail: issues,
	}
}

// projectMessages filters issues by severity, preserving issue order.
func projectMessages(issues []Issue, sev Severity) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		if is.Severity == sev {
			out = append(out, is.Message)
		}
	}
	return out
}
