package audit

// Severity categorizes a compliance finding. The string values are part of
// the exporter-facing contract and must not change.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Placeholder sentinels emitted by the recognizer when content exists on the
// page but cannot be read. Matched verbatim; distinct from "" (no evidence).
const (
	IllegibleSignature = "（签名模糊）"
	IllegibleSeal      = "（印章模糊）"
)

// Names of the 19 contract extraction fields.
const (
	FieldContractName       = "contract_name"
	FieldContractID         = "contract_id"
	FieldPartyAName         = "party_a_name"
	FieldPartyBName         = "party_b_name"
	FieldEffectiveStart     = "effective_start"
	FieldEffectiveEnd       = "effective_end"
	FieldSealPartyA         = "seal_party_a"
	FieldSealPartyB         = "seal_party_b"
	FieldSignPartyA         = "sign_party_a"
	FieldSignPartyB         = "sign_party_b"
	FieldSettlementMethod   = "settlement_method"
	FieldBankAccountName    = "bank_account_name"
	FieldBankName           = "bank_name"
	FieldBankAccountNumber  = "bank_account_number"
	FieldPaymentTerms       = "payment_terms"
	FieldGoodsName          = "goods_name"
	FieldQuantity           = "quantity"
	FieldTotalAmountInclTax = "total_amount_incl_tax"
	FieldRelatedEntities    = "related_entities"
)

// ContractFields lists every extraction field in reporting order.
var ContractFields = []string{
	FieldContractName,
	FieldContractID,
	FieldPartyAName,
	FieldPartyBName,
	FieldEffectiveStart,
	FieldEffectiveEnd,
	FieldSealPartyA,
	FieldSealPartyB,
	FieldSignPartyA,
	FieldSignPartyB,
	FieldSettlementMethod,
	FieldBankAccountName,
	FieldBankName,
	FieldBankAccountNumber,
	FieldPaymentTerms,
	FieldGoodsName,
	FieldQuantity,
	FieldTotalAmountInclTax,
	FieldRelatedEntities,
}

// PageExtraction is a single page's contract observation as reported by the
// recognizer. Fields always carries every contract field; absent or null
// values are normalized to "" at the boundary before the core sees them.
type PageExtraction struct {
	Page   int               `json:"page"`
	Fields map[string]string `json:"result"`
}

// EmptyPageExtraction returns the all-defaults observation used when a
// page's recognition fails: every field present, every value empty.
func EmptyPageExtraction(page int) PageExtraction {
	fields := make(map[string]string, len(ContractFields))
	for _, f := range ContractFields {
		fields[f] = ""
	}
	return PageExtraction{Page: page, Fields: fields}
}

// SealObservation describes one seal instance found on a page. The boolean
// judgments default to true when the recognizer does not report them, so the
// absence of a judgment is never treated as a violation.
type SealObservation struct {
	IsRed        bool   `json:"is_red"`
	IsComplete   bool   `json:"is_complete"`
	IsNormalSize bool   `json:"is_normal_size"`
	SealText     string `json:"seal_text"`
}

// PageSealExtraction is a single page's seal observation: whether the page's
// content obligates a seal, plus zero or more seals found on it.
type PageSealExtraction struct {
	Page         int               `json:"page"`
	RequiresSeal bool              `json:"requires_seal"`
	Seals        []SealObservation `json:"seals"`
}

// EmptySealExtraction is the seal-mode counterpart of EmptyPageExtraction:
// no seal requirement, no seals.
func EmptySealExtraction(page int) PageSealExtraction {
	return PageSealExtraction{Page: page, Seals: []SealObservation{}}
}

// CanonicalContract is the document-level merged fact base: one value per
// contract field, "" meaning no evidence on any page.
type CanonicalContract map[string]string

// Get returns the merged value for a field, tolerating records that do not
// carry the key at all.
func (c CanonicalContract) Get(field string) string {
	if c == nil {
		return ""
	}
	return c[field]
}

// SealSummary is the document-level seal verdict. GlobalErrors and
// GlobalWarnings hold the reconciliation messages (missing vs redundant seal);
// at most one of the two is ever non-empty.
type SealSummary struct {
	TotalPages           int      `json:"total_pages"`
	PagesRequiringSeal   []int    `json:"pages_requiring_seal"`
	AnyValidSealDetected bool     `json:"any_valid_seal_detected"`
	GlobalErrors         []string `json:"global_errors"`
	GlobalWarnings       []string `json:"global_warnings"`
}

// Issue is one categorized compliance finding. Page is zero for
// document-level findings. JSON field names are pinned by the exporter.
type Issue struct {
	Page     int      `json:"Page,omitempty"`
	Severity Severity `json:"Type"`
	Message  string   `json:"Message"`
}

// ContractReport bundles everything an exporter needs for a contract audit:
// untouched per-page data, the canonical record, the ordered issues, and the
// errors/warnings message projections.
type ContractReport struct {
	Errors       []string          `json:"errors"`
	Warnings     []string          `json:"warnings"`
	RawData      []PageExtraction  `json:"raw_data"`
	Summary      CanonicalContract `json:"summary"`
	IssuesDetail []Issue           `json:"issues_detail"`
}

// SealReport is the seal-audit counterpart of ContractReport.
type SealReport struct {
	Errors       []string             `json:"errors"`
	Warnings     []string             `json:"warnings"`
	RawData      []PageSealExtraction `json:"raw_data"`
	Summary      SealSummary          `json:"summary"`
	IssuesDetail []Issue              `json:"issues_detail"`
}
