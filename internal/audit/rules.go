package audit

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Validator evaluates the contract rule set over a canonical record. Rules
// are independent and run in a fixed reporting order; none of them can fail
// on any record MergeContractFields can produce.
type Validator struct {
	// Now supplies "today" for the effective-period rule. Nil means time.Now.
	Now func() time.Time
}

// NewValidator returns a Validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

func (v *Validator) today() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Evaluate runs every contract rule against the merged record and returns the
// issues in rule order. The seal-consistency checks only fire when the
// corresponding party name is present: with no name extracted there is nothing
// to match the seal entity against, and an all-empty record should surface the
// missing names rather than a cascade of seal warnings.
func (v *Validator) Evaluate(merged CanonicalContract) []Issue {
	issues := make([]Issue, 0)
	errorf := func(format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
	}

	// 基础字段存在性
	if merged.Get(FieldContractName) == "" {
		errorf("【1】未识别到合同名称")
	}
	if merged.Get(FieldContractID) == "" {
		errorf("【2】未识别到合同编号")
	}
	if merged.Get(FieldPartyAName) == "" {
		errorf("【3】未识别到甲方名称")
	}
	if merged.Get(FieldPartyBName) == "" {
		errorf("【3】未识别到乙方名称")
	}

	// 盖章主体与当事人名称一致性（缺章与不符互斥）
	if name := merged.Get(FieldPartyBName); name != "" {
		if seal := merged.Get(FieldSealPartyB); seal == "" {
			warnf("【5】未检测到乙方盖章")
		} else if !strings.Contains(seal, name) {
			warnf("【5】乙方盖章主体与乙方名称不符")
		}
	}
	if name := merged.Get(FieldPartyAName); name != "" {
		if seal := merged.Get(FieldSealPartyA); seal == "" {
			warnf("【5】未检测到甲方盖章")
		} else if !strings.Contains(seal, name) {
			warnf("【5】甲方盖章主体与甲方名称不符")
		}
	}

	// 签字
	for _, p := range []struct{ label, field string }{
		{"甲方", FieldSignPartyA},
		{"乙方", FieldSignPartyB},
	} {
		switch merged.Get(p.field) {
		case "":
			errorf("【12】%s签字缺失", p.label)
		case IllegibleSignature:
			warnf("【12】%s签字存在但无法辨认", p.label)
		}
	}

	// 收款账户：仅在识别到户名时追查配套信息
	if merged.Get(FieldBankAccountName) != "" {
		if merged.Get(FieldBankAccountNumber) == "" {
			warnf("【7】已识别收款户名但缺少银行账号")
		}
		if merged.Get(FieldBankName) == "" {
			warnf("【7】已识别收款户名但缺少开户行")
		}
	}

	// 生效期间
	v.checkEffectivePeriod(merged, errorf, warnf)

	if merged.Get(FieldSettlementMethod) == "" {
		errorf("【6】未识别结算方式")
	}
	if merged.Get(FieldPaymentTerms) == "" {
		errorf("【8】未识别付款条件")
	}
	if merged.Get(FieldGoodsName) == "" {
		errorf("【9】未识别货物名称")
	}
	// 数量与金额合并为一条，避免重复噪音
	if merged.Get(FieldQuantity) == "" || merged.Get(FieldTotalAmountInclTax) == "" {
		errorf("【10】数量或金额信息不完整")
	}

	// 盖章类型
	for _, p := range []struct{ label, field string }{
		{"甲方", FieldSealPartyA},
		{"乙方", FieldSealPartyB},
	} {
		seal := merged.Get(p.field)
		if seal == "" {
			errorf("【11】%s盖章缺失", p.label)
		} else if !strings.Contains(seal, "合同专用章") && !strings.Contains(seal, "公章") {
			errorf("【11】%s盖章类型不合规（需含‘合同专用章’或‘公章’）", p.label)
		}
	}

	if merged.Get(FieldRelatedEntities) == "" {
		warnf("【13】未识别合同关联主体")
	}

	return issues
}

// checkEffectivePeriod validates the YYYY-MM-DD effective window. Missing
// dates and unparsable dates each produce exactly one ERROR; a window that
// has passed is an ERROR, one that has not started yet only a WARNING.
func (v *Validator) checkEffectivePeriod(merged CanonicalContract, errorf, warnf func(string, ...any)) {
	startStr := merged.Get(FieldEffectiveStart)
	endStr := merged.Get(FieldEffectiveEnd)
	if startStr == "" || endStr == "" {
		errorf("【4】合同生效期间缺失")
		return
	}

	start, serr := time.Parse(dateLayout, startStr)
	end, eerr := time.Parse(dateLayout, endStr)
	if serr != nil || eerr != nil {
		errorf("【4】合同生效日期格式错误（应为 YYYY-MM-DD）")
		return
	}

	today := v.today()
	if today.After(end) {
		errorf("【4】合同已过期")
	} else if today.Before(start) {
		warnf("【4】合同尚未生效")
	}
}
