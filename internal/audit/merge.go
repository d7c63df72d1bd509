package audit

import "strings"

// MergeContractFields collapses per-page observations, ordered by page
// number, into one canonical record. For each field independently the first
// non-empty, non-placeholder value wins and is never overwritten. The two
// signature fields get a second pass: if no readable name exists on any page
// but some page reported the illegible-signature placeholder, the placeholder
// is kept, so "present but unreadable" beats "absent" only as a fallback.
func MergeContractFields(pages []PageExtraction) CanonicalContract {
	merged := make(CanonicalContract, len(ContractFields))
	for _, f := range ContractFields {
		merged[f] = ""
	}

	for _, page := range pages {
		for _, f := range ContractFields {
			if merged[f] != "" {
				continue
			}
			v := strings.TrimSpace(page.Fields[f])
			if v == "" || v == IllegibleSignature || v == IllegibleSeal {
				continue
			}
			merged[f] = v
		}
	}

	for _, f := range []string{FieldSignPartyA, FieldSignPartyB} {
		if merged[f] != "" {
			continue
		}
		for _, page := range pages {
			if strings.TrimSpace(page.Fields[f]) == IllegibleSignature {
				merged[f] = IllegibleSignature
				break
			}
		}
	}

	return merged
}
