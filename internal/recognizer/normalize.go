package recognizer

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

// NormalizeContractPage decodes a recognizer payload into a fully-defaulted
// PageExtraction. Every contract field is present afterwards; missing keys,
// nulls, and non-string scalars degrade to "" or their string form. A payload
// that is not a JSON object at all yields the all-empty record: parse
// failures at this boundary are a fallback, never an error into the core.
func NormalizeContractPage(pageNum int, raw []byte, logger *slog.Logger) audit.PageExtraction {
	if logger == nil {
		logger = slog.Default()
	}

	fields := make(map[string]string, len(audit.ContractFields))
	for _, f := range audit.ContractFields {
		fields[f] = ""
	}

	var m map[string]any
	if err := json.Unmarshal(stripFences(raw), &m); err != nil {
		logger.Warn("recognizer.normalize.non_json", "page", pageNum, "error", err, "raw_bytes", len(raw))
		return audit.PageExtraction{Page: pageNum, Fields: fields}
	}

	for _, f := range audit.ContractFields {
		fields[f] = coerceString(m[f])
	}
	return audit.PageExtraction{Page: pageNum, Fields: fields}
}

// NormalizeSealPage decodes a recognizer payload into a fully-defaulted
// PageSealExtraction. Missing seal booleans default to true (absence of a
// judgment is not a violation); missing requires_seal and seals default to
// false and an empty list.
func NormalizeSealPage(pageNum int, raw []byte, logger *slog.Logger) audit.PageSealExtraction {
	if logger == nil {
		logger = slog.Default()
	}

	out := audit.PageSealExtraction{Page: pageNum, Seals: []audit.SealObservation{}}

	var m map[string]any
	if err := json.Unmarshal(stripFences(raw), &m); err != nil {
		logger.Warn("recognizer.normalize.non_json", "page", pageNum, "error", err, "raw_bytes", len(raw))
		return out
	}

	if v, ok := m["requires_seal"].(bool); ok {
		out.RequiresSeal = v
	}
	items, ok := m["seals"].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		sm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out.Seals = append(out.Seals, audit.SealObservation{
			IsRed:        coerceBool(sm["is_red"], true),
			IsComplete:   coerceBool(sm["is_complete"], true),
			IsNormalSize: coerceBool(sm["is_normal_size"], true),
			SealText:     coerceString(sm["seal_text"]),
		})
	}
	return out
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func coerceBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// stripFences removes a markdown code fence around a JSON payload, a common
// artifact of chat-style model output.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
