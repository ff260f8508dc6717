package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

var requiredInsightKeys = []string{
	"summary",
	"key_findings",
	"medical_terms",
	"recommendations",
	"specialty_context",
}

// ParseInsight validates raw completion text against the clinical insight
// schema. Every key of the contract must be present and the list fields must
// decode to arrays; anything else is a schema validation failure.
func ParseInsight(raw string) (*domain.ClinicalInsight, error) {
	payload := extractJSONObject(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, domain.WrapError(domain.ErrSchemaValidation, "parse insight", err)
	}
	for _, key := range requiredInsightKeys {
		value, ok := fields[key]
		if !ok || string(value) == "null" {
			return nil, domain.WrapError(domain.ErrSchemaValidation, "parse insight",
				fmt.Errorf("missing required field %q", key))
		}
	}

	var insight domain.ClinicalInsight
	if err := json.Unmarshal([]byte(payload), &insight); err != nil {
		return nil, domain.WrapError(domain.ErrSchemaValidation, "parse insight", err)
	}

	// List fields are guaranteed non-nil for callers, possibly empty.
	if insight.KeyFindings == nil {
		insight.KeyFindings = []string{}
	}
	if insight.MedicalTerms == nil {
		insight.MedicalTerms = []string{}
	}
	if insight.Recommendations == nil {
		insight.Recommendations = []string{}
	}
	return &insight, nil
}

// extractJSONObject cuts the outermost JSON object out of the completion
// text, tolerating prose or code fences around it.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
