package openai

import (
	"testing"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

func TestParseInsightToleratesCodeFences(t *testing.T) {
	raw := "```json\n" + validInsightJSON + "\n```"

	insight, err := ParseInsight(raw)
	if err != nil {
		t.Fatalf("ParseInsight() error = %v", err)
	}
	if insight.Summary != "Echocardiogram with left atrial enlargement." {
		t.Fatalf("summary = %q", insight.Summary)
	}
	if len(insight.KeyFindings) != 2 {
		t.Fatalf("key findings = %v", insight.KeyFindings)
	}
}

func TestParseInsightRejectsMissingField(t *testing.T) {
	raw := `{"summary":"s","key_findings":[],"medical_terms":[],"recommendations":[]}`

	_, err := ParseInsight(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation kind, got %v", err)
	}
}

func TestParseInsightRejectsNullField(t *testing.T) {
	raw := `{"summary":"s","key_findings":null,"medical_terms":[],"recommendations":[],"specialty_context":"c"}`

	if _, err := ParseInsight(raw); !domain.IsKind(err, domain.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation kind, got %v", err)
	}
}

func TestParseInsightRejectsNonJSON(t *testing.T) {
	if _, err := ParseInsight("the model declined to answer"); !domain.IsKind(err, domain.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation kind, got %v", err)
	}
}

func TestParseInsightNormalizesEmptyLists(t *testing.T) {
	raw := `{"summary":"s","key_findings":[],"medical_terms":[],"recommendations":[],"specialty_context":"c"}`

	insight, err := ParseInsight(raw)
	if err != nil {
		t.Fatalf("ParseInsight() error = %v", err)
	}
	if insight.KeyFindings == nil || insight.MedicalTerms == nil || insight.Recommendations == nil {
		t.Fatalf("list fields must be non-nil: %+v", insight)
	}
}
