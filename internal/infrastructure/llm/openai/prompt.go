package openai

import (
	"fmt"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// schemaContract is the fixed textual contract embedded in every analysis
// prompt. It is versioned together with ParseInsight so the instructions
// and the parser cannot drift apart.
const schemaContract = `Return a single strict JSON object with exactly these keys:
"summary" (string): brief summary of the medical transcription,
"key_findings" (array of strings): key medical findings from the transcription,
"medical_terms" (array of strings): important medical terminology used,
"recommendations" (array of strings): recommendations or follow-up actions mentioned,
"specialty_context" (string): how this fits into the medical specialty context.
All five keys are required. No markdown, no code fences, no extra keys.`

func buildInsightPrompt(specialty, transcription string) string {
	if specialty == "" {
		specialty = domain.UnknownSpecialty
	}

	return fmt.Sprintf(`You are an AI assistant for healthcare professionals. Analyze the following medical transcription and provide insights.

MEDICAL SPECIALTY: %s

TRANSCRIPTION:
%s

%s`, specialty, transcription, schemaContract)
}
