package domain

import (
	"bytes"
	"encoding/json"
)

// UnknownSpecialty is the sentinel used when a record carries no specialty label.
const UnknownSpecialty = "Unknown"

// TranscriptionRecord is the unit passed to insight generation.
type TranscriptionRecord struct {
	Specialty     string `json:"medical_specialty"`
	Transcription string `json:"transcription"`
}

// ClinicalInsight is the structured analysis result. All five fields are
// mandatory; the parser rejects model output missing any of them.
type ClinicalInsight struct {
	Summary          string   `json:"summary"`
	KeyFindings      []string `json:"key_findings"`
	MedicalTerms     []string `json:"medical_terms"`
	Recommendations  []string `json:"recommendations"`
	SpecialtyContext string   `json:"specialty_context"`
}

// SpecialtyCount is one entry of the per-specialty record summary.
type SpecialtyCount struct {
	Specialty string `json:"medical_specialty"`
	Count     int    `json:"count"`
}

// Row is one query result row: values keyed by column name, with the
// cursor's column order preserved for iteration and serialization.
type Row struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value of a column, or nil when the column is absent.
func (r Row) Get(column string) any {
	return r.Values[column]
}

// MarshalJSON emits the row as a JSON object in cursor column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
