package analysis

import "time"

// Confidence scoring policy. The constants are fixed product policy, not
// derived values; changing them changes the meaning of every stored report.
const (
	ConfidenceBaseline   = 85
	WarningPenalty       = 10
	IncompletePenalty    = 5
	ConfidenceNoMatch    = 30
	ConfidenceFailed     = 0
	ConfidenceScaleFloor = 0
	ConfidenceScaleCeil  = 100
)

// Assessment is the user-facing outcome of one prescription analysis.
// Warnings and suggestions are ordered: allergy findings first, then
// interaction findings in the order medications appear in the patient's
// history, with each suggestion following its triggering warning.
type Assessment struct {
	Confidence  int      `json:"confidence"`
	Medication  string   `json:"medication"`
	Dosage      string   `json:"dosage"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// Report is a stored analysis run: the inputs plus the assessment they
// produced.
type Report struct {
	ID        string     `json:"id"`
	PatientID string     `json:"patient_id"`
	Input     string     `json:"input"`
	Result    Assessment `json:"result"`
	CreatedAt time.Time  `json:"created_at"`
}
