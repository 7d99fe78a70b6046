package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rxguard/rxguard/internal/domain/drug"
	"github.com/rxguard/rxguard/internal/domain/patient"
	"github.com/rxguard/rxguard/internal/platform/extraction"
)

// Service runs the analysis pipeline: validate the inputs, extract a
// structured prescription from free text, resolve the medication against
// the catalog, screen it against the patient's allergies and history, and
// score the result. Analyze never returns an error; every failure becomes
// a degraded zero-confidence assessment.
type Service struct {
	drugs     *drug.Service
	patients  *patient.Service
	extractor extraction.Extractor
	repo      Repository

	now func() time.Time
}

func NewService(drugs *drug.Service, patients *patient.Service, extractor extraction.Extractor, repo Repository) *Service {
	return &Service{
		drugs:     drugs,
		patients:  patients,
		extractor: extractor,
		repo:      repo,
		now:       time.Now,
	}
}

func (s *Service) Analyze(ctx context.Context, patientID, text string) Assessment {
	result := s.run(ctx, patientID, text)
	s.record(ctx, patientID, text, result)
	return result
}

func (s *Service) run(ctx context.Context, patientID, text string) Assessment {
	// Validate
	if strings.TrimSpace(text) == "" {
		return degraded("prescription text is required")
	}
	if patientID == "" {
		return degraded("patient id is required")
	}

	// Extract
	rx, err := s.extractor.Extract(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("patient_id", patientID).Msg("prescription extraction failed")
		return degraded(err.Error())
	}

	// Resolve
	match, ok, err := s.drugs.Resolve(ctx, rx.Medication, 0)
	if err != nil {
		return degraded(err.Error())
	}
	if !ok {
		return Assessment{
			Confidence:  ConfidenceNoMatch,
			Medication:  rx.Medication,
			Dosage:      rx.Dosage,
			Warnings:    []string{"Medication not recognized in our database"},
			Suggestions: []string{"Please verify the medication name with a pharmacist"},
		}
	}
	resolved := match.Record

	// Screen
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return degraded(err.Error())
	}

	warnings := []string{}
	suggestions := []string{}

	for _, tag := range resolved.Contraindications {
		has, err := s.patients.HasAllergy(ctx, patientID, tag)
		if err != nil {
			return degraded(err.Error())
		}
		if has {
			warnings = append(warnings, fmt.Sprintf("Patient has a known allergy to %s", resolved.Category))
			suggestions = append(suggestions, "Consider alternative medication")
		}
	}

	edges, err := s.drugs.InteractionsOf(ctx, resolved.ID)
	if err != nil {
		return degraded(err.Error())
	}
	for _, med := range p.Medications {
		edge, ok := edges[med.MedicationID]
		if !ok {
			continue
		}
		warnings = append(warnings, edge.Description)
		suggestions = append(suggestions, edge.Recommendations...)
	}

	// Score
	confidence := ConfidenceBaseline
	if len(warnings) > 0 {
		confidence -= WarningPenalty
	}
	if !rx.Complete() {
		confidence -= IncompletePenalty
	}
	confidence = clamp(confidence)

	return Assessment{
		Confidence:  confidence,
		Medication:  resolved.Name,
		Dosage:      rx.Dosage,
		Warnings:    warnings,
		Suggestions: suggestions,
	}
}

// record appends the run to the report log. A storage failure is logged
// and swallowed so it cannot turn a finished assessment into an error.
func (s *Service) record(ctx context.Context, patientID, text string, result Assessment) {
	report := &Report{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Input:     text,
		Result:    result,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, report); err != nil {
		log.Error().Err(err).Str("patient_id", patientID).Msg("saving analysis report")
	}
}

func (s *Service) ListReports(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func degraded(msg string) Assessment {
	return Assessment{
		Confidence:  ConfidenceFailed,
		Medication:  "",
		Dosage:      "",
		Warnings:    []string{fmt.Sprintf("Error analyzing prescription: %s", msg)},
		Suggestions: []string{"Please try again or contact support"},
	}
}

func clamp(confidence int) int {
	if confidence < ConfidenceScaleFloor {
		return ConfidenceScaleFloor
	}
	if confidence > ConfidenceScaleCeil {
		return ConfidenceScaleCeil
	}
	return confidence
}
