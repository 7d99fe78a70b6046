package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rxguard/rxguard/internal/domain/drug"
	"github.com/rxguard/rxguard/internal/domain/patient"
	"github.com/rxguard/rxguard/internal/platform/extraction"
)

// fakeExtractor returns a canned prescription or error without any network.
type fakeExtractor struct {
	rx  *extraction.Prescription
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*extraction.Prescription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rx, nil
}

func seededStores(t *testing.T) (*drug.Service, *patient.Service) {
	t.Helper()
	ctx := context.Background()

	drugs := drug.NewService(drug.NewMemRepository())
	err := drugs.Seed(ctx,
		[]*drug.Drug{
			{ID: "amoxicillin", Name: "Amoxicillin", Category: "antibiotic",
				DosageRange:       drug.DosageRange{Min: 250, Max: 875},
				Contraindications: []string{"penicillin-allergy"}},
			{ID: "metformin", Name: "Metformin", Category: "antidiabetic",
				DosageRange:       drug.DosageRange{Min: 500, Max: 2000},
				Contraindications: []string{"kidney-disease"}},
			{ID: "lisinopril", Name: "Lisinopril", Category: "ace-inhibitor",
				DosageRange:       drug.DosageRange{Min: 5, Max: 40},
				Contraindications: []string{"pregnancy", "angioedema"}},
		},
		[]drug.SeedInteraction{
			{DrugA: "amoxicillin", DrugB: "metformin", Severity: 3,
				Description:     "Moderate interaction risk",
				Recommendations: []string{"Monitor blood glucose more frequently"}},
			{DrugA: "lisinopril", DrugB: "metformin", Severity: 2,
				Description:     "Minor interaction risk",
				Recommendations: []string{"Monitor blood pressure regularly"}},
		})
	if err != nil {
		t.Fatalf("seeding drugs: %v", err)
	}

	patients := patient.NewService(patient.NewMemRepository())
	err = patients.CreatePatient(ctx, &patient.Patient{
		ID:         "1",
		Name:       "John Smith",
		Allergies:  []string{"penicillin-allergy"},
		Conditions: []string{"hypertension"},
		Medications: []patient.MedicationEntry{
			{MedicationID: "metformin", StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				Dosage: "500mg", Frequency: "twice daily"},
		},
	})
	if err != nil {
		t.Fatalf("seeding patient: %v", err)
	}
	return drugs, patients
}

func newAnalyzer(t *testing.T, ex extraction.Extractor) *Service {
	t.Helper()
	drugs, patients := seededStores(t)
	return NewService(drugs, patients, ex, NewMemRepository())
}

func TestAnalyze_AllergyWarning(t *testing.T) {
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "Amoxicillin", Dosage: "500mg",
		Frequency: "three times daily", Duration: "7 days",
	}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "1", "Amoxicillin 500mg three times daily for 7 days")

	if result.Medication != "Amoxicillin" {
		t.Errorf("expected Amoxicillin, got %q", result.Medication)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "allergy") {
		t.Fatalf("expected one allergy warning, got %v", result.Warnings)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "Consider alternative medication" {
		t.Errorf("expected alternative-medication suggestion, got %v", result.Suggestions)
	}
	// baseline minus the warning penalty, extraction complete
	if result.Confidence != ConfidenceBaseline-WarningPenalty {
		t.Errorf("expected confidence %d, got %d", ConfidenceBaseline-WarningPenalty, result.Confidence)
	}
}

func TestAnalyze_NoMatch(t *testing.T) {
	ex := &fakeExtractor{rx: &extraction.Prescription{Medication: "Xyzzyfen", Dosage: "10mg"}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "1", "Xyzzyfen 10mg")

	if result.Confidence != ConfidenceNoMatch {
		t.Errorf("expected confidence %d, got %d", ConfidenceNoMatch, result.Confidence)
	}
	if result.Medication != "Xyzzyfen" || result.Dosage != "10mg" {
		t.Errorf("no-match result must carry the extracted fields, got %+v", result)
	}
	want := []string{"Medication not recognized in our database"}
	if !reflect.DeepEqual(result.Warnings, want) {
		t.Errorf("expected %v, got %v", want, result.Warnings)
	}
	wantSug := []string{"Please verify the medication name with a pharmacist"}
	if !reflect.DeepEqual(result.Suggestions, wantSug) {
		t.Errorf("expected %v, got %v", wantSug, result.Suggestions)
	}
}

func TestAnalyze_InteractionWarning(t *testing.T) {
	// lisinopril has no contraindication for this patient but interacts
	// with the metformin already in their history
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "Lisinopril", Dosage: "10mg",
		Frequency: "once daily", Duration: "30 days",
	}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "1", "Lisinopril 10mg once daily for 30 days")

	if len(result.Warnings) != 1 || result.Warnings[0] != "Minor interaction risk" {
		t.Fatalf("expected the interaction description as warning, got %v", result.Warnings)
	}
	want := []string{"Monitor blood pressure regularly"}
	if !reflect.DeepEqual(result.Suggestions, want) {
		t.Errorf("expected the edge recommendations, got %v", result.Suggestions)
	}
	if result.Confidence != ConfidenceBaseline-WarningPenalty {
		t.Errorf("expected confidence %d, got %d", ConfidenceBaseline-WarningPenalty, result.Confidence)
	}
}

func TestAnalyze_AllergyBeforeInteraction(t *testing.T) {
	// amoxicillin triggers both the allergy check and the metformin edge
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "Amoxicillin", Dosage: "500mg",
		Frequency: "three times daily", Duration: "7 days",
	}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "1", "Amoxicillin 500mg")

	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "allergy") {
		t.Errorf("allergy warning must come first, got %v", result.Warnings)
	}
	if result.Warnings[1] != "Moderate interaction risk" {
		t.Errorf("interaction warning must come second, got %v", result.Warnings)
	}
	if result.Suggestions[0] != "Consider alternative medication" ||
		result.Suggestions[1] != "Monitor blood glucose more frequently" {
		t.Errorf("suggestions out of order: %v", result.Suggestions)
	}
}

func TestAnalyze_IncompleteExtractionPenalty(t *testing.T) {
	// no frequency or duration, no warnings expected for metformin itself
	ex := &fakeExtractor{rx: &extraction.Prescription{Medication: "Metformin", Dosage: "500mg"}}
	drugs, patients := seededStores(t)

	// a patient with no history or allergies
	ctx := context.Background()
	if err := patients.CreatePatient(ctx, &patient.Patient{ID: "2", Name: "Jane Doe"}); err != nil {
		t.Fatalf("creating patient: %v", err)
	}
	svc := NewService(drugs, patients, ex, NewMemRepository())

	result := svc.Analyze(ctx, "2", "Metformin 500mg")

	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
	if result.Confidence != ConfidenceBaseline-IncompletePenalty {
		t.Errorf("expected confidence %d, got %d", ConfidenceBaseline-IncompletePenalty, result.Confidence)
	}
}

func TestAnalyze_FuzzyResolution(t *testing.T) {
	// one character off, still resolves to the catalog record
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "amoxicilin", Dosage: "500mg",
		Frequency: "daily", Duration: "7 days",
	}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "1", "amoxicilin 500mg daily for 7 days")

	if result.Medication != "Amoxicillin" {
		t.Errorf("expected fuzzy match to Amoxicillin, got %q", result.Medication)
	}
}

func TestAnalyze_ValidationFailures(t *testing.T) {
	svc := newAnalyzer(t, &fakeExtractor{rx: &extraction.Prescription{Medication: "x"}})
	ctx := context.Background()

	for _, tc := range []struct {
		name, patientID, text string
	}{
		{"empty text", "1", "   "},
		{"missing patient", "", "Amoxicillin 500mg"},
	} {
		result := svc.Analyze(ctx, tc.patientID, tc.text)
		if result.Confidence != ConfidenceFailed {
			t.Errorf("%s: expected confidence 0, got %d", tc.name, result.Confidence)
		}
		if len(result.Warnings) != 1 || !strings.HasPrefix(result.Warnings[0], "Error analyzing prescription:") {
			t.Errorf("%s: expected an error warning, got %v", tc.name, result.Warnings)
		}
		if len(result.Suggestions) != 1 || result.Suggestions[0] != "Please try again or contact support" {
			t.Errorf("%s: expected support suggestion, got %v", tc.name, result.Suggestions)
		}
	}
}

func TestAnalyze_ExtractionFailure(t *testing.T) {
	svc := newAnalyzer(t, &fakeExtractor{err: extraction.ErrEmptyResponse})

	result := svc.Analyze(context.Background(), "1", "Amoxicillin 500mg")

	if result.Confidence != ConfidenceFailed {
		t.Errorf("expected confidence 0, got %d", result.Confidence)
	}
	if result.Medication != "" || result.Dosage != "" {
		t.Errorf("degraded result must be empty-shaped, got %+v", result)
	}
}

func TestAnalyze_PatientNotFound(t *testing.T) {
	ex := &fakeExtractor{rx: &extraction.Prescription{Medication: "Amoxicillin", Dosage: "500mg"}}
	svc := newAnalyzer(t, ex)

	result := svc.Analyze(context.Background(), "ghost", "Amoxicillin 500mg")

	if result.Confidence != ConfidenceFailed {
		t.Errorf("expected degraded result for unknown patient, got %+v", result)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "Amoxicillin", Dosage: "500mg",
		Frequency: "three times daily", Duration: "7 days",
	}}
	svc := newAnalyzer(t, ex)
	ctx := context.Background()

	first := svc.Analyze(ctx, "1", "Amoxicillin 500mg")
	second := svc.Analyze(ctx, "1", "Amoxicillin 500mg")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs must analyze identically:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_RecordsReport(t *testing.T) {
	ex := &fakeExtractor{rx: &extraction.Prescription{
		Medication: "Amoxicillin", Dosage: "500mg",
		Frequency: "daily", Duration: "7 days",
	}}
	drugs, patients := seededStores(t)
	repo := NewMemRepository()
	svc := NewService(drugs, patients, ex, repo)
	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }
	ctx := context.Background()

	svc.Analyze(ctx, "1", "Amoxicillin 500mg daily for 7 days")
	svc.Analyze(ctx, "other", "Amoxicillin 500mg")

	reports, total, err := svc.ListReports(ctx, "1", 10, 0)
	if err != nil {
		t.Fatalf("listing reports: %v", err)
	}
	if total != 1 || len(reports) != 1 {
		t.Fatalf("expected 1 report for patient 1, got %d", total)
	}
	r := reports[0]
	if r.ID == "" {
		t.Error("expected a generated report id")
	}
	if r.PatientID != "1" || r.Input != "Amoxicillin 500mg daily for 7 days" {
		t.Errorf("unexpected report: %+v", r)
	}
	if !r.CreatedAt.Equal(stamp) {
		t.Errorf("expected CreatedAt %v, got %v", stamp, r.CreatedAt)
	}

	all, total, err := svc.ListReports(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("listing all reports: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected 2 reports in total, got %d", total)
	}
}

func TestAnalyze_ContextPassedToExtractor(t *testing.T) {
	timeout := &fakeExtractor{err: errors.New("context deadline exceeded")}
	svc := newAnalyzer(t, timeout)

	result := svc.Analyze(context.Background(), "1", "Amoxicillin 500mg")
	if result.Confidence != ConfidenceFailed {
		t.Errorf("expected degraded result on extractor timeout, got %+v", result)
	}
	if !strings.Contains(result.Warnings[0], "context deadline exceeded") {
		t.Errorf("expected timeout message in warning, got %v", result.Warnings)
	}
}
