package patient

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo       Repository
	thresholds map[string]VitalRange
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:       repo,
		thresholds: DefaultThresholds(),
	}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) UpdateVitals(ctx context.Context, id string, update VitalsUpdate) (*Patient, error) {
	return s.repo.UpdateVitals(ctx, id, update)
}

func (s *Service) AddMedication(ctx context.Context, id string, entry MedicationEntry) (*Patient, error) {
	if entry.MedicationID == "" {
		return nil, fmt.Errorf("medication_id is required")
	}
	return s.repo.AddMedication(ctx, id, entry)
}

// HasAllergy reports whether any recorded allergy contains the given
// substance, case-insensitively. "penicillin" matches "Penicillin-allergy".
func (s *Service) HasAllergy(ctx context.Context, id, substance string) (bool, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return containsFold(p.Allergies, substance), nil
}

// HasCondition reports whether any recorded condition contains the given
// term, case-insensitively.
func (s *Service) HasCondition(ctx context.Context, id, condition string) (bool, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return containsFold(p.Conditions, condition), nil
}

// VitalWarnings checks the patient's current vitals against the normal
// ranges and returns one warning per out-of-range sign, in a fixed order.
// A patient with no recorded snapshot yields no warnings; once a snapshot
// exists every thresholded value is checked, including zero readings,
// which fall below every configured band. Only vitals without a configured
// threshold are skipped.
func (s *Service) VitalWarnings(ctx context.Context, id string) ([]VitalWarning, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Vitals == (Vitals{}) {
		return []VitalWarning{}, nil
	}

	checks := []struct {
		name  string
		value float64
	}{
		{"heart_rate", p.Vitals.HeartRate},
		{"temperature", p.Vitals.Temperature},
		{"oxygen_saturation", p.Vitals.OxygenSaturation},
	}

	warnings := []VitalWarning{}
	for _, c := range checks {
		band, ok := s.thresholds[c.name]
		if !ok {
			continue
		}
		switch {
		case c.value < band.Min:
			warnings = append(warnings, VitalWarning{Vital: c.name, Value: c.value, Status: "low"})
		case c.value > band.Max:
			warnings = append(warnings, VitalWarning{Vital: c.name, Value: c.value, Status: "high"})
		}
	}
	return warnings, nil
}

func containsFold(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	needle = strings.ToLower(needle)
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
