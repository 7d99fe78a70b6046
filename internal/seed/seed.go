// Package seed holds the bootstrap knowledge base: the drug catalog, the
// interaction edges between catalog drugs, and the demo patient roster.
// The built-in data ships with the binary; a JSON file can replace it.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rxguard/rxguard/internal/domain/drug"
	"github.com/rxguard/rxguard/internal/domain/patient"
)

// Data is the bulk-load payload applied once at process start.
type Data struct {
	Drugs        []*drug.Drug           `json:"drugs"`
	Interactions []drug.SeedInteraction `json:"interactions"`
	Patients     []*patient.Patient     `json:"patients"`
}

// Default returns the built-in catalog and demo roster.
func Default() *Data {
	return &Data{
		Drugs: []*drug.Drug{
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
		Interactions: []drug.SeedInteraction{
			{DrugA: "amoxicillin", DrugB: "metformin", Severity: 3,
				Description:     "Moderate interaction risk",
				Recommendations: []string{"Monitor blood glucose more frequently"}},
			{DrugA: "lisinopril", DrugB: "metformin", Severity: 2,
				Description:     "Minor interaction risk",
				Recommendations: []string{"Monitor blood pressure regularly"}},
		},
		Patients: []*patient.Patient{
			{
				ID:          "1",
				Name:        "John Smith",
				DateOfBirth: "1979-03-15",
				Allergies:   []string{"penicillin-allergy"},
				Conditions:  []string{"hypertension"},
				Vitals: patient.Vitals{
					BloodPressure:    "120/80",
					HeartRate:        72,
					Temperature:      36.8,
					OxygenSaturation: 98,
					LastUpdated:      time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
				},
				Medications: []patient.MedicationEntry{
					{MedicationID: "metformin",
						StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
						Dosage:    "500mg", Frequency: "twice daily"},
				},
			},
		},
	}
}

// FromFile loads a replacement payload from a JSON file.
func FromFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return &data, nil
}

// Load picks the file payload when a path is configured, the built-in
// payload otherwise.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default(), nil
	}
	return FromFile(path)
}

// Apply bulk-loads the payload into the stores. A catalog integrity error,
// such as an interaction edge naming an unknown drug, propagates so the
// caller can halt startup.
func Apply(ctx context.Context, data *Data, drugs *drug.Service, patients *patient.Service) error {
	if err := drugs.Seed(ctx, data.Drugs, data.Interactions); err != nil {
		return err
	}
	for _, p := range data.Patients {
		if err := patients.CreatePatient(ctx, p); err != nil {
			return fmt.Errorf("seeding patient %q: %w", p.ID, err)
		}
	}
	return nil
}
