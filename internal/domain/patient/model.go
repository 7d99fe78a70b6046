package patient

import (
	"errors"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")

// Vitals is the most recent measurement set for a patient. BloodPressure
// stays a display string ("120/80") and is not range-checked.
type Vitals struct {
	BloodPressure    string    `json:"blood_pressure"`
	HeartRate        float64   `json:"heart_rate"`
	Temperature      float64   `json:"temperature"`
	OxygenSaturation float64   `json:"oxygen_saturation"`
	LastUpdated      time.Time `json:"last_updated"`
}

// VitalsUpdate carries a partial update. Nil fields are left untouched;
// LastUpdated is always refreshed on apply.
type VitalsUpdate struct {
	BloodPressure    *string  `json:"blood_pressure,omitempty"`
	HeartRate        *float64 `json:"heart_rate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	OxygenSaturation *float64 `json:"oxygen_saturation,omitempty"`
}

// MedicationEntry records one course of treatment in a patient's history.
// A nil EndDate means the course is ongoing.
type MedicationEntry struct {
	MedicationID string     `json:"medication_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Reactions    []string   `json:"reactions,omitempty"`
}

type Patient struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DateOfBirth string            `json:"date_of_birth,omitempty"`
	Gender      string            `json:"gender,omitempty"`
	Allergies   []string          `json:"allergies"`
	Conditions  []string          `json:"conditions"`
	Vitals      Vitals            `json:"vitals"`
	Medications []MedicationEntry `json:"medications"`
}

// VitalRange is the inclusive normal band for a single vital sign.
type VitalRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultThresholds returns the normal ranges used for warning checks.
func DefaultThresholds() map[string]VitalRange {
	return map[string]VitalRange{
		"heart_rate":        {Min: 60, Max: 100},
		"temperature":       {Min: 36.5, Max: 37.5},
		"oxygen_saturation": {Min: 95, Max: 100},
	}
}

// VitalWarning flags one vital sign outside its normal range.
type VitalWarning struct {
	Vital  string  `json:"vital"`
	Value  float64 `json:"value"`
	Status string  `json:"status"` // "high" or "low"
}
