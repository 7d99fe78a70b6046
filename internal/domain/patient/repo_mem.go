package patient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rxguard/rxguard/pkg/pagination"
)

// MemRepository keeps patient records in a map guarded by a single RWMutex.
// Partial vitals updates and medication appends happen under the write lock
// so a concurrent reader never observes a half-applied update.
type MemRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	order    []string

	now func() time.Time
}

func NewMemRepository() *MemRepository {
	return &MemRepository{
		patients: make(map[string]*Patient),
		now:      time.Now,
	}
}

func (r *MemRepository) Create(_ context.Context, p *Patient) error {
	if p.ID == "" {
		return fmt.Errorf("patient id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("patient name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.patients[p.ID]; exists {
		return fmt.Errorf("patient %s already exists", p.ID)
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	if p.Medications == nil {
		p.Medications = []MedicationEntry{}
	}
	r.patients[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemRepository) Get(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return copyPatient(p), nil
}

func (r *MemRepository) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	low, high := pagination.Params{Limit: limit, Offset: offset}.Slice(total)

	out := make([]*Patient, 0, high-low)
	for _, id := range r.order[low:high] {
		out = append(out, copyPatient(r.patients[id]))
	}
	return out, total, nil
}

func (r *MemRepository) UpdateVitals(_ context.Context, id string, update VitalsUpdate) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}

	if update.BloodPressure != nil {
		p.Vitals.BloodPressure = *update.BloodPressure
	}
	if update.HeartRate != nil {
		p.Vitals.HeartRate = *update.HeartRate
	}
	if update.Temperature != nil {
		p.Vitals.Temperature = *update.Temperature
	}
	if update.OxygenSaturation != nil {
		p.Vitals.OxygenSaturation = *update.OxygenSaturation
	}
	p.Vitals.LastUpdated = r.now()

	return copyPatient(p), nil
}

func (r *MemRepository) AddMedication(_ context.Context, id string, entry MedicationEntry) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	p.Medications = append(p.Medications, entry)
	return copyPatient(p), nil
}

// copyPatient returns a snapshot clone so callers cannot mutate the stored
// record outside the lock.
func copyPatient(p *Patient) *Patient {
	clone := *p
	clone.Allergies = append([]string(nil), p.Allergies...)
	clone.Conditions = append([]string(nil), p.Conditions...)
	clone.Medications = append([]MedicationEntry(nil), p.Medications...)
	return &clone
}
