package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/rxguard/rxguard/pkg/pagination"
)

// MemRepository keeps reports in insertion order, newest last.
type MemRepository struct {
	mu      sync.RWMutex
	reports []*Report
}

func NewMemRepository() *MemRepository {
	return &MemRepository{}
}

func (r *MemRepository) Save(_ context.Context, report *Report) error {
	if report.ID == "" {
		return fmt.Errorf("report id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, report)
	return nil
}

func (r *MemRepository) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*Report, 0)
	for _, rep := range r.reports {
		if patientID == "" || rep.PatientID == patientID {
			matched = append(matched, rep)
		}
	}

	total := len(matched)
	low, high := pagination.Params{Limit: limit, Offset: offset}.Slice(total)
	return matched[low:high], total, nil
}
