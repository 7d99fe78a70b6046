package analysis

import "context"

// Repository stores completed analysis reports for later review.
type Repository interface {
	Save(ctx context.Context, r *Report) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error)
}
