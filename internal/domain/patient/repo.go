package patient

import "context"

// Repository stores patient records. All mutations are atomic with respect
// to concurrent reads of the same patient.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	UpdateVitals(ctx context.Context, id string, update VitalsUpdate) (*Patient, error)
	AddMedication(ctx context.Context, id string, entry MedicationEntry) (*Patient, error)
}
