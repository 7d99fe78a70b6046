package drug

import "context"

// Repository is the catalog storage contract. The reference implementation
// is memory-resident and seeded at startup, but the interface keeps the
// runtime-mutation path open.
type Repository interface {
	AddDrug(ctx context.Context, d *Drug) error
	GetDrug(ctx context.Context, id string) (*Drug, error)
	ListDrugs(ctx context.Context, limit, offset int) ([]*Drug, int, error)

	// AddName registers an additional lookup name (brand name, common
	// misspelling) for an already registered drug.
	AddName(ctx context.Context, name string, id string) error
	LookupExact(ctx context.Context, name string) (*Drug, bool, error)
	FindApproximate(ctx context.Context, query string, maxDistance int) ([]Match, error)

	AddInteraction(ctx context.Context, idA, idB string, edge *Interaction) error
	InteractionsOf(ctx context.Context, id string) (map[string]*Interaction, error)
	LeastRiskPath(ctx context.Context, from, to string) (*RiskPath, error)
}
