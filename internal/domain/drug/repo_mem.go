package drug

import (
	"context"
	"fmt"
	"sync"

	"github.com/rxguard/rxguard/pkg/pagination"
)

// MemRepository is the in-memory catalog: a name index for resolution and
// an interaction graph for risk queries, guarded by a single RWMutex. The
// catalog is written once at seed time and read-only afterwards, but the
// lock keeps late additions safe.
type MemRepository struct {
	mu    sync.RWMutex
	index *NameIndex
	graph *Graph
	order []string // insertion order, for stable listings
}

func NewMemRepository() *MemRepository {
	return &MemRepository{
		index: NewNameIndex(),
		graph: NewGraph(),
	}
}

func (r *MemRepository) AddDrug(_ context.Context, d *Drug) error {
	if d.ID == "" {
		return fmt.Errorf("drug id is required")
	}
	if d.Name == "" {
		return fmt.Errorf("drug name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.graph.Drug(d.ID); !exists {
		r.order = append(r.order, d.ID)
	}
	r.graph.AddDrug(d)
	r.index.Insert(d.Name, d)
	return nil
}

func (r *MemRepository) GetDrug(_ context.Context, id string) (*Drug, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.graph.Drug(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDrugNotFound, id)
	}
	return rec, nil
}

func (r *MemRepository) ListDrugs(_ context.Context, limit, offset int) ([]*Drug, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	low, high := pagination.Params{Limit: limit, Offset: offset}.Slice(total)

	out := make([]*Drug, 0, high-low)
	for _, id := range r.order[low:high] {
		rec, _ := r.graph.Drug(id)
		out = append(out, rec)
	}
	return out, total, nil
}

func (r *MemRepository) AddName(_ context.Context, name string, id string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.graph.Drug(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDrugNotFound, id)
	}
	r.index.Insert(name, rec)
	return nil
}

func (r *MemRepository) LookupExact(_ context.Context, name string) (*Drug, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.index.LookupExact(name)
	return rec, ok, nil
}

func (r *MemRepository) FindApproximate(_ context.Context, query string, maxDistance int) ([]Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.index.FindApproximate(query, maxDistance), nil
}

func (r *MemRepository) AddInteraction(_ context.Context, idA, idB string, edge *Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.graph.AddInteraction(idA, idB, edge)
}

func (r *MemRepository) InteractionsOf(_ context.Context, id string) (map[string]*Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.graph.InteractionsOf(id), nil
}

func (r *MemRepository) LeastRiskPath(_ context.Context, from, to string) (*RiskPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.graph.LeastRiskPath(from, to)
}
