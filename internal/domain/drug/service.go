package drug

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxEditDistance is the edit-distance threshold used by name
// resolution when the caller does not supply one.
const DefaultMaxEditDistance = 2

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDrug(ctx context.Context, d *Drug) error {
	if d.ID == "" {
		return fmt.Errorf("id is required")
	}
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.DosageRange.Min > d.DosageRange.Max {
		return fmt.Errorf("dosage range min %v exceeds max %v", d.DosageRange.Min, d.DosageRange.Max)
	}
	return s.repo.AddDrug(ctx, d)
}

func (s *Service) GetDrug(ctx context.Context, id string) (*Drug, error) {
	return s.repo.GetDrug(ctx, id)
}

func (s *Service) ListDrugs(ctx context.Context, limit, offset int) ([]*Drug, int, error) {
	return s.repo.ListDrugs(ctx, limit, offset)
}

// AddAlias registers an extra lookup name for a registered drug.
func (s *Service) AddAlias(ctx context.Context, id, name string) error {
	return s.repo.AddName(ctx, name, id)
}

func (s *Service) AddInteraction(ctx context.Context, idA, idB string, edge *Interaction) error {
	if edge.Description == "" {
		return fmt.Errorf("description is required")
	}
	return s.repo.AddInteraction(ctx, idA, idB, edge)
}

func (s *Service) InteractionsOf(ctx context.Context, id string) (map[string]*Interaction, error) {
	return s.repo.InteractionsOf(ctx, id)
}

func (s *Service) LeastRiskPath(ctx context.Context, from, to string) (*RiskPath, error) {
	return s.repo.LeastRiskPath(ctx, from, to)
}

// Candidates returns every indexed name within maxDistance edits of the
// query, unranked. maxDistance <= 0 selects the default threshold.
func (s *Service) Candidates(ctx context.Context, query string, maxDistance int) ([]Match, error) {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxEditDistance
	}
	return s.repo.FindApproximate(ctx, query, maxDistance)
}

// Resolve picks the single best match for a name: an exact (case-folded)
// hit wins outright, otherwise the candidate with the minimum edit
// distance, breaking ties by the lexicographically smaller indexed word so
// identical inputs always resolve identically. ok is false when nothing is
// within the threshold.
func (s *Service) Resolve(ctx context.Context, query string, maxDistance int) (Match, bool, error) {
	rec, found, err := s.repo.LookupExact(ctx, query)
	if err != nil {
		return Match{}, false, err
	}
	if found {
		return Match{Word: strings.ToLower(query), Distance: 0, Record: rec}, true, nil
	}

	candidates, err := s.Candidates(ctx, query, maxDistance)
	if err != nil {
		return Match{}, false, err
	}
	if len(candidates) == 0 {
		return Match{}, false, nil
	}

	best := candidates[0]
	for _, m := range candidates[1:] {
		if m.Distance < best.Distance || (m.Distance == best.Distance && m.Word < best.Word) {
			best = m
		}
	}
	return best, true, nil
}

// Seed bulk-loads the catalog: all drugs first, then all interaction
// edges. An edge referencing an unknown drug id is a data-definition bug;
// the error propagates so bootstrap can halt startup.
func (s *Service) Seed(ctx context.Context, drugs []*Drug, interactions []SeedInteraction) error {
	for _, d := range drugs {
		if err := s.CreateDrug(ctx, d); err != nil {
			return fmt.Errorf("seeding drug %q: %w", d.ID, err)
		}
	}
	for _, in := range interactions {
		edge := &Interaction{
			Severity:        in.Severity,
			Description:     in.Description,
			Recommendations: in.Recommendations,
		}
		if err := s.AddInteraction(ctx, in.DrugA, in.DrugB, edge); err != nil {
			return fmt.Errorf("seeding interaction %s-%s: %w", in.DrugA, in.DrugB, err)
		}
	}
	return nil
}
