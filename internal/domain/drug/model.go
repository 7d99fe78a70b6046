package drug

import "errors"

var (
	// ErrDrugNotFound is returned for unknown drug identities, including
	// interaction edges that reference an unregistered drug.
	ErrDrugNotFound = errors.New("drug not found")
	// ErrNoPath is returned by least-risk path queries when the target is
	// unreachable from the source.
	ErrNoPath = errors.New("no interaction path between drugs")
)

// MaxSeverity bounds the interaction severity scale; higher is more
// dangerous.
const MaxSeverity = 10

// DosageRange is the closed acceptable dosage interval for a drug, in the
// drug's native unit.
type DosageRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Drug is one entry of the curated drug knowledge base. Records are
// immutable after seeding; the catalog owns them exclusively.
type Drug struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	DosageRange       DosageRange `json:"dosage_range"`
	Contraindications []string    `json:"contraindications,omitempty"`
}

// Interaction is the payload of an undirected interaction edge between two
// drugs. An edge between A and B is indistinguishable from B and A.
type Interaction struct {
	Severity        int      `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Match pairs a word found in the name index with its record and the edit
// distance to the query, so callers can apply their own ranking policy.
type Match struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
	Record   *Drug  `json:"record"`
}

// RiskPath is the result of a least-risk path query: the ordered drug ids
// visited, the accumulated severity, and the edges traversed in order.
type RiskPath struct {
	Path          []string       `json:"path"`
	TotalSeverity int            `json:"total_severity"`
	Edges         []*Interaction `json:"edges"`
}

// SeedInteraction is one interaction entry of a bulk catalog load.
type SeedInteraction struct {
	DrugA           string   `json:"drug_a"`
	DrugB           string   `json:"drug_b"`
	Severity        int      `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations,omitempty"`
}
