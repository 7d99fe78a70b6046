package drug

import "fmt"

// Graph is a weighted undirected graph of drug-to-drug interactions, with
// interaction severity as the edge weight. Severities are non-negative by
// construction, so least-risk queries can use Dijkstra's algorithm.
type Graph struct {
	nodes     map[string]*Drug
	adjacency map[string]map[string]*Interaction
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Drug),
		adjacency: make(map[string]map[string]*Interaction),
	}
}

// AddDrug registers a node. Re-adding an existing id replaces the stored
// record and keeps its edges.
func (g *Graph) AddDrug(rec *Drug) {
	g.nodes[rec.ID] = rec
	if _, ok := g.adjacency[rec.ID]; !ok {
		g.adjacency[rec.ID] = make(map[string]*Interaction)
	}
}

// Drug returns the record registered under id.
func (g *Graph) Drug(id string) (*Drug, bool) {
	rec, ok := g.nodes[id]
	return rec, ok
}

// Len returns the number of registered drugs.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddInteraction stores an edge between two registered drugs. The edge is
// symmetric: a lookup from either endpoint finds it. If either identity is
// unknown the call fails and the graph is left unchanged.
func (g *Graph) AddInteraction(idA, idB string, edge *Interaction) error {
	if _, ok := g.nodes[idA]; !ok {
		return fmt.Errorf("%w: %s", ErrDrugNotFound, idA)
	}
	if _, ok := g.nodes[idB]; !ok {
		return fmt.Errorf("%w: %s", ErrDrugNotFound, idB)
	}
	if edge.Severity < 0 || edge.Severity > MaxSeverity {
		return fmt.Errorf("interaction severity must be in [0,%d], got %d", MaxSeverity, edge.Severity)
	}
	g.adjacency[idA][idB] = edge
	g.adjacency[idB][idA] = edge
	return nil
}

// InteractionsOf returns the neighbor-id to edge mapping for a drug. An
// unknown id yields an empty map, never an error.
func (g *Graph) InteractionsOf(id string) map[string]*Interaction {
	neighbors, ok := g.adjacency[id]
	if !ok {
		return map[string]*Interaction{}
	}
	out := make(map[string]*Interaction, len(neighbors))
	for nid, e := range neighbors {
		out[nid] = e
	}
	return out
}

// LeastRiskPath computes the minimum total-severity path between two drugs
// with a Dijkstra search using a linear-scan minimum over the unvisited
// set. Ties between equal-cost paths fall to whichever node the scan
// reaches first; callers must not rely on a particular tie-break. A query
// from a drug to itself yields a single-node, zero-severity path. An
// unreachable target yields ErrNoPath.
func (g *Graph) LeastRiskPath(from, to string) (*RiskPath, error) {
	if _, ok := g.nodes[from]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrDrugNotFound, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrDrugNotFound, to)
	}
	if from == to {
		return &RiskPath{Path: []string{from}, Edges: []*Interaction{}}, nil
	}

	const unbounded = int(^uint(0) >> 1)

	dist := make(map[string]int, len(g.nodes))
	prev := make(map[string]string, len(g.nodes))
	unvisited := make(map[string]bool, len(g.nodes))
	for id := range g.nodes {
		dist[id] = unbounded
		unvisited[id] = true
	}
	dist[from] = 0

	for len(unvisited) > 0 {
		current := ""
		best := unbounded
		for id := range unvisited {
			if d := dist[id]; d < best {
				best = d
				current = id
			}
		}
		if current == "" || current == to {
			break
		}
		delete(unvisited, current)

		for nid, edge := range g.adjacency[current] {
			if !unvisited[nid] {
				continue
			}
			if next := dist[current] + edge.Severity; next < dist[nid] {
				dist[nid] = next
				prev[nid] = current
			}
		}
	}

	if dist[to] == unbounded {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, from, to)
	}

	path := []string{to}
	edges := []*Interaction{}
	for current := to; ; {
		p, ok := prev[current]
		if !ok {
			break
		}
		edges = append(edges, g.adjacency[p][current])
		path = append(path, p)
		current = p
	}
	reverse(path)
	reverseEdges(edges)

	return &RiskPath{Path: path, TotalSeverity: dist[to], Edges: edges}, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseEdges(s []*Interaction) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
