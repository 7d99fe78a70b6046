package drug

import "strings"

// NameIndex resolves possibly misspelled or partially typed drug names to
// catalog records. Names are case-folded and stored character-by-character
// in a prefix tree; approximate lookup walks the whole tree and scores every
// stored word by edit distance. That is linear in total indexed characters,
// which is fine for a small curated catalog.
type NameIndex struct {
	root *trieNode
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
	record   *Drug
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func NewNameIndex() *NameIndex {
	return &NameIndex{root: newTrieNode()}
}

// Insert adds a name for the given record. Inserting the same name twice
// overwrites the stored record reference. The index does not deduplicate:
// several names may point at the same record, but only when explicitly
// inserted.
func (ix *NameIndex) Insert(name string, rec *Drug) {
	node := ix.root
	for _, r := range strings.ToLower(name) {
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
		}
		node = child
	}
	node.terminal = true
	node.record = rec
}

// LookupExact returns the record stored under the case-folded name, if any.
func (ix *NameIndex) LookupExact(name string) (*Drug, bool) {
	node := ix.root
	for _, r := range strings.ToLower(name) {
		child, ok := node.children[r]
		if !ok {
			return nil, false
		}
		node = child
	}
	if !node.terminal {
		return nil, false
	}
	return node.record, true
}

// FindApproximate returns every indexed word within maxDistance edits
// (insert/delete/substitute, unit cost) of the query, paired with its record
// and the computed distance. Result order is not significant; callers that
// need a single best match must pick the minimum themselves. An empty query
// matches nothing.
func (ix *NameIndex) FindApproximate(query string, maxDistance int) []Match {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []Match
	var walk func(node *trieNode, word []rune)
	walk = func(node *trieNode, word []rune) {
		if node.terminal {
			if d := editDistance(string(word), query); d <= maxDistance {
				results = append(results, Match{Word: string(word), Distance: d, Record: node.record})
			}
		}
		for r, child := range node.children {
			walk(child, append(word, r))
		}
	}
	walk(ix.root, nil)
	return results
}

// editDistance computes the Levenshtein distance between two strings using
// a two-row dynamic program.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
