// Package edges loads and normalizes drug-drug interaction edge lists.
package edges

import (
	"slices"

	"github.com/Skufu/ddimatrix/internal/severity"
)

// Edge is one row of a pairs table. DrugA and DrugB form an unordered pair.
type Edge struct {
	DrugA         string        `json:"drug_a"`
	DrugB         string        `json:"drug_b"`
	Severity      severity.Tier `json:"severity"`
	Documentation string        `json:"documentation"`
	Summary       string        `json:"summary"`
}

// Involves reports whether drug is either endpoint.
func (e Edge) Involves(drug string) bool {
	return e.DrugA == drug || e.DrugB == drug
}

// IsSelfPair reports whether both endpoints name the same drug.
func (e Edge) IsSelfPair() bool {
	return e.DrugA == e.DrugB
}

// Partner returns the endpoint opposite to drug. For a self-pair the partner
// is the drug itself.
func (e Edge) Partner(drug string) (string, bool) {
	switch drug {
	case e.DrugA:
		return e.DrugB, true
	case e.DrugB:
		return e.DrugA, true
	}
	return "", false
}

// Endpoints returns the distinct endpoints of the edge.
func (e Edge) Endpoints() []string {
	if e.IsSelfPair() {
		return []string{e.DrugA}
	}
	return []string{e.DrugA, e.DrugB}
}

// List is an immutable snapshot of loaded edges in input order.
type List struct {
	Edges []Edge `json:"edges"`
	// Skipped counts rows dropped because an endpoint was blank.
	Skipped int `json:"skipped"`
}

func (l List) Len() int {
	return len(l.Edges)
}

// Drugs returns the union of both endpoint columns, sorted.
func (l List) Drugs() []string {
	seen := make(map[string]struct{}, len(l.Edges))
	for _, e := range l.Edges {
		seen[e.DrugA] = struct{}{}
		seen[e.DrugB] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Contains reports whether drug appears as an endpoint anywhere.
func (l List) Contains(drug string) bool {
	for _, e := range l.Edges {
		if e.Involves(drug) {
			return true
		}
	}
	return false
}
