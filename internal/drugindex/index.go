// Package drugindex counts tracked interactions per drug and ranks drugs by
// how severe their interaction profile is.
package drugindex

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

// Entry holds the tracked-tier counts of one drug.
type Entry struct {
	Drug   string
	Counts map[severity.Tier]int
	Total  int
}

func (e Entry) Count(t severity.Tier) int {
	return e.Counts[t]
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"drug":  e.Drug,
		"total": e.Total,
	}
	for _, t := range severity.Tracked() {
		code, _ := severity.ShortCode(t)
		out[code] = e.Counts[t]
	}
	return json.Marshal(out)
}

// Build returns one entry per drug in list, ranked.
//
// Every tracked edge adds one to each of its distinct endpoints, so a
// self-pair counts once. Drugs that only appear in untracked edges are
// listed with zero counts.
func Build(list edges.List) []Entry {
	byDrug := make(map[string]*Entry)
	for _, d := range list.Drugs() {
		byDrug[d] = &Entry{Drug: d, Counts: make(map[severity.Tier]int)}
	}

	for _, e := range list.Edges {
		if !e.Severity.IsTracked() {
			continue
		}
		for _, d := range e.Endpoints() {
			entry := byDrug[d]
			entry.Counts[e.Severity]++
			entry.Total++
		}
	}

	out := make([]Entry, 0, len(byDrug))
	for _, entry := range byDrug {
		out = append(out, *entry)
	}
	Rank(out)
	return out
}

// Rank sorts entries by descending tier counts (most severe first), then
// descending total, then drug name ascending.
func Rank(entries []Entry) {
	tiers := severity.Tracked()
	slices.SortFunc(entries, func(a, b Entry) int {
		for _, t := range tiers {
			if c := cmp.Compare(b.Counts[t], a.Counts[t]); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Drug, b.Drug)
	})
}

// Lookup finds the entry for drug.
func Lookup(entries []Entry, drug string) (Entry, bool) {
	for _, e := range entries {
		if e.Drug == drug {
			return e, true
		}
	}
	return Entry{}, false
}
