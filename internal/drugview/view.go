// Package drugview projects the edge list onto a single drug: one row per
// interacting partner, plus a partner x severity heatmap grid.
package drugview

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

// SnippetLimit is the longest summary shown in tooltips, in runes.
const SnippetLimit = 300

const ellipsis = "…"

type PartnerRow struct {
	Partner       string        `json:"partner"`
	Severity      severity.Tier `json:"severity"`
	Code          string        `json:"code,omitempty"`
	Documentation string        `json:"documentation"`
	Summary       string        `json:"summary"`
	Self          bool          `json:"self,omitempty"`
}

type Option func(*projection)

// TrackedOnly drops rows whose severity is not tracked.
func TrackedOnly() Option {
	return func(p *projection) { p.trackedOnly = true }
}

type projection struct {
	trackedOnly bool
}

// Project returns every edge touching drug, seen from drug, ordered by
// severity (most severe first) then partner name. A self-pair yields a
// single row with the drug as its own partner.
func Project(list edges.List, drug string, opts ...Option) []PartnerRow {
	var p projection
	for _, opt := range opts {
		opt(&p)
	}

	rows := make([]PartnerRow, 0)
	for _, e := range list.Edges {
		partner, ok := e.Partner(drug)
		if !ok {
			continue
		}
		if p.trackedOnly && !e.Severity.IsTracked() {
			continue
		}
		code, _ := severity.ShortCode(e.Severity)
		rows = append(rows, PartnerRow{
			Partner:       partner,
			Severity:      e.Severity,
			Code:          code,
			Documentation: e.Documentation,
			Summary:       Snippet(e.Summary),
			Self:          e.IsSelfPair(),
		})
	}

	slices.SortStableFunc(rows, func(a, b PartnerRow) int {
		if c := cmp.Compare(a.Severity.Rank(), b.Severity.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.Partner, b.Partner)
	})
	return rows
}

// Snippet flattens newlines and caps s at SnippetLimit runes, ending a cut
// string with an ellipsis.
func Snippet(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	r := []rune(s)
	if len(r) <= SnippetLimit {
		return s
	}
	return string(r[:SnippetLimit-3]) + ellipsis
}
