package drugview

import (
	"slices"

	"github.com/Skufu/ddimatrix/internal/severity"
)

// ColorStop is one point of a discrete colorscale, Pos in [0, 1].
type ColorStop struct {
	Pos   float64 `json:"pos"`
	Color string  `json:"color"`
}

// Heatmap is a partner x tier grid. Values[i][j] is j+1 when the drug and
// Partners[i] interact at Tiers[j], else 0, so each column maps onto its
// own band of Scale.
type Heatmap struct {
	Partners []string        `json:"partners"`
	Tiers    []severity.Tier `json:"tiers"`
	Values   [][]int         `json:"values"`
	Tooltips [][]string      `json:"tooltips"`
	Scale    []ColorStop     `json:"scale"`
}

// BuildHeatmap pivots projected rows. The tooltip of a cell is the summary
// of the first row that set it.
func BuildHeatmap(rows []PartnerRow) Heatmap {
	tiers := severity.Order()

	partners := make([]string, 0, len(rows))
	for _, r := range rows {
		partners = append(partners, r.Partner)
	}
	slices.Sort(partners)
	partners = slices.Compact(partners)

	pos := make(map[string]int, len(partners))
	for i, p := range partners {
		pos[p] = i
	}

	h := Heatmap{
		Partners: partners,
		Tiers:    tiers,
		Values:   make([][]int, len(partners)),
		Tooltips: make([][]string, len(partners)),
		Scale:    Colorscale(tiers),
	}
	for i := range partners {
		h.Values[i] = make([]int, len(tiers))
		h.Tooltips[i] = make([]string, len(tiers))
	}

	for _, r := range rows {
		i := pos[r.Partner]
		j := slices.Index(tiers, r.Severity)
		if j < 0 || h.Values[i][j] != 0 {
			continue
		}
		h.Values[i][j] = j + 1
		h.Tooltips[i][j] = r.Summary
	}
	return h
}

// CellColor resolves the color of a grid value.
func (h Heatmap) CellColor(v int) string {
	if v <= 0 || v > len(h.Tiers) {
		return severity.EmptyColor
	}
	return severity.Color(h.Tiers[v-1])
}

// Colorscale builds a near-step scale: 0 is EmptyColor and band j (1-based)
// covers ((j-1)/n, j/n] in the color of tiers[j-1].
func Colorscale(tiers []severity.Tier) []ColorStop {
	n := max(1, len(tiers))
	scale := []ColorStop{{Pos: 0, Color: severity.EmptyColor}}
	for j, t := range tiers {
		c := severity.Color(t)
		hi := float64(j+1) / float64(n)
		lo := (float64(j+1) - 0.00001) / float64(n)
		scale = append(scale, ColorStop{Pos: lo, Color: c}, ColorStop{Pos: hi, Color: c})
	}
	return scale
}
