// Package matrix builds the symmetric drug x drug severity matrix.
package matrix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

// ConflictPolicy decides which edge wins when several edges share an
// unordered pair.
type ConflictPolicy int

const (
	// LastWriteWins keeps the last edge in input order.
	LastWriteWins ConflictPolicy = iota
	// MostSevereWins keeps the most severe edge regardless of row order.
	MostSevereWins
)

func (p ConflictPolicy) String() string {
	switch p {
	case MostSevereWins:
		return "most-severe-wins"
	default:
		return "last-write-wins"
	}
}

// ParseConflictPolicy accepts the names returned by String. Empty means
// LastWriteWins.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-write-wins":
		return LastWriteWins, nil
	case "most-severe-wins":
		return MostSevereWins, nil
	}
	return LastWriteWins, fmt.Errorf("unknown conflict policy %q", s)
}

type Option func(*builder)

func WithConflictPolicy(p ConflictPolicy) Option {
	return func(b *builder) { b.policy = p }
}

type builder struct {
	policy ConflictPolicy
}

// Matrix is a square, symmetric table of short codes. Drugs gives both the
// row and the column order.
type Matrix struct {
	Drugs []string
	index map[string]int
	cells [][]string
}

// Build fills the matrix from list. Only tracked tiers populate cells, both
// M[a][b] and M[b][a] are always written together, and self-pairs land on
// the diagonal.
func Build(list edges.List, opts ...Option) *Matrix {
	b := builder{policy: LastWriteWins}
	for _, opt := range opts {
		opt(&b)
	}

	drugs := list.Drugs()
	m := &Matrix{
		Drugs: drugs,
		index: make(map[string]int, len(drugs)),
		cells: make([][]string, len(drugs)),
	}
	for i, d := range drugs {
		m.index[d] = i
		m.cells[i] = make([]string, len(drugs))
	}

	for _, e := range list.Edges {
		code, ok := severity.ShortCode(e.Severity)
		if !ok {
			continue
		}
		i, j := m.index[e.DrugA], m.index[e.DrugB]
		if b.policy == MostSevereWins && !m.overrides(i, j, e.Severity) {
			continue
		}
		m.cells[i][j] = code
		m.cells[j][i] = code
	}
	return m
}

func (m *Matrix) overrides(i, j int, t severity.Tier) bool {
	prev := m.cells[i][j]
	if prev == "" {
		return true
	}
	old, _ := severity.FromShortCode(prev)
	return !severity.MoreSevere(old, t)
}

func (m *Matrix) Len() int {
	return len(m.Drugs)
}

// At returns the short code for the pair, or "" when either drug is unknown
// or the pair has no tracked interaction.
func (m *Matrix) At(a, b string) string {
	i, ok := m.index[a]
	if !ok {
		return ""
	}
	j, ok := m.index[b]
	if !ok {
		return ""
	}
	return m.cells[i][j]
}

// Tier returns the severity stored for the pair.
func (m *Matrix) Tier(a, b string) (severity.Tier, bool) {
	return severity.FromShortCode(m.At(a, b))
}

// Row returns a copy of the cells for drug.
func (m *Matrix) Row(drug string) ([]string, bool) {
	i, ok := m.index[drug]
	if !ok {
		return nil, false
	}
	return append([]string(nil), m.cells[i]...), true
}

// Cells returns a copy of the full table.
func (m *Matrix) Cells() [][]string {
	out := make([][]string, len(m.cells))
	for i, row := range m.cells {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Populated counts non-empty cells on or above the diagonal, i.e. the
// number of distinct pairs carrying a tracked severity.
func (m *Matrix) Populated() int {
	n := 0
	for i := range m.cells {
		for j := i; j < len(m.cells); j++ {
			if m.cells[i][j] != "" {
				n++
			}
		}
	}
	return n
}

func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Drugs []string   `json:"drugs"`
		Cells [][]string `json:"cells"`
	}{Drugs: m.Drugs, Cells: m.cells})
}
