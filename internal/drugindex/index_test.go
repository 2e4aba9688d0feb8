package drugindex

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

func edge(a, b string, t severity.Tier) edges.Edge {
	return edges.Edge{DrugA: a, DrugB: b, Severity: t}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Drug
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Run("example scenario", func(t *testing.T) {
		idx := Build(edges.List{Edges: []edges.Edge{
			edge("A", "B", severity.Major),
			edge("A", "C", severity.Contraindicated),
			edge("B", "C", severity.Minor),
		}})

		require.Len(t, idx, 3)
		assert.Equal(t, []string{"A", "C", "B"}, names(idx))

		a := idx[0]
		assert.Equal(t, 1, a.Count(severity.Contraindicated))
		assert.Equal(t, 1, a.Count(severity.Major))
		assert.Equal(t, 0, a.Count(severity.Moderate))
		assert.Equal(t, 2, a.Total)

		c, ok := Lookup(idx, "C")
		require.True(t, ok)
		assert.Equal(t, 1, c.Total)
		assert.Zero(t, c.Count(severity.Minor))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Empty(t, Build(edges.List{}))
	})

	t.Run("untracked only drugs are listed with zeros", func(t *testing.T) {
		idx := Build(edges.List{Edges: []edges.Edge{
			edge("X", "Y", severity.Unspecified),
			edge("A", "B", severity.Moderate),
		}})
		assert.Equal(t, []string{"A", "B", "X", "Y"}, names(idx))
		x, _ := Lookup(idx, "X")
		assert.Zero(t, x.Total)
	})

	t.Run("self pair counts once", func(t *testing.T) {
		idx := Build(edges.List{Edges: []edges.Edge{edge("A", "A", severity.Major)}})
		require.Len(t, idx, 1)
		assert.Equal(t, 1, idx[0].Count(severity.Major))
		assert.Equal(t, 1, idx[0].Total)
	})

	t.Run("count conservation", func(t *testing.T) {
		l := edges.List{Edges: []edges.Edge{
			edge("A", "B", severity.Major),
			edge("B", "A", severity.Major),
			edge("A", "C", severity.Moderate),
			edge("C", "D", severity.Contraindicated),
			edge("D", "A", severity.Minor),
		}}
		idx := Build(l)
		for _, entry := range idx {
			want := 0
			for _, e := range l.Edges {
				if e.Severity.IsTracked() && e.Involves(entry.Drug) {
					want++
				}
			}
			sum := 0
			for _, tier := range severity.Tracked() {
				sum += entry.Count(tier)
			}
			assert.Equal(t, want, sum, entry.Drug)
			assert.Equal(t, want, entry.Total, entry.Drug)
		}
	})
}

func TestRanking(t *testing.T) {
	t.Run("severity tuple dominates total", func(t *testing.T) {
		idx := Build(edges.List{Edges: []edges.Edge{
			edge("Hub", "P1", severity.Moderate),
			edge("Hub", "P2", severity.Moderate),
			edge("Hub", "P3", severity.Moderate),
			edge("Rare", "Q1", severity.Contraindicated),
		}})
		assert.Equal(t, []string{"Q1", "Rare", "Hub"}, names(idx)[:3])
	})

	t.Run("ties break by name", func(t *testing.T) {
		idx := Build(edges.List{Edges: []edges.Edge{
			edge("Zeta", "Alpha", severity.Major),
			edge("Mu", "Beta", severity.Major),
		}})
		assert.Equal(t, []string{"Alpha", "Beta", "Mu", "Zeta"}, names(idx))
	})

	t.Run("row order does not matter", func(t *testing.T) {
		es := []edges.Edge{
			edge("A", "B", severity.Major),
			edge("C", "D", severity.Major),
			edge("E", "A", severity.Moderate),
			edge("B", "F", severity.Contraindicated),
		}
		reversed := make([]edges.Edge, len(es))
		for i, e := range es {
			reversed[len(es)-1-i] = e
		}
		assert.Equal(t,
			names(Build(edges.List{Edges: es})),
			names(Build(edges.List{Edges: reversed})))
	})
}

func TestEntryJSON(t *testing.T) {
	e := Entry{Drug: "A", Counts: map[severity.Tier]int{severity.Major: 2}, Total: 2}
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"drug":"A","CI":0,"MAJ":2,"MOD":0,"total":2}`, string(raw))
}
