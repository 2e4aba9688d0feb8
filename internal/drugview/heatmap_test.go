package drugview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

func TestBuildHeatmap(t *testing.T) {
	l := edges.List{Edges: []edges.Edge{
		{DrugA: "A", DrugB: "C", Severity: severity.Moderate, Summary: "first"},
		{DrugA: "C", DrugB: "A", Severity: severity.Moderate, Summary: "second"},
		{DrugA: "A", DrugB: "C", Severity: severity.Contraindicated, Summary: "ci"},
		{DrugA: "B", DrugB: "A", Severity: severity.Unspecified, Summary: "?"},
	}}
	h := BuildHeatmap(Project(l, "A"))

	assert.Equal(t, []string{"B", "C"}, h.Partners)
	assert.Equal(t, severity.Order(), h.Tiers)
	require.Len(t, h.Values, 2)

	assert.Equal(t, []int{0, 0, 0, 0, 5}, h.Values[0])
	assert.Equal(t, []int{1, 0, 3, 0, 0}, h.Values[1])
	assert.Equal(t, "first", h.Tooltips[1][2])
	assert.Equal(t, "ci", h.Tooltips[1][0])
	assert.Empty(t, h.Tooltips[1][1])

	assert.Equal(t, severity.EmptyColor, h.CellColor(0))
	assert.Equal(t, severity.Color(severity.Moderate), h.CellColor(3))
	assert.Equal(t, severity.EmptyColor, h.CellColor(99))
}

func TestBuildHeatmapEmpty(t *testing.T) {
	h := BuildHeatmap(nil)
	assert.Empty(t, h.Partners)
	assert.Empty(t, h.Values)
	assert.Len(t, h.Tiers, 5)
}

func TestColorscale(t *testing.T) {
	scale := Colorscale(severity.Order())
	require.Len(t, scale, 11)
	assert.Equal(t, ColorStop{Pos: 0, Color: severity.EmptyColor}, scale[0])
	assert.InDelta(t, 0.2, scale[2].Pos, 1e-9)
	assert.Less(t, scale[1].Pos, scale[2].Pos)
	assert.Equal(t, severity.Color(severity.Contraindicated), scale[1].Color)
	assert.InDelta(t, 1.0, scale[10].Pos, 1e-9)

	assert.Len(t, Colorscale(nil), 1)
}
