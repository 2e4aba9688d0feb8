package edges

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Skufu/ddimatrix/internal/severity"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, addr, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestKindFromName(t *testing.T) {
	t.Run("known extensions", func(t *testing.T) {
		cases := map[string]Kind{
			"x_pairs.csv":   KindCSV,
			"X_PAIRS.CSV":   KindCSV,
			"a_matrix.xlsx": KindSpreadsheet,
			"a.xlsm":        KindSpreadsheet,
		}
		for name, want := range cases {
			got, err := KindFromName(name)
			require.NoError(t, err, name)
			assert.Equal(t, want, got, name)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := KindFromName("/tmp/pairs.json")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, ".json", fe.Ext)
		assert.Equal(t, "pairs.json", fe.Name)
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := KindFromName("pairs")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Error(), "missing extension")
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("normalizes values", func(t *testing.T) {
		in := "Drug_A,DRUG_B,Severity,Documentation,Summary\n" +
			" Warfarin , Aspirin ,Major,Good,\"Bleeding\nrisk\"\n" +
			"Simvastatin,Clarithromycin,Contraindicated,,Myopathy\n" +
			"A,B,weird,,\n"
		list, err := LoadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, list.Edges, 3)

		assert.Equal(t, Edge{
			DrugA:         "Warfarin",
			DrugB:         "Aspirin",
			Severity:      severity.Major,
			Documentation: "Good",
			Summary:       "Bleeding\nrisk",
		}, list.Edges[0])
		assert.Equal(t, severity.Contraindicated, list.Edges[1].Severity)
		assert.Empty(t, list.Edges[1].Documentation)
		assert.Equal(t, severity.Unspecified, list.Edges[2].Severity)
		assert.Zero(t, list.Skipped)
	})

	t.Run("documentation is optional", func(t *testing.T) {
		in := "drug_a,drug_b,severity,summary\nA,B,Minor,text\n"
		list, err := LoadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, list.Edges, 1)
		assert.Empty(t, list.Edges[0].Documentation)
		assert.Equal(t, "text", list.Edges[0].Summary)
	})

	t.Run("bare quotes inside fields", func(t *testing.T) {
		in := "drug_a,drug_b,severity,summary\n" +
			"A,B,Major,Avoid the 5\" tablet\n" +
			"C,D,Minor,\"quoted, with comma\"\n"
		list, err := LoadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, list.Edges, 2)
		assert.Equal(t, "Avoid the 5\" tablet", list.Edges[0].Summary)
		assert.Equal(t, "quoted, with comma", list.Edges[1].Summary)
	})

	t.Run("aliases and byte order mark", func(t *testing.T) {
		in := "\ufeffDrug1,drug2,SEV,Description,extra\nA,B,Moderate,desc,ignored\n"
		list, err := LoadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, list.Edges, 1)
		assert.Equal(t, "A", list.Edges[0].DrugA)
		assert.Equal(t, "desc", list.Edges[0].Summary)
	})

	t.Run("missing columns are reported", func(t *testing.T) {
		in := "drug_a,severity\nA,Major\n"
		_, err := LoadCSV(strings.NewReader(in))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{"drug_b", "summary"}, se.Missing)
		assert.Contains(t, se.Error(), "drug_b, summary")
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""))
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Len(t, se.Missing, 4)
	})

	t.Run("header only yields empty list", func(t *testing.T) {
		list, err := LoadCSV(strings.NewReader("drug_a,drug_b,severity,summary\n"))
		require.NoError(t, err)
		assert.Zero(t, list.Len())
		assert.Empty(t, list.Drugs())
	})

	t.Run("ragged and blank rows", func(t *testing.T) {
		in := "drug_a,drug_b,severity,summary\nA,B\n,,,\n ,C,Major,x\n"
		list, err := LoadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, list.Edges, 1)
		assert.Equal(t, severity.Unspecified, list.Edges[0].Severity)
		assert.Empty(t, list.Edges[0].Summary)
		assert.Equal(t, 1, list.Skipped)
	})
}

func TestLoadSpreadsheet(t *testing.T) {
	rows := [][]any{
		{"drug_a", "drug_b", "severity", "documentation", "summary"},
		{"A", "B", "Major", "Fair", "ab"},
		{"A", "C", "Contraindicated", "", "ac"},
	}

	t.Run("reads pairs sheet", func(t *testing.T) {
		list, err := LoadSpreadsheet(workbook(t, DefaultSheet, rows), "")
		require.NoError(t, err)
		require.Len(t, list.Edges, 2)
		assert.Equal(t, severity.Contraindicated, list.Edges[1].Severity)
		assert.Equal(t, "Fair", list.Edges[0].Documentation)
		assert.Equal(t, []string{"A", "B", "C"}, list.Drugs())
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := LoadSpreadsheet(workbook(t, "matrix", rows), "pairs")
		assert.True(t, errors.Is(err, ErrSheetNotFound))
	})

	t.Run("schema check applies", func(t *testing.T) {
		bad := [][]any{{"drug_a", "drug_b"}, {"A", "B"}}
		_, err := LoadSpreadsheet(workbook(t, DefaultSheet, bad), DefaultSheet)
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{"severity", "summary"}, se.Missing)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := LoadSpreadsheet(strings.NewReader("drug_a,drug_b"), DefaultSheet)
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "demo_pairs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("drug_a,drug_b,severity,summary\nA,B,Major,x\n"), 0o644))
	list, err := LoadFile(csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())

	xlsxPath := filepath.Join(dir, "demo_matrix.xlsx")
	buf := workbook(t, DefaultSheet, [][]any{{"drug_a", "drug_b", "severity", "summary"}, {"A", "B", "Minor", "y"}})
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o644))
	list, err = LoadFile(xlsxPath, DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, severity.Minor, list.Edges[0].Severity)

	_, err = LoadFile(filepath.Join(dir, "notes.txt"), "")
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	_, err = LoadFile(filepath.Join(dir, "absent.csv"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{DrugA: "A", DrugB: "B"}
	p, ok := e.Partner("A")
	assert.True(t, ok)
	assert.Equal(t, "B", p)
	p, _ = e.Partner("B")
	assert.Equal(t, "A", p)
	_, ok = e.Partner("C")
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B"}, e.Endpoints())

	self := Edge{DrugA: "A", DrugB: "A"}
	assert.True(t, self.IsSelfPair())
	p, ok = self.Partner("A")
	assert.True(t, ok)
	assert.Equal(t, "A", p)
	assert.Equal(t, []string{"A"}, self.Endpoints())

	list := List{Edges: []Edge{e}}
	assert.True(t, list.Contains("B"))
	assert.False(t, list.Contains("Z"))
}
