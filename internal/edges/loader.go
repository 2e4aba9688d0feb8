package edges

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Skufu/ddimatrix/internal/severity"
)

// DefaultSheet is the worksheet holding the pairs table in a matrix workbook.
const DefaultSheet = "pairs"

type Kind string

const (
	KindCSV         Kind = "csv"
	KindSpreadsheet Kind = "spreadsheet"
)

// KindFromName picks the loader from a file name's extension.
func KindFromName(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindSpreadsheet, nil
	}
	return "", &FormatError{Name: filepath.Base(name), Ext: ext}
}

// LoadFile opens path and loads it according to its extension.
func LoadFile(path, sheet string) (List, error) {
	kind, err := KindFromName(path)
	if err != nil {
		return List{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return List{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, kind, sheet)
}

// Load reads a pairs table from r. sheet is only used for spreadsheets and
// defaults to DefaultSheet.
func Load(r io.Reader, kind Kind, sheet string) (List, error) {
	switch kind {
	case KindCSV:
		return LoadCSV(r)
	case KindSpreadsheet:
		return LoadSpreadsheet(r, sheet)
	}
	return List{}, &FormatError{Name: string(kind)}
}

func LoadCSV(r io.Reader) (List, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return List{}, &SchemaError{Missing: append([]string(nil), requiredColumns...)}
	}
	if err != nil {
		return List{}, fmt.Errorf("read csv header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return List{}, fmt.Errorf("read csv rows: %w", err)
	}
	return FromRows(header, rows)
}

func LoadSpreadsheet(r io.Reader, sheet string) (List, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return List{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return List{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return List{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return List{}, &SchemaError{Missing: append([]string(nil), requiredColumns...)}
	}
	return FromRows(rows[0], rows[1:])
}

// FromRows resolves header aliases and normalizes every row into an Edge.
// Rows may be ragged; absent cells read as empty.
func FromRows(header []string, rows [][]string) (List, error) {
	idx, err := resolveColumns(header)
	if err != nil {
		return List{}, err
	}

	list := List{Edges: make([]Edge, 0, len(rows))}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		e := Edge{
			DrugA:         cell(row, idx, ColDrugA),
			DrugB:         cell(row, idx, ColDrugB),
			Severity:      severity.Normalize(cell(row, idx, ColSeverity)),
			Documentation: cell(row, idx, ColDocumentation),
			Summary:       cell(row, idx, ColSummary),
		}
		if e.DrugA == "" || e.DrugB == "" {
			list.Skipped++
			continue
		}
		list.Edges = append(list.Edges, e)
	}
	return list, nil
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
