package edges

import "strings"

const (
	ColDrugA         = "drug_a"
	ColDrugB         = "drug_b"
	ColSeverity      = "severity"
	ColDocumentation = "documentation"
	ColSummary       = "summary"
)

// Columns is the canonical column order.
var Columns = []string{ColDrugA, ColDrugB, ColSeverity, ColDocumentation, ColSummary}

var requiredColumns = []string{ColDrugA, ColDrugB, ColSeverity, ColSummary}

// aliases maps a lowercased, trimmed header onto its canonical column.
var aliases = map[string]string{
	"drug_a":        ColDrugA,
	"drug a":        ColDrugA,
	"druga":         ColDrugA,
	"drug_1":        ColDrugA,
	"drug1":         ColDrugA,
	"drug_b":        ColDrugB,
	"drug b":        ColDrugB,
	"drugb":         ColDrugB,
	"drug_2":        ColDrugB,
	"drug2":         ColDrugB,
	"severity":      ColSeverity,
	"sev":           ColSeverity,
	"documentation": ColDocumentation,
	"doc":           ColDocumentation,
	"summary":       ColSummary,
	"description":   ColSummary,
}

// resolveColumns maps each canonical column onto its index in header. The
// first matching header wins when several alias to the same column.
func resolveColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(Columns))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		canon, ok := aliases[key]
		if !ok {
			continue
		}
		if _, dup := idx[canon]; dup {
			continue
		}
		idx[canon] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return idx, nil
}
