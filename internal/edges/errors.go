package edges

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSheetNotFound = errors.New("sheet not found")

// FormatError is returned for a file whose extension is not a supported
// pairs format.
type FormatError struct {
	Name string
	Ext  string
}

func (e *FormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported format for %q: missing extension (want .csv, .xlsx or .xlsm)", e.Name)
	}
	return fmt.Sprintf("unsupported format %q for %q (want .csv, .xlsx or .xlsm)", e.Ext, e.Name)
}

// SchemaError lists the canonical columns still missing after alias
// resolution.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}
