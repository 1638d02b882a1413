// FILE: jsonsieve/src/internal/tabular/csv.go
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"jsonsieve/src/internal/core"
)

var (
	rowHeader      = []string{"Path", "Value", "Type"}
	fragmentHeader = []string{"JSON Object", "Path", "Value", "Type", "Size"}
)

// WriteCSV writes rows as Path,Value,Type records
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rowHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		if err := cw.Write([]string{row.Path, row.Value, string(row.Type)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFragmentsCSV flattens every fragment into one table. The JSON Object
// column is the fragment's 1-based position; fragments without parsed data
// contribute no rows but keep their number.
func WriteFragmentsCSV(w io.Writer, fragments []core.Fragment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fragmentHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, f := range fragments {
		if !f.IsValid {
			continue
		}

		object := strconv.Itoa(i + 1)
		for _, row := range Flatten(f.ParsedData) {
			size := ""
			if row.Size != nil {
				size = strconv.Itoa(*row.Size)
			}
			if err := cw.Write([]string{object, row.Path, row.Value, string(row.Type), size}); err != nil {
				return fmt.Errorf("failed to write csv row for fragment %s: %w", f.ID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
