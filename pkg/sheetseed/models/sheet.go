package models

// Sheet represents a sheet reconstructed as a dense table of string values.
type Sheet struct {
	// Name is the sheet name as declared in the workbook.
	Name string `json:"name"`
	// Rows contains non-empty rows. Each row spans column 1 to the highest
	// populated column; gaps hold "".
	Rows [][]string `json:"rows"`
}

// Cell returns the value at the 1-based column, or "" when the row is shorter.
func Cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
