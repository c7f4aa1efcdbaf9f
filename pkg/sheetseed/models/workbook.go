// Package models defines the records produced by a spreadsheet migration run.
package models

// Workbook represents a loaded spreadsheet archive with its sheets in workbook order.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds every sheet in the order the workbook declares them.
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet with the given name, if present.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}
