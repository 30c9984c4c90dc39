package model

// SheetDescriptor describes one sheet of a tabular dataset
type SheetDescriptor struct {
	Name     string   `json:"name"`
	Headers  []string `json:"headers"`
	RowCount int      `json:"row_count"`
}

// Row is one sampled row keyed by column name
type Row map[string]string

// Workbook is the tabular input for one matching pass. Sample rows are kept
// for preview and review context only; the matching algorithm itself works
// on headers.
type Workbook struct {
	Sheets     []SheetDescriptor `json:"sheets"`
	SampleRows map[string][]Row  `json:"sample_rows,omitempty"` // keyed by sheet name
}

// NewSingleSheetWorkbook wraps a flat header list as one implicit sheet
func NewSingleSheetWorkbook(name string, headers []string, rowCount int) *Workbook {
	return &Workbook{
		Sheets: []SheetDescriptor{
			{Name: name, Headers: headers, RowCount: rowCount},
		},
	}
}

// MultiSheet reports whether sheet-aware refinement applies
func (w *Workbook) MultiSheet() bool {
	return w != nil && len(w.Sheets) > 1
}

// AllHeaders returns the headers of every sheet in declaration order,
// used as the source fingerprint of a persisted snapshot
func (w *Workbook) AllHeaders() []string {
	if w == nil {
		return nil
	}
	var headers []string
	for _, sheet := range w.Sheets {
		headers = append(headers, sheet.Headers...)
	}
	return headers
}
