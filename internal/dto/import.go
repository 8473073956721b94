package dto

// SkippedRow explains why a spreadsheet row was not imported. Row is 1-based
// as shown by spreadsheet applications.
type SkippedRow struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ImportResponse summarises a student upload.
type ImportResponse struct {
	Parsed   int          `json:"parsed"`
	Inserted int          `json:"inserted"`
	Skipped  []SkippedRow `json:"skipped"`
}
