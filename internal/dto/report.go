package dto

// ReportQuery is bound from GET /reports query parameters.
type ReportQuery struct {
	StudentName string `form:"studentName"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
}

// ReportPayload is the decrypted body of report create and update calls.
type ReportPayload struct {
	Type        string `json:"type" validate:"required"`
	Person      string `json:"person" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Report      string `json:"report" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
	Timestamp   string `json:"timestamp" validate:"required"`
	Writer      string `json:"writer" validate:"required"`
}

// ReportUpdatePayload overwrites the non-empty fields of a report.
type ReportUpdatePayload struct {
	Type        string `json:"type"`
	Person      string `json:"person"`
	Status      string `json:"status"`
	Report      string `json:"report"`
	StudentName string `json:"studentName"`
	Timestamp   string `json:"timestamp"`
	Writer      string `json:"writer"`
}

// StudentRef names a student in batch requests.
type StudentRef struct {
	Name string `json:"name"`
}

// TotalCommentsRequest asks for comment totals per student.
type TotalCommentsRequest struct {
	Students []StudentRef `json:"students"`
}

// CommentRequest adds a comment to a report.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}
