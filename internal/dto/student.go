package dto

// StudentListQuery is bound from GET /student query parameters.
type StudentListQuery struct {
	Name   string `form:"name"`
	Period string `form:"period"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// StudentSearchQuery is bound from GET /student/search query parameters.
type StudentSearchQuery struct {
	Name  string `form:"name"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// UpdateNotesRequest replaces advisor notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// ReportCountResponse is returned by GET /student/:id/reports/count.
type ReportCountResponse struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Count       int    `json:"count"`
}
