package dto

// ExportStudentsQuery is bound from GET /export/students.
type ExportStudentsQuery struct {
	Format string `form:"format"`
	Name   string `form:"name"`
	Period string `form:"period"`
	Status string `form:"status"`
}

// ExportReportsQuery is bound from GET /export/reports.
type ExportReportsQuery struct {
	Format      string `form:"format"`
	StudentName string `form:"studentName"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
}
