package models

import "time"

// ReportType classifies a student report.
type ReportType string

const (
	ReportTypeUrgent    ReportType = "Urgent"
	ReportTypeReport    ReportType = "Report"
	ReportTypeComplaint ReportType = "Complaint"
)

// SentimentNeutral is stamped on every new report.
const SentimentNeutral = "neutral"

// StudentReport is an advisor or company note about a student. The student is
// referenced by name, not by id.
type StudentReport struct {
	ID          string     `db:"id" json:"id"`
	Type        ReportType `db:"type" json:"type"`
	Person      string     `db:"person" json:"person"`
	Status      string     `db:"status" json:"status"`
	Report      string     `db:"report" json:"report"`
	StudentName string     `db:"student_name" json:"studentName"`
	Sentiment   string     `db:"sentiment" json:"sentiment"`
	Timestamp   time.Time  `db:"timestamp" json:"timestamp"`
	Writer      string     `db:"writer" json:"writer"`
}

// ReportFilter narrows report listings for a student.
type ReportFilter struct {
	StudentName string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Comment is a follow-up remark attached to a report.
type Comment struct {
	ID              string    `db:"id" json:"id"`
	StudentReportID string    `db:"student_report_id" json:"studentReportId"`
	Writer          string    `db:"writer" json:"writer"`
	Content         string    `db:"content" json:"content"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// ReportCommentCount is the number of comments attached to one report.
type ReportCommentCount struct {
	StudentReportID string `db:"student_report_id"`
	Count           int    `db:"count"`
}
