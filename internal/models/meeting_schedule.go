package models

import "time"

// MeetingSchedule is a follow-up meeting planned for a report.
type MeetingSchedule struct {
	ID              string    `db:"id" json:"id"`
	StudentReportID string    `db:"student_report_id" json:"studentReportId"`
	TimeStart       string    `db:"time_start" json:"timeStart"`
	TimeEnd         string    `db:"time_end" json:"timeEnd"`
	Date            time.Time `db:"date" json:"date"`
	Place           string    `db:"place" json:"place"`
	Type            string    `db:"type" json:"type"`
	Description     string    `db:"description" json:"description"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// MeetingScheduleWithWriter carries the writer of the parent report.
type MeetingScheduleWithWriter struct {
	MeetingSchedule
	Writer string `db:"writer" json:"writer"`
}
