package models

import (
	"time"

	"github.com/lib/pq"
)

// DocumentationType classifies a documentation entry.
type DocumentationType string

const (
	DocumentationMeeting    DocumentationType = "Meeting"
	DocumentationDiscussion DocumentationType = "Discussion"
	DocumentationEvaluation DocumentationType = "Evaluation"
)

// Documentation records the minutes of a meeting or activity.
type Documentation struct {
	ID             string            `db:"id" json:"id"`
	Title          string            `db:"title" json:"title"`
	NomorUndangan  string            `db:"nomor_undangan" json:"nomorUndangan"`
	Description    string            `db:"description" json:"description"`
	Leader         string            `db:"leader" json:"leader"`
	Place          string            `db:"place" json:"place"`
	Time           time.Time         `db:"time" json:"time"`
	Timestamp      time.Time         `db:"timestamp" json:"timestamp"`
	AttendanceList pq.StringArray    `db:"attendance_list" json:"attendanceList"`
	Results        pq.StringArray    `db:"results" json:"results"`
	Pictures       pq.StringArray    `db:"pictures" json:"pictures"`
	Type           DocumentationType `db:"type" json:"type"`
	Writer         string            `db:"writer" json:"writer"`
}

// DiscussionDetail is one agenda line of a documentation entry.
type DiscussionDetail struct {
	ID                string     `db:"id" json:"id"`
	DocumentationID   string     `db:"documentation_id" json:"documentationId"`
	DiscussionTitle   string     `db:"discussion_title" json:"discussionTitle"`
	PersonResponsible string     `db:"person_responsible" json:"personResponsible"`
	FurtherActions    string     `db:"further_actions" json:"furtherActions"`
	Deadline          *time.Time `db:"deadline" json:"deadline,omitempty"`
}

// DocumentationWithDetails groups a documentation row with its detail rows.
type DocumentationWithDetails struct {
	Documentation
	DiscussionDetails []DiscussionDetail `json:"discussionDetails"`
}
