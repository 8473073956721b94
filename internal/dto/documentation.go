package dto

// DiscussionDetailRequest is one agenda line of a documentation payload.
type DiscussionDetailRequest struct {
	DiscussionTitle   string `json:"discussionTitle" validate:"required"`
	PersonResponsible string `json:"personResponsible"`
	FurtherActions    string `json:"furtherActions"`
	Deadline          string `json:"deadline"`
}

// DocumentationRequest creates or replaces a documentation entry with its
// discussion details.
type DocumentationRequest struct {
	Title             string                    `json:"title" validate:"required"`
	NomorUndangan     string                    `json:"nomorUndangan"`
	Description       string                    `json:"description"`
	Leader            string                    `json:"leader"`
	Place             string                    `json:"place"`
	Time              string                    `json:"time" validate:"required"`
	AttendanceList    []string                  `json:"attendanceList"`
	Results           []string                  `json:"results"`
	Pictures          []string                  `json:"pictures"`
	Type              string                    `json:"type" validate:"required,oneof=Meeting Discussion Evaluation"`
	DiscussionDetails []DiscussionDetailRequest `json:"discussionDetails" validate:"dive"`
}
