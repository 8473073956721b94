package dto

import "github.com/abelkristv/magang-sub001/internal/models"

// CreateMeetingRequest schedules a follow-up meeting for a report.
type CreateMeetingRequest struct {
	StudentReportID string `json:"studentReportId" validate:"required"`
	TimeStart       string `json:"timeStart" validate:"required"`
	TimeEnd         string `json:"timeEnd" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Place           string `json:"place" validate:"required"`
	MeetingType     string `json:"meetingType" validate:"required"`
	Description     string `json:"description" validate:"required"`
}

// UpdateMeetingRequest overwrites the non-empty fields of a schedule.
type UpdateMeetingRequest struct {
	TimeStart   string `json:"timeStart"`
	TimeEnd     string `json:"timeEnd"`
	Date        string `json:"date"`
	Place       string `json:"place"`
	MeetingType string `json:"meetingType"`
	Description string `json:"description"`
}

// CreateMeetingResponse returns the new schedule and the refreshed list for
// its report.
type CreateMeetingResponse struct {
	NewMeeting       models.MeetingSchedule   `json:"newMeeting"`
	UpdatedSchedules []models.MeetingSchedule `json:"updatedSchedules"`
}
