package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type meetingScheduleRepository interface {
	ListByReportIDs(ctx context.Context, reportIDs []string) ([]models.MeetingScheduleWithWriter, error)
	ListByReport(ctx context.Context, reportID string) ([]models.MeetingSchedule, error)
	FindByID(ctx context.Context, id string) (*models.MeetingSchedule, error)
	Create(ctx context.Context, schedule *models.MeetingSchedule) error
	Update(ctx context.Context, schedule *models.MeetingSchedule) error
	Delete(ctx context.Context, id string) error
}

type reportLookup interface {
	FindByID(ctx context.Context, id string) (*models.StudentReport, error)
}

// MeetingScheduleService manages follow-up meetings attached to reports.
type MeetingScheduleService struct {
	repo      meetingScheduleRepository
	reports   reportLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMeetingScheduleService constructs the service.
func NewMeetingScheduleService(repo meetingScheduleRepository, reports reportLookup, validate *validator.Validate, logger *zap.Logger) *MeetingScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingScheduleService{repo: repo, reports: reports, validator: validate, logger: logger}
}

// GetSchedules returns one schedule per report id. When a report has several
// schedules the most recently created one is kept.
func (s *MeetingScheduleService) GetSchedules(ctx context.Context, reportIDs []string) (map[string]models.MeetingScheduleWithWriter, error) {
	ids := uniqueNonEmpty(reportIDs)
	if len(ids) == 0 {
		return nil, appErrors.Validation("reportIds must contain at least one id")
	}
	rows, err := s.repo.ListByReportIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list meeting schedules")
	}
	result := make(map[string]models.MeetingScheduleWithWriter, len(rows))
	for _, row := range rows {
		result[row.StudentReportID] = row
	}
	return result, nil
}

// CreateSchedule stores a new schedule and returns it with the refreshed
// schedule list of its report.
func (s *MeetingScheduleService) CreateSchedule(ctx context.Context, req dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, error) {
	req = trimMeetingRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "timeStart, timeEnd, description, place, date, meetingType and studentReportId are required")
	}
	date, err := parseTimestamp(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	if _, err := s.reports.FindByID(ctx, req.StudentReportID); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Internal(err, "failed to load report")
	}

	schedule := &models.MeetingSchedule{
		StudentReportID: req.StudentReportID,
		TimeStart:       req.TimeStart,
		TimeEnd:         req.TimeEnd,
		Date:            date,
		Place:           req.Place,
		Type:            req.MeetingType,
		Description:     req.Description,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Internal(err, "failed to create meeting schedule")
	}

	schedules, err := s.repo.ListByReport(ctx, req.StudentReportID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list meeting schedules")
	}
	if schedules == nil {
		schedules = []models.MeetingSchedule{}
	}
	return &dto.CreateMeetingResponse{NewMeeting: *schedule, UpdatedSchedules: schedules}, nil
}

func trimMeetingRequest(req dto.CreateMeetingRequest) dto.CreateMeetingRequest {
	req.StudentReportID = strings.TrimSpace(req.StudentReportID)
	req.TimeStart = strings.TrimSpace(req.TimeStart)
	req.TimeEnd = strings.TrimSpace(req.TimeEnd)
	req.Date = strings.TrimSpace(req.Date)
	req.Place = strings.TrimSpace(req.Place)
	req.MeetingType = strings.TrimSpace(req.MeetingType)
	req.Description = strings.TrimSpace(req.Description)
	return req
}

// UpdateSchedule overwrites the non-empty fields of a schedule.
func (s *MeetingScheduleService) UpdateSchedule(ctx context.Context, id string, req dto.UpdateMeetingRequest) (*models.MeetingSchedule, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("schedule id is required")
	}
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting schedule not found")
		}
		return nil, appErrors.Internal(err, "failed to load meeting schedule")
	}

	if strings.TrimSpace(req.Date) != "" {
		date, err := parseTimestamp(req.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
		}
		schedule.Date = date
	}
	assign(&schedule.TimeStart, req.TimeStart)
	assign(&schedule.TimeEnd, req.TimeEnd)
	assign(&schedule.Place, req.Place)
	assign(&schedule.Type, req.MeetingType)
	assign(&schedule.Description, req.Description)

	if err := s.repo.Update(ctx, schedule); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting schedule not found")
		}
		return nil, appErrors.Internal(err, "failed to update meeting schedule")
	}
	return schedule, nil
}

// DeleteSchedule removes a schedule.
func (s *MeetingScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Validation("schedule id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isMissing(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "meeting schedule not found")
		}
		return appErrors.Internal(err, "failed to delete meeting schedule")
	}
	return nil
}
