package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/cache"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

var urgentReportsKey = cache.Key("reports", "urgent")

type reportRepository interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.StudentReport, error)
	ListByType(ctx context.Context, reportType models.ReportType) ([]models.StudentReport, error)
	ListByStudentNames(ctx context.Context, names []string) ([]models.StudentReport, error)
	FindByID(ctx context.Context, id string) (*models.StudentReport, error)
	Create(ctx context.Context, report *models.StudentReport) error
	Update(ctx context.Context, report *models.StudentReport) error
	Delete(ctx context.Context, id string) error
}

type commentRepository interface {
	ListByReport(ctx context.Context, reportID string) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	CountByReportIDs(ctx context.Context, reportIDs []string) ([]models.ReportCommentCount, error)
}

// ReportService manages student reports and their comments.
type ReportService struct {
	repo      reportRepository
	comments  commentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService. cache may be nil.
func NewReportService(repo reportRepository, comments commentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, comments: comments, cache: cache, validator: validate, logger: logger}
}

// GetReports lists the reports of a student within the optional inclusive
// date range. A date-only end bound covers the whole day.
func (s *ReportService) GetReports(ctx context.Context, query dto.ReportQuery) ([]models.StudentReport, error) {
	filter, err := buildReportFilter(query)
	if err != nil {
		return nil, err
	}
	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	if reports == nil {
		reports = []models.StudentReport{}
	}
	return reports, nil
}

func buildReportFilter(query dto.ReportQuery) (models.ReportFilter, error) {
	filter := models.ReportFilter{StudentName: strings.TrimSpace(query.StudentName)}
	if filter.StudentName == "" {
		return filter, appErrors.Validation("studentName is required")
	}
	if strings.TrimSpace(query.StartDate) != "" {
		start, err := parseTimestamp(query.StartDate)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid startDate")
		}
		filter.StartDate = &start
	}
	if strings.TrimSpace(query.EndDate) != "" {
		end, err := parseTimestamp(query.EndDate)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid endDate")
		}
		if isDateOnly(query.EndDate) {
			end = endOfDay(end)
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, appErrors.Validation("endDate must not be before startDate")
	}
	return filter, nil
}

// CreateReport validates and stores a new report. Sentiment is always neutral.
func (s *ReportService) CreateReport(ctx context.Context, payload dto.ReportPayload) (*models.StudentReport, error) {
	payload = trimReportPayload(payload)
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "report, studentName, type, status, person, writer and timestamp are required")
	}
	ts, err := parseTimestamp(payload.Timestamp)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timestamp")
	}

	report := &models.StudentReport{
		Type:        models.ReportType(payload.Type),
		Person:      payload.Person,
		Status:      payload.Status,
		Report:      payload.Report,
		StudentName: payload.StudentName,
		Sentiment:   models.SentimentNeutral,
		Timestamp:   ts,
		Writer:      payload.Writer,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	s.cache.Delete(ctx, urgentReportsKey)
	return report, nil
}

func trimReportPayload(p dto.ReportPayload) dto.ReportPayload {
	p.Type = strings.TrimSpace(p.Type)
	p.Person = strings.TrimSpace(p.Person)
	p.Status = strings.TrimSpace(p.Status)
	p.Report = strings.TrimSpace(p.Report)
	p.StudentName = strings.TrimSpace(p.StudentName)
	p.Timestamp = strings.TrimSpace(p.Timestamp)
	p.Writer = strings.TrimSpace(p.Writer)
	return p
}

// UpdateReport overwrites the provided fields of a report. The timestamp is
// always required.
func (s *ReportService) UpdateReport(ctx context.Context, id string, payload dto.ReportUpdatePayload) (*models.StudentReport, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("report id is required")
	}
	ts, err := parseTimestamp(payload.Timestamp)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timestamp")
	}

	report, err := s.findReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(payload.Type); v != "" {
		report.Type = models.ReportType(v)
	}
	assign(&report.Person, payload.Person)
	assign(&report.Status, payload.Status)
	assign(&report.Report, payload.Report)
	assign(&report.StudentName, payload.StudentName)
	assign(&report.Writer, payload.Writer)
	report.Timestamp = ts

	if err := s.repo.Update(ctx, report); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}
	s.cache.Delete(ctx, urgentReportsKey)
	return report, nil
}

// DeleteReport removes a report.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Validation("report id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isMissing(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}
	s.cache.Delete(ctx, urgentReportsKey)
	return nil
}

// GetUrgentReports lists reports of type Urgent, served from cache when
// possible.
func (s *ReportService) GetUrgentReports(ctx context.Context) ([]models.StudentReport, error) {
	var cached []models.StudentReport
	if s.cache.Get(ctx, urgentReportsKey, &cached) {
		return cached, nil
	}
	reports, err := s.repo.ListByType(ctx, models.ReportTypeUrgent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list urgent reports")
	}
	if reports == nil {
		reports = []models.StudentReport{}
	}
	s.cache.Set(ctx, urgentReportsKey, reports, 0)
	return reports, nil
}

// GetTotalCommentsByStudents sums comment counts over each student's reports.
// Every requested name is present in the result exactly as it was sent, with
// zero when the student has no reports or no comments. Names are matched
// after trimming.
func (s *ReportService) GetTotalCommentsByStudents(ctx context.Context, students []dto.StudentRef) (map[string]int, error) {
	totals := make(map[string]int, len(students))
	requested := make(map[string][]string, len(students))
	for _, st := range students {
		key := strings.TrimSpace(st.Name)
		if key == "" {
			continue
		}
		if _, ok := totals[st.Name]; ok {
			continue
		}
		totals[st.Name] = 0
		requested[key] = append(requested[key], st.Name)
	}
	if len(requested) == 0 {
		return nil, appErrors.Validation("students must contain at least one name")
	}
	names := make([]string, 0, len(students))
	for _, st := range students {
		names = append(names, st.Name)
	}
	names = uniqueNonEmpty(names)

	reports, err := s.repo.ListByStudentNames(ctx, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}
	if len(reports) == 0 {
		return totals, nil
	}

	owner := make(map[string]string, len(reports))
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		owner[r.ID] = r.StudentName
		ids = append(ids, r.ID)
	}
	counts, err := s.comments.CountByReportIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count comments")
	}
	for _, c := range counts {
		name, ok := owner[c.StudentReportID]
		if !ok {
			continue
		}
		for _, asked := range requested[name] {
			totals[asked] += c.Count
		}
	}
	return totals, nil
}

// ListComments returns the comments of a report.
func (s *ReportService) ListComments(ctx context.Context, reportID string) ([]models.Comment, error) {
	if _, err := s.findReport(ctx, reportID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// CreateComment attaches a comment written by writer to a report.
func (s *ReportService) CreateComment(ctx context.Context, reportID, writer string, req dto.CommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "comment content is required")
	}
	if _, err := s.findReport(ctx, reportID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		StudentReportID: reportID,
		Writer:          writer,
		Content:         strings.TrimSpace(req.Content),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

func (s *ReportService) findReport(ctx context.Context, id string) (*models.StudentReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}
